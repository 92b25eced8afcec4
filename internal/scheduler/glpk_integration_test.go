//go:build glpk

// 这些用例需要通过 cgo 链接系统的 libglpk，用 glpk 标签单独启用:
// go test -tags glpk ./internal/scheduler/

package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 手写的小模型: min x1 + 2*x2, 约束 x1 + x2 = 1, 最优解是 x1 = 1。
// 约束的第一项落在 x1 上，如果矩阵装载时丢掉首项，约束会退化成 x2 = 1，
// 目标函数值就会变成 2 而不是 1。
func TestGLPKSolveSmallModel(t *testing.T) {
	m := &Model{
		Columns: []Column{
			{Name: "x1", Kind: VarBinary, ObjCoef: 1},
			{Name: "x2", Kind: VarBinary, ObjCoef: 2},
		},
		Rows: []Row{
			{Name: "pick", Bounds: BoundFixed, Lower: 1, Upper: 1, Terms: []Term{
				{Col: 0, Coef: 1},
				{Col: 1, Coef: 1},
			}},
		},
	}

	sol, err := NewGLPKSolver().Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 1.0, sol.Objective, 1e-9)
	assert.InDelta(t, 1.0, sol.Values[0], 1e-9)
	assert.InDelta(t, 0.0, sol.Values[1], 1e-9)
}

// 完整跑一遍真实求解器，检查排班结果满足所有硬约束
func TestScheduleWithGLPK(t *testing.T) {
	people, dates := workedExample()

	s, err := New(&Parameters{PeopleNeeded: 2, MinRestDays: 1}, people, dates, NewGLPKSolver())
	require.NoError(t, err)

	res, err := s.Schedule(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	require.Len(t, res.Entries, len(dates))

	peopleByID := make(map[int64]bool)
	for _, person := range people {
		peopleByID[person.ID] = true
	}

	total := 0
	for _, entry := range res.Entries {
		assert.Len(t, entry.PersonIDs, 2)
		for _, id := range entry.PersonIDs {
			assert.True(t, peopleByID[id])
		}
		total += len(entry.PersonIDs)
	}
	assert.Equal(t, 2*len(dates), total)
}
