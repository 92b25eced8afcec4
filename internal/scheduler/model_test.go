package scheduler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func TestBuildModelSparseVariables(t *testing.T) {
	people, dates := workedExample()

	s, err := New(&Parameters{PeopleNeeded: 2, MinRestDays: 1}, people, dates, enumSolver{})
	require.NoError(t, err)

	m, err := s.buildModel()
	require.NoError(t, err)

	// Michael（2025-01-06 不可用）和 Ana（2025-01-09 不可用）各少一个指派变量
	assert.Len(t, m.assign, 6*5-2)
	_, exists := m.assign[assignKey{personID: 2, dateIdx: 0}]
	assert.False(t, exists)
	_, exists = m.assign[assignKey{personID: 3, dateIdx: 2}]
	assert.False(t, exists)

	// 每个人有 y、z+、z- 三个辅助变量
	assert.Len(t, m.Columns, len(m.assign)+3*len(people))

	// 只有偏差变量带目标系数
	for i, col := range m.Columns {
		if col.Kind == VarContinuous {
			assert.Equal(t, 1.0, col.ObjCoef, "列 %d", i)
		} else {
			assert.Zero(t, col.ObjCoef, "列 %d", i)
		}
	}
}

func TestBuildModelRows(t *testing.T) {
	people, dates := workedExample()

	s, err := New(&Parameters{PeopleNeeded: 2, MinRestDays: 1}, people, dates, enumSolver{})
	require.NoError(t, err)

	m, err := s.buildModel()
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, row := range m.Rows {
		prefix := row.Name[:strings.Index(row.Name, "_")]
		counts[prefix]++

		switch prefix {
		case "cover":
			assert.Equal(t, BoundFixed, row.Bounds)
			assert.Equal(t, 2.0, row.Lower)
		case "female", "portuguese":
			assert.Equal(t, BoundLower, row.Bounds)
			assert.Equal(t, 1.0, row.Lower)
		case "rest":
			assert.Equal(t, BoundUpper, row.Bounds)
			assert.Equal(t, 1.0, row.Upper)
			assert.Len(t, row.Terms, 2)
		}
	}

	assert.Equal(t, len(dates), counts["cover"])
	assert.Equal(t, len(dates), counts["female"])
	assert.Equal(t, len(dates), counts["portuguese"])
	assert.Equal(t, len(people), counts["count"])
	// 所有人的可用天数都不为零，都有公平性关联约束
	assert.Equal(t, len(people), counts["fair"])

	// 休息约束只覆盖 (01-06, 01-07) 和 (01-11, 01-12) 两对日期，
	// Michael 在 01-06 没有指派变量，所以第一对日期少一条约束
	assert.Equal(t, 2*len(people)-1, counts["rest"])
}

func TestBuildModelSkipsFairRowForZeroAvailability(t *testing.T) {
	people, dates := workedExample()
	people = append(people, &domain.Person{
		ID: 7, FullName: "Carlos", IsMale: true, CapacityFactor: 1,
		UnavailablePeriods: []domain.UnavailablePeriod{{}},
	})

	s, err := New(&Parameters{PeopleNeeded: 2, MinRestDays: 1}, people, dates, enumSolver{})
	require.NoError(t, err)

	m, err := s.buildModel()
	require.NoError(t, err)

	fairRows := 0
	for _, row := range m.Rows {
		if strings.HasPrefix(row.Name, "fair_") {
			fairRows++
			assert.NotContains(t, row.Name, "fair_7")
		}
	}
	assert.Equal(t, 6, fairRows)
}
