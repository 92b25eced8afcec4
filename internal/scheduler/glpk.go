package scheduler

import (
	"context"
	"fmt"
	"math"

	"github.com/lukpank/go-glpk/glpk"
)

// GLPKSolver 基于 GLPK 的混合整数规划求解器适配器
type GLPKSolver struct{}

func NewGLPKSolver() *GLPKSolver {
	return &GLPKSolver{}
}

type glpkOutcome struct {
	solution *Solution
	err      error
}

// Solve 在独立的 goroutine 中调用 GLPK。go-glpk 没有暴露 glp_iocp 的时间限制
// 参数，上下文到期后只能放弃这次求解并报告 NotSolved，被放弃的 goroutine
// 会继续跑完并释放底层内存。
func (g *GLPKSolver) Solve(ctx context.Context, m *Model) (*Solution, error) {
	done := make(chan glpkOutcome, 1)

	go func() {
		solution, err := solveWithGLPK(m)
		done <- glpkOutcome{solution: solution, err: err}
	}()

	select {
	case <-ctx.Done():
		return &Solution{Status: StatusNotSolved}, nil
	case outcome := <-done:
		return outcome.solution, outcome.err
	}
}

func solveWithGLPK(m *Model) (*Solution, error) {
	lp := glpk.New()
	defer lp.Delete()

	lp.SetProbName("duty_roster")
	lp.SetObjDir(glpk.ObjDir(glpk.MIN))

	// GLPK 的行列下标都从 1 开始
	lp.AddCols(len(m.Columns))
	for i, col := range m.Columns {
		idx := i + 1
		lp.SetColName(idx, col.Name)
		switch col.Kind {
		case VarBinary:
			lp.SetColKind(idx, glpk.VarType(glpk.BV))
		case VarInteger:
			lp.SetColKind(idx, glpk.VarType(glpk.IV))
			lp.SetColBnds(idx, glpk.BndsType(glpk.DB), col.Lower, col.Upper)
		default:
			lp.SetColKind(idx, glpk.VarType(glpk.CV))
			if math.IsInf(col.Upper, 1) {
				lp.SetColBnds(idx, glpk.BndsType(glpk.LO), col.Lower, 0)
			} else {
				lp.SetColBnds(idx, glpk.BndsType(glpk.DB), col.Lower, col.Upper)
			}
		}
		if col.ObjCoef != 0 {
			lp.SetObjCoef(idx, col.ObjCoef)
		}
	}

	lp.AddRows(len(m.Rows))
	for i, row := range m.Rows {
		idx := i + 1
		lp.SetRowName(idx, row.Name)
		switch row.Bounds {
		case BoundFixed:
			lp.SetRowBnds(idx, glpk.BndsType(glpk.FX), row.Lower, row.Upper)
		case BoundLower:
			lp.SetRowBnds(idx, glpk.BndsType(glpk.LO), row.Lower, 0)
		case BoundUpper:
			lp.SetRowBnds(idx, glpk.BndsType(glpk.UP), 0, row.Upper)
		default:
			lp.SetRowBnds(idx, glpk.BndsType(glpk.DB), row.Lower, row.Upper)
		}

		// SetMatRow 也遵循 GLPK 的 1 下标约定，两个切片的第 0 个元素会被忽略
		indices := make([]int32, len(row.Terms)+1)
		coeffs := make([]float64, len(row.Terms)+1)
		for k, term := range row.Terms {
			indices[k+1] = int32(term.Col + 1)
			coeffs[k+1] = term.Coef
		}
		lp.SetMatRow(idx, indices, coeffs)
	}

	// 先解线性松弛，松弛无解或无界时不需要再进入整数求解
	smcp := glpk.NewSmcp()
	smcp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))
	if err := lp.Simplex(smcp); err != nil {
		return nil, fmt.Errorf("单纯形法求解失败: %w", err)
	}

	switch lp.Status() {
	case glpk.NOFEAS, glpk.INFEAS:
		return &Solution{Status: StatusInfeasible}, nil
	case glpk.UNBND:
		return &Solution{Status: StatusUnbounded}, nil
	}

	iocp := glpk.NewIocp()
	iocp.SetPresolve(true)
	iocp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))
	if err := lp.Intopt(iocp); err != nil {
		return nil, fmt.Errorf("整数规划求解失败: %w", err)
	}

	var status Status
	switch lp.MipStatus() {
	case glpk.OPT:
		status = StatusOptimal
	case glpk.FEAS:
		status = StatusFeasible
	case glpk.NOFEAS:
		return &Solution{Status: StatusInfeasible}, nil
	default:
		return &Solution{Status: StatusNotSolved}, nil
	}

	values := make([]float64, len(m.Columns))
	for i := range m.Columns {
		values[i] = lp.MipColVal(i + 1)
	}

	return &Solution{Status: status, Values: values, Objective: lp.MipObjVal()}, nil
}
