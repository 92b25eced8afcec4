package scheduler

import "context"

// Status 求解器返回的求解状态
type Status string

const (
	StatusOptimal    Status = "Optimal"    // 找到了最优解
	StatusFeasible   Status = "Feasible"   // 找到了可行解但没能证明最优
	StatusInfeasible Status = "Infeasible" // 约束之间相互冲突，不存在可行解
	StatusUnbounded  Status = "Unbounded"  // 目标函数无界
	StatusNotSolved  Status = "NotSolved"  // 在时间限制内没有得到任何结论
)

// Solution 求解器对一个模型的回答，只有 Status 为 Optimal 或 Feasible 时
// Values 才按列下标给出每个变量的取值。
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
}

// Solver 把模型当成不可变的快照进行求解，引擎不关心内部的搜索策略，
// 上下文到期后求解器应当尽快返回。
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Solution, error)
}
