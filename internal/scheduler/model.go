package scheduler

import (
	"fmt"
	"math"
	"time"
)

// 排班参数
type Parameters struct {
	PeopleNeeded int           // 每个值班日需要的人数
	MinRestDays  int           // 同一个人两次值班之间至少间隔的天数
	TimeLimit    time.Duration // 求解时间限制，为 0 时不限制
}

// VarKind 变量类型，与求解器的列类型一一对应
type VarKind int

const (
	VarBinary VarKind = iota
	VarInteger
	VarContinuous
)

// BoundsType 约束（或变量）边界的类型
type BoundsType int

const (
	BoundFixed  BoundsType = iota // 表达式等于 Lower
	BoundLower                    // 表达式大于等于 Lower
	BoundUpper                    // 表达式小于等于 Upper
	BoundDouble                   // 表达式介于 Lower 与 Upper 之间
)

type Column struct {
	Name    string
	Kind    VarKind
	Lower   float64
	Upper   float64
	ObjCoef float64
}

// Term 约束中的一项，Col 是列下标（从 0 开始），Coef 是系数
type Term struct {
	Col  int
	Coef float64
}

type Row struct {
	Name   string
	Bounds BoundsType
	Lower  float64
	Upper  float64
	Terms  []Term
}

type assignKey struct {
	personID int64
	dateIdx  int
}

// Model 是一次排班对应的完整整数线性规划，构建完成之后不再修改。
// assign、totals、devPos、devNeg 记录建模时的列下标，供解释器把求解器
// 返回的变量取值映射回排班结果。
type Model struct {
	Columns []Column
	Rows    []Row

	assign map[assignKey]int // (personID, dateIdx) -> 指派变量 x 的列下标
	totals map[int64]int     // personID -> 值班次数变量 y 的列下标
	devPos map[int64]int     // personID -> 正偏差变量 z+ 的列下标
	devNeg map[int64]int     // personID -> 负偏差变量 z- 的列下标
}

func (m *Model) addColumn(col Column) int {
	m.Columns = append(m.Columns, col)
	return len(m.Columns) - 1
}

func (m *Model) addRow(row Row) {
	m.Rows = append(m.Rows, row)
}

// buildModel 把可用性矩阵、公平份额和休息日期对翻译成整数线性规划。
// 模型里只为可用的 (person, date) 组合创建 0-1 指派变量，不可用的组合
// 根本不存在变量，从结构上保证缺勤的人不可能被排进去。
func (s *Scheduler) buildModel() (*Model, error) {
	m := &Model{
		Columns: make([]Column, 0),
		Rows:    make([]Row, 0),
		assign:  make(map[assignKey]int),
		totals:  make(map[int64]int),
		devPos:  make(map[int64]int),
		devNeg:  make(map[int64]int),
	}

	// 指派变量 x
	for j, date := range s.dates {
		for _, person := range s.people {
			if !s.available[availabilityKey{personID: person.ID, dateIdx: j}] {
				continue
			}
			col := m.addColumn(Column{
				Name: fmt.Sprintf("x_%d_%s", person.ID, date.Format(time.DateOnly)),
				Kind: VarBinary,
			})
			m.assign[assignKey{personID: person.ID, dateIdx: j}] = col
		}
	}

	// 值班次数变量 y 和公平性偏差变量 z+、z-，偏差变量直接进目标函数
	for _, person := range s.people {
		m.totals[person.ID] = m.addColumn(Column{
			Name:  fmt.Sprintf("y_%d", person.ID),
			Kind:  VarInteger,
			Lower: 0,
			Upper: float64(len(s.dates)),
		})
		m.devPos[person.ID] = m.addColumn(Column{
			Name:    fmt.Sprintf("zpos_%d", person.ID),
			Kind:    VarContinuous,
			Lower:   0,
			Upper:   math.Inf(1),
			ObjCoef: 1,
		})
		m.devNeg[person.ID] = m.addColumn(Column{
			Name:    fmt.Sprintf("zneg_%d", person.ID),
			Kind:    VarContinuous,
			Lower:   0,
			Upper:   math.Inf(1),
			ObjCoef: 1,
		})
	}

	// 每个值班日的覆盖约束、性别约束和语言约束，
	// 先做局部的可行性检查，把显然无解的日期直接报告出来
	for j, date := range s.dates {
		cover := make([]Term, 0)
		female := make([]Term, 0)
		portuguese := make([]Term, 0)

		for _, person := range s.people {
			col, ok := m.assign[assignKey{personID: person.ID, dateIdx: j}]
			if !ok {
				continue
			}
			cover = append(cover, Term{Col: col, Coef: 1})
			if !person.IsMale {
				female = append(female, Term{Col: col, Coef: 1})
			}
			if person.SpeaksPortuguese {
				portuguese = append(portuguese, Term{Col: col, Coef: 1})
			}
		}

		day := date.Format(time.DateOnly)
		if len(cover) < s.parameters.PeopleNeeded {
			return nil, &InfeasibleError{Reason: fmt.Sprintf("%s 当天可用的人数不足 %d 人", day, s.parameters.PeopleNeeded)}
		}
		if len(female) == 0 {
			return nil, &InfeasibleError{Reason: fmt.Sprintf("%s 当天没有可用的女性值班人员", day)}
		}
		if len(portuguese) == 0 {
			return nil, &InfeasibleError{Reason: fmt.Sprintf("%s 当天没有可用的会葡萄牙语的值班人员", day)}
		}

		needed := float64(s.parameters.PeopleNeeded)
		m.addRow(Row{Name: "cover_" + day, Bounds: BoundFixed, Lower: needed, Upper: needed, Terms: cover})
		m.addRow(Row{Name: "female_" + day, Bounds: BoundLower, Lower: 1, Terms: female})
		m.addRow(Row{Name: "portuguese_" + day, Bounds: BoundLower, Lower: 1, Terms: portuguese})
	}

	// 休息约束：同一个人在间隔过近的两天里最多值班一次，
	// 任意一天的变量不存在时约束天然成立，不需要生成
	for _, pair := range s.restPairs {
		for _, person := range s.people {
			c1, ok1 := m.assign[assignKey{personID: person.ID, dateIdx: pair.i}]
			c2, ok2 := m.assign[assignKey{personID: person.ID, dateIdx: pair.j}]
			if !ok1 || !ok2 {
				continue
			}
			m.addRow(Row{
				Name:   fmt.Sprintf("rest_%d_%d_%d", person.ID, pair.i, pair.j),
				Bounds: BoundUpper,
				Upper:  1,
				Terms:  []Term{{Col: c1, Coef: 1}, {Col: c2, Coef: 1}},
			})
		}
	}

	// 次数关联约束：y_i = Σ_j x_ij，
	// 可用天数为零的人没有任何 x 变量，y_i 会被固定为 0
	for _, person := range s.people {
		terms := []Term{{Col: m.totals[person.ID], Coef: 1}}
		for j := range s.dates {
			if col, ok := m.assign[assignKey{personID: person.ID, dateIdx: j}]; ok {
				terms = append(terms, Term{Col: col, Coef: -1})
			}
		}
		m.addRow(Row{Name: fmt.Sprintf("count_%d", person.ID), Bounds: BoundFixed, Lower: 0, Upper: 0, Terms: terms})
	}

	// 公平性关联约束：z+ - z- = y_i / d_i - rate_i，
	// 可用天数为零的人没有这条约束，目标函数会把他的偏差变量压成 0
	for _, person := range s.people {
		d := s.availableDays[person.ID]
		if d == 0 {
			continue
		}
		rhs := -s.fairShares[person.ID]
		m.addRow(Row{
			Name:   fmt.Sprintf("fair_%d", person.ID),
			Bounds: BoundFixed,
			Lower:  rhs,
			Upper:  rhs,
			Terms: []Term{
				{Col: m.devPos[person.ID], Coef: 1},
				{Col: m.devNeg[person.ID], Coef: -1},
				{Col: m.totals[person.ID], Coef: -1.0 / float64(d)},
			},
		})
	}

	return m, nil
}
