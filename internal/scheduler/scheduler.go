package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

// Scheduler 负责一次完整的排班：解析可用性、计算公平份额、构建整数线性
// 规划模型、调用求解器并把解翻译回排班表。一个 Scheduler 只用于一次排班。
type Scheduler struct {
	parameters    *Parameters
	people        []*domain.Person
	dates         []time.Time
	solver        Solver
	available     map[availabilityKey]bool
	availableDays map[int64]int
	fairShares    map[int64]float64
	restPairs     []restPair
	model         *Model
}

func New(parameters *Parameters, people []*domain.Person, dates []time.Time, solver Solver) (*Scheduler, error) {
	// 拷贝一份参数再填默认值，不去修改调用方的结构体
	params := *parameters
	if params.PeopleNeeded <= 0 {
		params.PeopleNeeded = 2
	}
	if params.MinRestDays <= 0 {
		params.MinRestDays = 1
	}

	if len(people) == 0 {
		return nil, &DataError{Reason: "没有任何可参与排班的人员"}
	}
	if len(dates) == 0 {
		return nil, &DataError{Reason: "没有任何需要排班的日期"}
	}

	seenID := make(map[int64]bool)
	for _, person := range people {
		if seenID[person.ID] {
			return nil, &DataError{Reason: fmt.Sprintf("人员 %d 在名单中出现了多次", person.ID)}
		}
		seenID[person.ID] = true

		if person.CapacityFactor <= 0 {
			return nil, &DataError{Reason: fmt.Sprintf("%s 的容量系数必须是正数", person.FullName)}
		}
	}

	s := &Scheduler{
		parameters: &params,
		people:     people,
		dates:      make([]time.Time, len(dates)),
		solver:     solver,
	}

	// 日期只保留年月日，重复的日期说明输入有误
	seenDate := make(map[time.Time]bool)
	for i, date := range dates {
		day := domain.DateOf(date)
		if seenDate[day] {
			return nil, &DataError{Reason: fmt.Sprintf("值班日期 %s 出现了多次", day.Format(time.DateOnly))}
		}
		seenDate[day] = true
		s.dates[i] = day
	}

	if err := s.resolveAvailability(); err != nil {
		return nil, err
	}
	if err := s.computeFairShares(); err != nil {
		return nil, err
	}
	s.restPairs = detectRestPairs(s.dates, params.MinRestDays)

	return s, nil
}

func (s *Scheduler) Schedule(ctx context.Context) (*Result, error) {
	model, err := s.buildModel()
	if err != nil {
		return nil, err
	}
	s.model = model

	if s.parameters.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.parameters.TimeLimit)
		defer cancel()
	}

	solution, err := s.solver.Solve(ctx, model)
	if err != nil {
		return nil, err
	}

	switch solution.Status {
	case StatusInfeasible:
		return nil, &InfeasibleError{Reason: "约束之间相互冲突，不存在可行的排班"}
	case StatusUnbounded:
		// 所有变量都有下界且目标系数非负，出现无界解说明建模有缺陷
		return nil, fmt.Errorf("模型出现无界解，变量边界存在内部错误")
	}

	result := s.interpret(solution)

	// 独立于求解器再校验一次，确保不会把违反硬约束的排班交给调用方
	if result.Status == StatusOptimal {
		if err := s.validateResult(result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// validateResult 逐条检查最优解是否满足所有硬约束。
func (s *Scheduler) validateResult(result *Result) error {
	if len(result.Entries) != len(s.dates) {
		return fmt.Errorf("排班结果缺少日期: 期望 %d 天，实际 %d 天", len(s.dates), len(result.Entries))
	}

	dateIdx := make(map[time.Time]int, len(s.dates))
	for j, date := range s.dates {
		dateIdx[date] = j
	}

	assignedDates := make(map[int64][]time.Time)
	counts := make(map[int64]int)

	for _, entry := range result.Entries {
		j, ok := dateIdx[entry.Date]
		if !ok {
			return fmt.Errorf("排班结果出现了计划之外的日期 %s", entry.Date.Format(time.DateOnly))
		}

		if len(entry.PersonIDs) != s.parameters.PeopleNeeded {
			return fmt.Errorf("%s 的值班人数不是 %d 人", entry.Date.Format(time.DateOnly), s.parameters.PeopleNeeded)
		}

		hasFemale := false
		hasPortuguese := false
		seen := make(map[int64]bool)
		for _, id := range entry.PersonIDs {
			if seen[id] {
				return fmt.Errorf("%s 的值班名单中人员 %d 重复出现", entry.Date.Format(time.DateOnly), id)
			}
			seen[id] = true

			if !s.available[availabilityKey{personID: id, dateIdx: j}] {
				return fmt.Errorf("人员 %d 在 %s 不可值班却被排入", id, entry.Date.Format(time.DateOnly))
			}

			person := s.personByID(id)
			if person == nil {
				return fmt.Errorf("排班结果出现了名单之外的人员 %d", id)
			}
			if !person.IsMale {
				hasFemale = true
			}
			if person.SpeaksPortuguese {
				hasPortuguese = true
			}

			assignedDates[id] = append(assignedDates[id], entry.Date)
			counts[id]++
		}

		if !hasFemale {
			return fmt.Errorf("%s 的值班名单中没有女性", entry.Date.Format(time.DateOnly))
		}
		if !hasPortuguese {
			return fmt.Errorf("%s 的值班名单中没有会葡萄牙语的人", entry.Date.Format(time.DateOnly))
		}
	}

	for id, days := range assignedDates {
		for a := 0; a < len(days); a++ {
			for b := a + 1; b < len(days); b++ {
				diff := days[b].Sub(days[a]).Hours() / 24
				if diff < 0 {
					diff = -diff
				}
				if diff >= 1 && int(diff) <= s.parameters.MinRestDays {
					return fmt.Errorf("人员 %d 在间隔不足的两天内被重复排班", id)
				}
			}
		}
	}

	for _, fairness := range result.Fairness {
		if fairness.AssignedCount != counts[fairness.PersonID] {
			return fmt.Errorf("人员 %d 的值班次数与指派明细不一致", fairness.PersonID)
		}
	}

	return nil
}

func (s *Scheduler) personByID(id int64) *domain.Person {
	for _, person := range s.people {
		if person.ID == id {
			return person
		}
	}
	return nil
}
