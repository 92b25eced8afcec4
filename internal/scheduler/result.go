package scheduler

import (
	"math"
	"sort"
	"time"
)

type RosterEntry struct {
	Date      time.Time `json:"date"`
	PersonIDs []int64   `json:"personIDs"`
}

// PersonFairness 一个人在本次排班中的公平性报告。
// FairShare 是期望值班次数（归一化频率乘以可用天数），NormalizedRate 是
// 实际值班次数除以可用天数，两个偏差取自模型的偏差变量。
type PersonFairness struct {
	PersonID          int64   `json:"personID"`
	FullName          string  `json:"fullName"`
	AssignedCount     int     `json:"assignedCount"`
	AvailableDays     int     `json:"availableDays"`
	NormalizedRate    float64 `json:"normalizedRate"`
	FairShare         float64 `json:"fairShare"`
	PositiveDeviation float64 `json:"positiveDeviation"`
	NegativeDeviation float64 `json:"negativeDeviation"`
}

// Result 一次排班的完整结果，Status 不为 Optimal 时不携带任何指派，
// 绝不返回残缺的排班表。
type Result struct {
	Status    Status           `json:"status"`
	Objective float64          `json:"objective"`
	Entries   []RosterEntry    `json:"entries"`
	Fairness  []PersonFairness `json:"fairness"`
}

// interpret 把求解器返回的变量取值翻译回排班表和公平性报告，
// 指派按日期升序输出。
func (s *Scheduler) interpret(sol *Solution) *Result {
	result := &Result{Status: sol.Status}
	if sol.Status != StatusOptimal {
		return result
	}

	result.Objective = sol.Objective

	order := make([]int, len(s.dates))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return s.dates[order[a]].Before(s.dates[order[b]])
	})

	for _, j := range order {
		entry := RosterEntry{Date: s.dates[j], PersonIDs: make([]int64, 0)}
		for _, person := range s.people {
			col, ok := s.model.assign[assignKey{personID: person.ID, dateIdx: j}]
			if ok && sol.Values[col] > 0.5 {
				entry.PersonIDs = append(entry.PersonIDs, person.ID)
			}
		}
		result.Entries = append(result.Entries, entry)
	}

	for _, person := range s.people {
		d := s.availableDays[person.ID]
		count := int(math.Round(sol.Values[s.model.totals[person.ID]]))

		rate := 0.0
		if d > 0 {
			rate = float64(count) / float64(d)
		}

		result.Fairness = append(result.Fairness, PersonFairness{
			PersonID:          person.ID,
			FullName:          person.FullName,
			AssignedCount:     count,
			AvailableDays:     d,
			NormalizedRate:    rate,
			FairShare:         s.fairShares[person.ID] * float64(d),
			PositiveDeviation: sol.Values[s.model.devPos[person.ID]],
			NegativeDeviation: sol.Values[s.model.devNeg[person.ID]],
		})
	}

	return result
}
