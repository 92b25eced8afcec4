package utils

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func ValidateRosterPlanDates(plan *domain.RosterPlan) error {
	if len(plan.DutyDates) == 0 {
		return errors.New("排班计划至少需要一个值班日期")
	}

	seen := make(map[time.Time]bool)
	for _, date := range plan.DutyDates {
		day := domain.DateOf(date)
		if seen[day] {
			return fmt.Errorf("值班日期 %s 出现了多次", day.Format(time.DateOnly))
		}
		seen[day] = true
	}

	return nil
}

// ValidateRosterWithPlan 检查排班结果覆盖的日期和计划中的值班日期完全一致
func ValidateRosterWithPlan(roster *domain.Roster, plan *domain.RosterPlan) error {
	if len(roster.Assignments) != len(plan.DutyDates) {
		return errors.New("排班结果中的日期数量和计划中的值班日期数量不匹配")
	}

	planDates := make(map[time.Time]bool, len(plan.DutyDates))
	for _, date := range plan.DutyDates {
		planDates[domain.DateOf(date)] = true
	}

	seen := make(map[time.Time]bool)
	for _, assignment := range roster.Assignments {
		day := domain.DateOf(assignment.DutyDate)
		if !planDates[day] {
			return fmt.Errorf("排班结果中的日期 %s 不在计划的值班日期中", day.Format(time.DateOnly))
		}
		if seen[day] {
			return fmt.Errorf("排班结果中的日期 %s 出现了多次", day.Format(time.DateOnly))
		}
		seen[day] = true
	}

	return nil
}

// ValidateRosterWithPeople 逐条检查排班结果是否满足所有硬约束：
// 人数、可用性、性别、语言以及两次值班之间的最小间隔。
func ValidateRosterWithPeople(roster *domain.Roster, people []*domain.Person, peopleNeeded int, minRestDays int) error {
	peopleByID := make(map[int64]*domain.Person, len(people))
	for _, person := range people {
		peopleByID[person.ID] = person
	}

	assignedDates := make(map[int64][]time.Time)

	for _, assignment := range roster.Assignments {
		day := domain.DateOf(assignment.DutyDate)

		if len(assignment.PersonIDs) != peopleNeeded {
			return fmt.Errorf("%s 的值班人数不是 %d 人", day.Format(time.DateOnly), peopleNeeded)
		}

		hasFemale := false
		hasPortuguese := false
		seen := make(map[int64]bool)

		for _, id := range assignment.PersonIDs {
			if seen[id] {
				return fmt.Errorf("%s 的值班名单中人员 %d 重复出现", day.Format(time.DateOnly), id)
			}
			seen[id] = true

			person, exists := peopleByID[id]
			if !exists {
				return fmt.Errorf("id 为 %d 的人员不在可参与排班的名单中", id)
			}
			if !person.IsAvailableOn(day) {
				return fmt.Errorf("%s 在 %s 不可值班", person.FullName, day.Format(time.DateOnly))
			}

			if !person.IsMale {
				hasFemale = true
			}
			if person.SpeaksPortuguese {
				hasPortuguese = true
			}

			assignedDates[id] = append(assignedDates[id], day)
		}

		if !hasFemale {
			return fmt.Errorf("%s 的值班名单中没有女性", day.Format(time.DateOnly))
		}
		if !hasPortuguese {
			return fmt.Errorf("%s 的值班名单中没有会葡萄牙语的人", day.Format(time.DateOnly))
		}
	}

	for id, days := range assignedDates {
		for i := 0; i < len(days); i++ {
			for j := i + 1; j < len(days); j++ {
				diff := math.Abs(days[j].Sub(days[i]).Hours() / 24)
				if diff >= 1 && int(diff) <= minRestDays {
					return fmt.Errorf("%s 的两次值班间隔不足 %d 天", peopleByID[id].FullName, minRestDays)
				}
			}
		}
	}

	return nil
}
