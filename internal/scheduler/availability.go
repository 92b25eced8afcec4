package scheduler

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

type availabilityKey struct {
	personID int64
	dateIdx  int
}

// ParseDate 解析 YYYY-MM-DD 格式的值班日期，解析失败属于数据错误。
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, &DataError{Reason: fmt.Sprintf("无法解析日期 %q", s)}
	}
	return t, nil
}

// resolveAvailability 把每个人的不可用时间段和值班日期展开成 (person, date) 可用性矩阵，
// 同时统计每个人的可用天数。矩阵里为 false 的组合在后续建模中不会产生任何变量。
func (s *Scheduler) resolveAvailability() error {
	s.available = make(map[availabilityKey]bool)
	s.availableDays = make(map[int64]int)

	for _, person := range s.people {
		for _, period := range person.UnavailablePeriods {
			if period.Start != nil && period.End != nil && domain.DateOf(*period.Start).After(domain.DateOf(*period.End)) {
				return &DataError{Reason: fmt.Sprintf("%s 的不可用时间段开始日期晚于结束日期", person.FullName)}
			}
		}
	}

	for _, person := range s.people {
		for j, date := range s.dates {
			available := person.IsAvailableOn(date)
			s.available[availabilityKey{personID: person.ID, dateIdx: j}] = available
			if available {
				s.availableDays[person.ID]++
			}
		}
	}

	return nil
}
