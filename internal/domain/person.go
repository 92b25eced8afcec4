package domain

import (
	"time"
)

type Role string

const (
	RoleDutyMember Role = "值班人员"
	RoleManager    Role = "管理员"
)

// UnavailablePeriod 表示一段不能值班的日期区间，两端都是闭区间，
// 缺省的端点表示没有边界（从无穷远之前开始或持续到无穷远之后）。
type UnavailablePeriod struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// Contains 判断 day 是否落在该时间段内，只比较日期部分。
func (p UnavailablePeriod) Contains(day time.Time) bool {
	day = DateOf(day)
	if p.Start != nil && day.Before(DateOf(*p.Start)) {
		return false
	}
	if p.End != nil && day.After(DateOf(*p.End)) {
		return false
	}
	return true
}

type Person struct {
	ID                 int64               `json:"id"`
	Username           string              `json:"username"`
	PasswordHash       string              `json:"-"`
	FullName           string              `json:"fullName"`
	Email              string              `json:"email"`
	Role               Role                `json:"role"`
	IsActive           bool                `json:"isActive"`
	IsMale             bool                `json:"isMale"`
	SpeaksPortuguese   bool                `json:"speaksPortuguese"`
	CapacityFactor     float64             `json:"capacityFactor"`
	UnavailablePeriods []UnavailablePeriod `json:"unavailablePeriods"`
	CreatedAt          time.Time           `json:"createdAt"`
	Version            int32               `json:"-"`
}

// IsAvailableOn 判断此人在 day 当天是否可以值班。
func (p *Person) IsAvailableOn(day time.Time) bool {
	for _, period := range p.UnavailablePeriods {
		if period.Contains(day) {
			return false
		}
	}
	return true
}

// DateOf 把时间截断到当天零点（UTC），所有与值班日期相关的比较都只关心年月日。
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
