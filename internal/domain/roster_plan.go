package domain

import "time"

type RosterPlan struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	DutyDates    []time.Time `json:"dutyDates"`
	PeopleNeeded int32       `json:"peopleNeeded"`
	MinRestDays  int32       `json:"minRestDays"`
	TimeLimit    int32       `json:"timeLimit"` // 求解时间限制（秒）
	CreatedAt    time.Time   `json:"createdAt"`
	Version      int32       `json:"-"`
}
