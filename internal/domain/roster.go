package domain

import "time"

type RosterAssignment struct {
	DutyDate  time.Time `json:"dutyDate"`
	PersonIDs []int64   `json:"personIDs"`
}

// RosterFairness 记录一个人在某次排班中的公平性指标，
// FairShare 是根据可用天数和容量系数折算出来的期望值班次数。
type RosterFairness struct {
	PersonID          int64   `json:"personID"`
	AssignedCount     int32   `json:"assignedCount"`
	AvailableDays     int32   `json:"availableDays"`
	NormalizedRate    float64 `json:"normalizedRate"`
	FairShare         float64 `json:"fairShare"`
	PositiveDeviation float64 `json:"positiveDeviation"`
	NegativeDeviation float64 `json:"negativeDeviation"`
}

type Roster struct {
	ID           int64              `json:"id"`
	RosterPlanID int64              `json:"rosterPlanID"`
	Status       string             `json:"status"`
	Objective    float64            `json:"objective"`
	Assignments  []RosterAssignment `json:"assignments"`
	Fairness     []RosterFairness   `json:"fairness"`
	CreatedAt    time.Time          `json:"createdAt"`
	Version      int32              `json:"-"`
}
