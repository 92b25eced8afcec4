package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func testPeople() []*domain.Person {
	return []*domain.Person{
		{ID: 1, FullName: "Justin Silva", IsMale: true, SpeaksPortuguese: true, CapacityFactor: 1},
		{ID: 2, FullName: "Ana Santos", SpeaksPortuguese: true, CapacityFactor: 1},
		{ID: 3, FullName: "Maria Costa", CapacityFactor: 1, UnavailablePeriods: []domain.UnavailablePeriod{
			{Start: dayPtr("2025-02-03"), End: dayPtr("2025-02-03")},
		}},
		{ID: 4, FullName: "Pedro Gomes", IsMale: true, SpeaksPortuguese: true, CapacityFactor: 1},
		{ID: 5, FullName: "Michael Alves", IsMale: true, CapacityFactor: 1},
	}
}

func TestValidateRosterPlanDates(t *testing.T) {
	plan := &domain.RosterPlan{DutyDates: []time.Time{day("2025-02-01"), day("2025-02-03")}}
	require.NoError(t, ValidateRosterPlanDates(plan))

	plan.DutyDates = append(plan.DutyDates, day("2025-02-01"))
	assert.Error(t, ValidateRosterPlanDates(plan))

	plan.DutyDates = nil
	assert.Error(t, ValidateRosterPlanDates(plan))
}

func TestValidateRosterWithPlan(t *testing.T) {
	plan := &domain.RosterPlan{DutyDates: []time.Time{day("2025-02-01"), day("2025-02-03")}}

	roster := &domain.Roster{Assignments: []domain.RosterAssignment{
		{DutyDate: day("2025-02-01"), PersonIDs: []int64{1, 2}},
		{DutyDate: day("2025-02-03"), PersonIDs: []int64{3, 4}},
	}}
	require.NoError(t, ValidateRosterWithPlan(roster, plan))

	roster.Assignments[1].DutyDate = day("2025-02-05")
	assert.Error(t, ValidateRosterWithPlan(roster, plan))

	roster.Assignments[1].DutyDate = day("2025-02-01")
	assert.Error(t, ValidateRosterWithPlan(roster, plan))
}

func TestValidateRosterWithPeople(t *testing.T) {
	tests := []struct {
		name        string
		assignments []domain.RosterAssignment
		wantErr     string
	}{
		{
			name: "合法的排班",
			assignments: []domain.RosterAssignment{
				{DutyDate: day("2025-02-01"), PersonIDs: []int64{1, 2}},
				{DutyDate: day("2025-02-03"), PersonIDs: []int64{2, 4}},
			},
		},
		{
			name: "人数不足",
			assignments: []domain.RosterAssignment{
				{DutyDate: day("2025-02-01"), PersonIDs: []int64{1}},
			},
			wantErr: "值班人数",
		},
		{
			name: "人员重复",
			assignments: []domain.RosterAssignment{
				{DutyDate: day("2025-02-01"), PersonIDs: []int64{1, 1}},
			},
			wantErr: "重复出现",
		},
		{
			name: "名单之外的人员",
			assignments: []domain.RosterAssignment{
				{DutyDate: day("2025-02-01"), PersonIDs: []int64{1, 99}},
			},
			wantErr: "不在可参与排班的名单中",
		},
		{
			name: "排到了不可用的日期",
			assignments: []domain.RosterAssignment{
				{DutyDate: day("2025-02-03"), PersonIDs: []int64{1, 3}},
			},
			wantErr: "不可值班",
		},
		{
			name: "没有女性",
			assignments: []domain.RosterAssignment{
				{DutyDate: day("2025-02-01"), PersonIDs: []int64{1, 4}},
			},
			wantErr: "女性",
		},
		{
			name: "没有会葡萄牙语的人",
			assignments: []domain.RosterAssignment{
				{DutyDate: day("2025-02-01"), PersonIDs: []int64{3, 5}},
			},
			wantErr: "葡萄牙语",
		},
		{
			name: "值班间隔不足",
			assignments: []domain.RosterAssignment{
				{DutyDate: day("2025-02-01"), PersonIDs: []int64{1, 2}},
				{DutyDate: day("2025-02-02"), PersonIDs: []int64{2, 4}},
			},
			wantErr: "间隔不足",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := &domain.Roster{Assignments: tt.assignments}
			err := ValidateRosterWithPeople(roster, testPeople(), 2, 1)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
