package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, day("2025-01-06"), got)

	_, err = ParseDate("2025/01/06")
	dataErr := &DataError{}
	require.ErrorAs(t, err, &dataErr)
}

func TestResolveAvailability(t *testing.T) {
	people := []*domain.Person{
		{ID: 1, FullName: "Ana", SpeaksPortuguese: true, CapacityFactor: 1, UnavailablePeriods: []domain.UnavailablePeriod{
			{Start: dayPtr("2025-01-02"), End: dayPtr("2025-01-03")},
		}},
		// 只有结束日期的时间段覆盖从无穷远之前到该日期的所有时间
		{ID: 2, FullName: "Maria", CapacityFactor: 1, UnavailablePeriods: []domain.UnavailablePeriod{
			{End: dayPtr("2025-01-02")},
		}},
		// 只有开始日期的时间段覆盖该日期之后的所有时间
		{ID: 3, FullName: "Pedro", IsMale: true, SpeaksPortuguese: true, CapacityFactor: 1, UnavailablePeriods: []domain.UnavailablePeriod{
			{Start: dayPtr("2025-01-03")},
		}},
	}
	dates := []time.Time{day("2025-01-01"), day("2025-01-02"), day("2025-01-03"), day("2025-01-04")}

	s, err := New(&Parameters{PeopleNeeded: 1, MinRestDays: 1}, people, dates, enumSolver{})
	require.NoError(t, err)

	assert.Equal(t, 2, s.availableDays[1]) // Ana 在 1 日和 4 日可用
	assert.Equal(t, 2, s.availableDays[2]) // Maria 在 3 日和 4 日可用
	assert.Equal(t, 2, s.availableDays[3]) // Pedro 在 1 日和 2 日可用

	assert.True(t, s.available[availabilityKey{personID: 1, dateIdx: 0}])
	assert.False(t, s.available[availabilityKey{personID: 1, dateIdx: 1}])
	assert.False(t, s.available[availabilityKey{personID: 1, dateIdx: 2}])
	assert.True(t, s.available[availabilityKey{personID: 1, dateIdx: 3}])
}

func TestResolveAvailabilityRejectsInvertedPeriod(t *testing.T) {
	people := []*domain.Person{
		{ID: 1, FullName: "Ana", CapacityFactor: 1, UnavailablePeriods: []domain.UnavailablePeriod{
			{Start: dayPtr("2025-01-05"), End: dayPtr("2025-01-01")},
		}},
	}

	_, err := New(&Parameters{}, people, []time.Time{day("2025-01-01")}, enumSolver{})
	dataErr := &DataError{}
	require.ErrorAs(t, err, &dataErr)
	assert.Contains(t, dataErr.Reason, "Ana")
}
