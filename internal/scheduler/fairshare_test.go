package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func TestComputeFairShares(t *testing.T) {
	people, dates := workedExample()

	s, err := New(&Parameters{PeopleNeeded: 2, MinRestDays: 1}, people, dates, enumSolver{})
	require.NoError(t, err)

	// 归一化频率 rate_i = 2 * 5 * c_i / 27.2
	assert.InDelta(t, 10.0/27.2, s.fairShares[1], 1e-9)     // Justin
	assert.InDelta(t, 10.0*0.8/27.2, s.fairShares[2], 1e-9) // Michael

	// 所有人的期望值班次数之和等于名额总数
	total := 0.0
	for id, rate := range s.fairShares {
		total += rate * float64(s.availableDays[id])
	}
	assert.InDelta(t, 10.0, total, 1e-9)
}

func TestComputeFairSharesHigherCapacityGetsHigherRate(t *testing.T) {
	people := []*domain.Person{
		{ID: 1, FullName: "Ana", SpeaksPortuguese: true, CapacityFactor: 1.0},
		{ID: 2, FullName: "Maria", CapacityFactor: 0.5},
	}
	dates := []time.Time{day("2025-01-01"), day("2025-01-03")}

	s, err := New(&Parameters{PeopleNeeded: 1, MinRestDays: 1}, people, dates, enumSolver{})
	require.NoError(t, err)

	assert.Greater(t, s.fairShares[1], s.fairShares[2])
	assert.InDelta(t, 2.0, s.fairShares[1]/s.fairShares[2], 1e-9)
}

func TestComputeFairSharesAllUnavailable(t *testing.T) {
	// 所有人全程不可用时加权可用天数之和为零，属于数据错误
	people := []*domain.Person{
		{ID: 1, FullName: "Ana", CapacityFactor: 1, UnavailablePeriods: []domain.UnavailablePeriod{{}}},
	}

	_, err := New(&Parameters{}, people, []time.Time{day("2025-01-01")}, enumSolver{})
	dataErr := &DataError{}
	require.ErrorAs(t, err, &dataErr)
}
