package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func TestUnavailablePeriodContains(t *testing.T) {
	tests := []struct {
		name   string
		period UnavailablePeriod
		day    time.Time
		want   bool
	}{
		{"区间内", UnavailablePeriod{Start: datePtr("2025-01-02"), End: datePtr("2025-01-05")}, date("2025-01-03"), true},
		{"开始当天", UnavailablePeriod{Start: datePtr("2025-01-02"), End: datePtr("2025-01-05")}, date("2025-01-02"), true},
		{"结束当天", UnavailablePeriod{Start: datePtr("2025-01-02"), End: datePtr("2025-01-05")}, date("2025-01-05"), true},
		{"区间之前", UnavailablePeriod{Start: datePtr("2025-01-02"), End: datePtr("2025-01-05")}, date("2025-01-01"), false},
		{"区间之后", UnavailablePeriod{Start: datePtr("2025-01-02"), End: datePtr("2025-01-05")}, date("2025-01-06"), false},
		{"没有开始日期", UnavailablePeriod{End: datePtr("2025-01-05")}, date("2020-06-01"), true},
		{"没有结束日期", UnavailablePeriod{Start: datePtr("2025-01-02")}, date("2030-06-01"), true},
		{"两端都缺省", UnavailablePeriod{}, date("2025-01-03"), true},
		{"只比较日期部分", UnavailablePeriod{Start: datePtr("2025-01-02"), End: datePtr("2025-01-02")}, time.Date(2025, 1, 2, 23, 59, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.period.Contains(tt.day))
		})
	}
}

func TestPersonIsAvailableOn(t *testing.T) {
	person := &Person{
		FullName: "Ana",
		UnavailablePeriods: []UnavailablePeriod{
			{Start: datePtr("2025-01-02"), End: datePtr("2025-01-03")},
			{Start: datePtr("2025-01-10"), End: datePtr("2025-01-10")},
		},
	}

	assert.True(t, person.IsAvailableOn(date("2025-01-01")))
	assert.False(t, person.IsAvailableOn(date("2025-01-02")))
	assert.False(t, person.IsAvailableOn(date("2025-01-10")))
	assert.True(t, person.IsAvailableOn(date("2025-01-11")))
}
