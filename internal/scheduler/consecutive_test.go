package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectRestPairs(t *testing.T) {
	tests := []struct {
		name        string
		dates       []time.Time
		minRestDays int
		want        []restPair
	}{
		{
			name:        "连续的两天",
			dates:       []time.Time{day("2025-01-01"), day("2025-01-02")},
			minRestDays: 1,
			want:        []restPair{{i: 0, j: 1}},
		},
		{
			name:        "间隔一天不构成约束",
			dates:       []time.Time{day("2025-01-01"), day("2025-01-03")},
			minRestDays: 1,
			want:        []restPair{},
		},
		{
			name:        "间隔天数随参数增大",
			dates:       []time.Time{day("2025-01-01"), day("2025-01-03")},
			minRestDays: 2,
			want:        []restPair{{i: 0, j: 1}},
		},
		{
			name:        "乱序输入返回原始下标",
			dates:       []time.Time{day("2025-01-05"), day("2025-01-04")},
			minRestDays: 1,
			want:        []restPair{{i: 0, j: 1}},
		},
		{
			name:        "同一天的重复日期被跳过",
			dates:       []time.Time{day("2025-01-01"), day("2025-01-01")},
			minRestDays: 1,
			want:        []restPair{},
		},
		{
			name:        "多个日期的滑动窗口",
			dates:       []time.Time{day("2025-01-06"), day("2025-01-07"), day("2025-01-09"), day("2025-01-11"), day("2025-01-12")},
			minRestDays: 1,
			want:        []restPair{{i: 0, j: 1}, {i: 3, j: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectRestPairs(tt.dates, tt.minRestDays)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestDetectRestPairsMonotone(t *testing.T) {
	dates := []time.Time{
		day("2025-01-06"), day("2025-01-07"), day("2025-01-09"),
		day("2025-01-11"), day("2025-01-12"), day("2025-01-20"),
	}

	// minRestDays 增大时得到的日期对只增不减
	previous := make(map[restPair]bool)
	for n := 1; n <= 10; n++ {
		pairs := detectRestPairs(dates, n)
		current := make(map[restPair]bool, len(pairs))
		for _, pair := range pairs {
			current[pair] = true
		}
		for pair := range previous {
			require.True(t, current[pair], "minRestDays=%d 时丢失了日期对 %v", n, pair)
		}
		previous = current
	}
}
