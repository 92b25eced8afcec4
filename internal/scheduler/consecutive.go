package scheduler

import (
	"sort"
	"time"
)

// restPair 表示一对间隔过近的值班日期（以 dates 的下标表示，i < j），
// 休息约束会禁止同一个人在这两天都值班。
type restPair struct {
	i int
	j int
}

// detectRestPairs 找出所有日期间隔为 1 到 minRestDays 天的日期对。
// 先把日期下标按时间排序，再用滑动窗口向后扫描，同一天的重复日期不构成约束。
// minRestDays 为 1 时退化成经典的「不允许连续两天值班」规则，minRestDays
// 增大时得到的日期对只会增加不会减少。
func detectRestPairs(dates []time.Time, minRestDays int) []restPair {
	if minRestDays < 1 {
		minRestDays = 1
	}

	order := make([]int, len(dates))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return dates[order[a]].Before(dates[order[b]])
	})

	pairs := make([]restPair, 0)
	for a := 0; a < len(order); a++ {
		for b := a + 1; b < len(order); b++ {
			diff := int(dates[order[b]].Sub(dates[order[a]]).Hours() / 24)
			if diff > minRestDays {
				break
			}
			if diff == 0 {
				continue
			}

			i, j := order[a], order[b]
			if i > j {
				i, j = j, i
			}
			pairs = append(pairs, restPair{i: i, j: j})
		}
	}

	return pairs
}
