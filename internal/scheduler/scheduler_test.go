package scheduler

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

// enumSolver 是测试专用的穷举求解器，按日期逐层枚举所有满足约束的人员组合，
// 返回目标函数最小的一个。问题规模很小的时候它一定给出最优解，
// 用它可以在不依赖 GLPK（cgo）的情况下验证整条排班流水线。
type enumSolver struct{}

func (enumSolver) Solve(_ context.Context, m *Model) (*Solution, error) {
	numDates := 0
	colDate := make(map[int]int)
	for key, col := range m.assign {
		if key.dateIdx >= numDates {
			numDates = key.dateIdx + 1
		}
		colDate[col] = key.dateIdx
	}

	dateCols := make([][]int, numDates)
	for key, col := range m.assign {
		dateCols[key.dateIdx] = append(dateCols[key.dateIdx], col)
	}

	peopleNeeded := 0
	for _, row := range m.Rows {
		if strings.HasPrefix(row.Name, "cover_") {
			peopleNeeded = int(row.Lower)
			break
		}
	}

	// 把只涉及单个日期的行（覆盖、性别、语言）按日期归类，
	// 跨日期的行就是休息约束
	perDateRows := make([][]Row, numDates)
	crossPairs := make([][2]int, 0)
	for _, row := range m.Rows {
		sameDate := -2
		onlyAssigns := true
		for _, term := range row.Terms {
			d, ok := colDate[term.Col]
			if !ok {
				onlyAssigns = false
				break
			}
			if sameDate == -2 {
				sameDate = d
			} else if sameDate != d {
				sameDate = -1
			}
		}
		if !onlyAssigns {
			continue
		}
		if sameDate >= 0 {
			perDateRows[sameDate] = append(perDateRows[sameDate], row)
		} else {
			crossPairs = append(crossPairs, [2]int{row.Terms[0].Col, row.Terms[1].Col})
		}
	}

	// 每个日期只保留满足当天所有约束的候选组合
	candidates := make([][][]int, numDates)
	for j := 0; j < numDates; j++ {
		for _, combo := range combinations(dateCols[j], peopleNeeded) {
			ok := true
			for _, row := range perDateRows[j] {
				sum := 0.0
				for _, term := range row.Terms {
					if intsContain(combo, term.Col) {
						sum += term.Coef
					}
				}
				if !rowSatisfied(row, sum) {
					ok = false
					break
				}
			}
			if ok {
				candidates[j] = append(candidates[j], combo)
			}
		}
		if len(candidates[j]) == 0 {
			return &Solution{Status: StatusInfeasible}, nil
		}
	}

	var best *Solution
	chosen := make(map[int]bool)

	var walk func(j int)
	walk = func(j int) {
		if j == numDates {
			solution := buildEnumSolution(m, chosen)
			if best == nil || solution.Objective < best.Objective {
				best = solution
			}
			return
		}

		for _, combo := range candidates[j] {
			violates := false
			for _, pair := range crossPairs {
				first := chosen[pair[0]] || intsContain(combo, pair[0])
				second := chosen[pair[1]] || intsContain(combo, pair[1])
				if first && second {
					violates = true
					break
				}
			}
			if violates {
				continue
			}

			for _, col := range combo {
				chosen[col] = true
			}
			walk(j + 1)
			for _, col := range combo {
				delete(chosen, col)
			}
		}
	}
	walk(0)

	if best == nil {
		return &Solution{Status: StatusInfeasible}, nil
	}
	best.Status = StatusOptimal
	return best, nil
}

// buildEnumSolution 根据一组选定的指派变量推导出 y 和 z 的取值并计算目标函数
func buildEnumSolution(m *Model, chosen map[int]bool) *Solution {
	values := make([]float64, len(m.Columns))
	for col := range chosen {
		values[col] = 1
	}

	for _, row := range m.Rows {
		if !strings.HasPrefix(row.Name, "count_") {
			continue
		}
		yCol := -1
		sum := 0.0
		for _, term := range row.Terms {
			if term.Coef > 0 {
				yCol = term.Col
			} else {
				sum += values[term.Col]
			}
		}
		values[yCol] = sum
	}

	devPosCols := make(map[int]bool)
	for _, col := range m.devPos {
		devPosCols[col] = true
	}

	for _, row := range m.Rows {
		if !strings.HasPrefix(row.Name, "fair_") {
			continue
		}
		posCol, negCol := -1, -1
		rest := 0.0
		for _, term := range row.Terms {
			switch {
			case devPosCols[term.Col]:
				posCol = term.Col
			case term.Coef == -1:
				negCol = term.Col
			default:
				rest += term.Coef * values[term.Col]
			}
		}
		diff := row.Lower - rest
		values[posCol] = math.Max(diff, 0)
		values[negCol] = math.Max(-diff, 0)
	}

	objective := 0.0
	for i, col := range m.Columns {
		objective += col.ObjCoef * values[i]
	}

	return &Solution{Values: values, Objective: objective}
}

func rowSatisfied(row Row, sum float64) bool {
	const eps = 1e-9
	switch row.Bounds {
	case BoundFixed:
		return math.Abs(sum-row.Lower) < eps
	case BoundLower:
		return sum >= row.Lower-eps
	case BoundUpper:
		return sum <= row.Upper+eps
	default:
		return sum >= row.Lower-eps && sum <= row.Upper+eps
	}
}

func combinations(items []int, k int) [][]int {
	if k > len(items) {
		return nil
	}
	result := make([][]int, 0)
	combo := make([]int, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			picked := make([]int, k)
			copy(picked, combo)
			result = append(result, picked)
			return
		}
		for i := start; i <= len(items)-(k-depth); i++ {
			combo[depth] = items[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return result
}

func intsContain(items []int, target int) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

// notSolvedSolver 模拟超时后没有得到任何结论的求解器
type notSolvedSolver struct{}

func (notSolvedSolver) Solve(_ context.Context, _ *Model) (*Solution, error) {
	return &Solution{Status: StatusNotSolved}, nil
}

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

// workedExample 返回一组固定的测试数据：六个人、五个值班日，
// Michael 和 Ana 各有一天不可用，其余人全程可用。
func workedExample() ([]*domain.Person, []time.Time) {
	people := []*domain.Person{
		{ID: 1, FullName: "Justin", IsMale: true, SpeaksPortuguese: true, CapacityFactor: 1.0},
		{ID: 2, FullName: "Michael", IsMale: true, CapacityFactor: 0.8, UnavailablePeriods: []domain.UnavailablePeriod{
			{Start: dayPtr("2025-01-06"), End: dayPtr("2025-01-06")},
		}},
		{ID: 3, FullName: "Ana", SpeaksPortuguese: true, CapacityFactor: 1.0, UnavailablePeriods: []domain.UnavailablePeriod{
			{Start: dayPtr("2025-01-09"), End: dayPtr("2025-01-09")},
		}},
		{ID: 4, FullName: "Maria", CapacityFactor: 1.0},
		{ID: 5, FullName: "Pedro", IsMale: true, SpeaksPortuguese: true, CapacityFactor: 1.0},
		{ID: 6, FullName: "Sofia", SpeaksPortuguese: true, CapacityFactor: 1.0},
	}
	dates := []time.Time{
		day("2025-01-06"),
		day("2025-01-07"),
		day("2025-01-09"),
		day("2025-01-11"),
		day("2025-01-12"),
	}
	return people, dates
}

func TestScheduleWorkedExample(t *testing.T) {
	people, dates := workedExample()

	s, err := New(&Parameters{PeopleNeeded: 2, MinRestDays: 1}, people, dates, enumSolver{})
	require.NoError(t, err)

	result, err := s.Schedule(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, result.Status)
	require.Len(t, result.Entries, 5)

	fairness := make(map[int64]PersonFairness)
	totalAssigned := 0
	totalFairShare := 0.0
	for _, item := range result.Fairness {
		fairness[item.PersonID] = item
		totalAssigned += item.AssignedCount
		totalFairShare += item.FairShare
	}

	// Σ c_k * d_k = 1.0*5 + 0.8*4 + 1.0*4 + 1.0*5 + 1.0*5 + 1.0*5 = 27.2
	assert.InDelta(t, 10.0*1.0*5/27.2, fairness[1].FairShare, 1e-2) // Justin ≈ 1.84
	assert.InDelta(t, 10.0*0.8*4/27.2, fairness[2].FairShare, 1e-2) // Michael ≈ 1.18
	assert.Equal(t, 4, fairness[2].AvailableDays)
	assert.Equal(t, 4, fairness[3].AvailableDays)

	// 期望值班次数之和正好等于名额总数 2 * 5
	assert.InDelta(t, 10.0, totalFairShare, 1e-9)
	assert.Equal(t, 10, totalAssigned)

	for _, entry := range result.Entries {
		assert.Len(t, entry.PersonIDs, 2)
		for _, id := range entry.PersonIDs {
			person := s.personByID(id)
			require.NotNil(t, person)
			assert.True(t, person.IsAvailableOn(entry.Date), "人员 %d 在 %s 不可用", id, entry.Date)
		}
	}

	// 目标函数应该等于公平性报告中所有偏差之和
	deviationSum := 0.0
	for _, item := range result.Fairness {
		deviationSum += item.PositiveDeviation + item.NegativeDeviation
	}
	assert.InDelta(t, result.Objective, deviationSum, 1e-9)
}

func TestScheduleInfeasibleDates(t *testing.T) {
	tests := []struct {
		name   string
		people []*domain.Person
		reason string
	}{
		{
			name: "可用人数不足",
			people: []*domain.Person{
				{ID: 1, FullName: "Ana", SpeaksPortuguese: true, CapacityFactor: 1},
			},
			reason: "可用的人数不足",
		},
		{
			name: "没有女性",
			people: []*domain.Person{
				{ID: 1, FullName: "Justin", IsMale: true, SpeaksPortuguese: true, CapacityFactor: 1},
				{ID: 2, FullName: "Pedro", IsMale: true, SpeaksPortuguese: true, CapacityFactor: 1},
			},
			reason: "女性",
		},
		{
			name: "没有会葡萄牙语的人",
			people: []*domain.Person{
				{ID: 1, FullName: "Maria", CapacityFactor: 1},
				{ID: 2, FullName: "Sofia", CapacityFactor: 1},
			},
			reason: "葡萄牙语",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(&Parameters{PeopleNeeded: 2, MinRestDays: 1}, tt.people, []time.Time{day("2025-03-01")}, enumSolver{})
			require.NoError(t, err)

			_, err = s.Schedule(context.Background())
			infeasibleErr := &InfeasibleError{}
			require.ErrorAs(t, err, &infeasibleErr)
			assert.Contains(t, infeasibleErr.Reason, "2025-03-01")
			assert.Contains(t, infeasibleErr.Reason, tt.reason)
		})
	}
}

func TestScheduleInfeasibleFromSolver(t *testing.T) {
	// 三个人、两个连续的值班日、每天两人：局部检查都能通过，
	// 但休息约束要求四个名额由互不重复的人值守，必然无解
	people := []*domain.Person{
		{ID: 1, FullName: "Ana", SpeaksPortuguese: true, CapacityFactor: 1},
		{ID: 2, FullName: "Maria", SpeaksPortuguese: true, CapacityFactor: 1},
		{ID: 3, FullName: "Sofia", SpeaksPortuguese: true, CapacityFactor: 1},
	}
	dates := []time.Time{day("2025-03-01"), day("2025-03-02")}

	s, err := New(&Parameters{PeopleNeeded: 2, MinRestDays: 1}, people, dates, enumSolver{})
	require.NoError(t, err)

	_, err = s.Schedule(context.Background())
	infeasibleErr := &InfeasibleError{}
	require.ErrorAs(t, err, &infeasibleErr)
}

func TestScheduleNotSolved(t *testing.T) {
	people, dates := workedExample()

	s, err := New(&Parameters{PeopleNeeded: 2, MinRestDays: 1}, people, dates, notSolvedSolver{})
	require.NoError(t, err)

	result, err := s.Schedule(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusNotSolved, result.Status)
	assert.Empty(t, result.Entries)
	assert.Empty(t, result.Fairness)
}

func TestScheduleZeroAvailabilityPerson(t *testing.T) {
	people, dates := workedExample()
	// Carlos 全程不可用，应该保留在公平性报告中但永远不会被指派
	people = append(people, &domain.Person{
		ID: 7, FullName: "Carlos", IsMale: true, CapacityFactor: 1,
		UnavailablePeriods: []domain.UnavailablePeriod{{}},
	})

	s, err := New(&Parameters{PeopleNeeded: 2, MinRestDays: 1}, people, dates, enumSolver{})
	require.NoError(t, err)

	result, err := s.Schedule(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, result.Status)

	var carlos *PersonFairness
	for i := range result.Fairness {
		if result.Fairness[i].PersonID == 7 {
			carlos = &result.Fairness[i]
		}
	}
	require.NotNil(t, carlos)
	assert.Equal(t, 0, carlos.AssignedCount)
	assert.Equal(t, 0, carlos.AvailableDays)
	assert.Zero(t, carlos.FairShare)

	for _, entry := range result.Entries {
		assert.NotContains(t, entry.PersonIDs, int64(7))
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	people, dates := workedExample()

	tests := []struct {
		name   string
		people []*domain.Person
		dates  []time.Time
	}{
		{name: "没有人员", people: nil, dates: dates},
		{name: "没有日期", people: people, dates: nil},
		{
			name:   "重复的日期",
			people: people,
			dates:  []time.Time{day("2025-01-06"), day("2025-01-06")},
		},
		{
			name: "容量系数非正",
			people: []*domain.Person{
				{ID: 1, FullName: "Ana", SpeaksPortuguese: true, CapacityFactor: 0},
			},
			dates: dates,
		},
		{
			name: "人员重复",
			people: []*domain.Person{
				{ID: 1, FullName: "Ana", CapacityFactor: 1},
				{ID: 1, FullName: "Ana", CapacityFactor: 1},
			},
			dates: dates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&Parameters{PeopleNeeded: 2, MinRestDays: 1}, tt.people, tt.dates, enumSolver{})
			dataErr := &DataError{}
			require.ErrorAs(t, err, &dataErr)
		})
	}
}

func TestNewDoesNotMutateParameters(t *testing.T) {
	people, dates := workedExample()

	// 参数留空时内部使用默认值，但调用方的结构体不能被改写
	parameters := &Parameters{}
	s, err := New(parameters, people, dates, enumSolver{})
	require.NoError(t, err)

	assert.Equal(t, 0, parameters.PeopleNeeded)
	assert.Equal(t, 0, parameters.MinRestDays)

	result, err := s.Schedule(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, result.Status)
	for _, entry := range result.Entries {
		assert.Len(t, entry.PersonIDs, 2)
	}
}

func TestScheduleRespectsRestConstraint(t *testing.T) {
	people, dates := workedExample()

	s, err := New(&Parameters{PeopleNeeded: 2, MinRestDays: 2}, people, dates, enumSolver{})
	require.NoError(t, err)

	result, err := s.Schedule(context.Background())
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, result.Status)

	assigned := make(map[int64][]time.Time)
	for _, entry := range result.Entries {
		for _, id := range entry.PersonIDs {
			assigned[id] = append(assigned[id], entry.Date)
		}
	}
	for id, days := range assigned {
		for a := 0; a < len(days); a++ {
			for b := a + 1; b < len(days); b++ {
				diff := math.Abs(days[b].Sub(days[a]).Hours() / 24)
				assert.Greater(t, diff, 2.0, "人员 %d 的两次值班间隔不足", id)
			}
		}
	}
}
