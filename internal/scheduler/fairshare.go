package scheduler

// computeFairShares 计算每个人的公平份额（归一化的期望值班频率）。
//
// 总共有 PeopleNeeded * len(dates) 个值班名额，按照每个人的容量系数和可用天数
// 加权分摊，rate_i = PeopleNeeded * |dates| * c_i / Σ_k(c_k * d_k)。
// rate_i 乘以本人的可用天数就是他的期望值班次数，所有人的期望值班次数之和
// 正好等于名额总数。
func (s *Scheduler) computeFairShares() error {
	denominator := 0.0
	for _, person := range s.people {
		denominator += person.CapacityFactor * float64(s.availableDays[person.ID])
	}
	if denominator <= 0 {
		return &DataError{Reason: "所有人的加权可用天数之和为零，无法计算公平份额"}
	}

	totalSlots := float64(s.parameters.PeopleNeeded * len(s.dates))

	s.fairShares = make(map[int64]float64, len(s.people))
	for _, person := range s.people {
		s.fairShares[person.ID] = totalSlots * person.CapacityFactor / denominator
	}

	return nil
}
