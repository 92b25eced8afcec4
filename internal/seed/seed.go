package seed

import (
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/repository"
)

type demoPerson struct {
	Username           string
	FullName           string
	Email              string
	IsMale             bool
	SpeaksPortuguese   bool
	CapacityFactor     float64
	UnavailableOffsets [][2]int // 相对于演示排班计划第一天的偏移（天）
}

var demoPeople = []demoPerson{
	{Username: "justin", FullName: "Justin Pereira", Email: "justin@example.com", IsMale: true, SpeaksPortuguese: true, CapacityFactor: 1.0},
	{Username: "michael", FullName: "Michael Alves", Email: "michael@example.com", IsMale: true, SpeaksPortuguese: false, CapacityFactor: 0.8, UnavailableOffsets: [][2]int{{0, 0}}},
	{Username: "ana", FullName: "Ana Carvalho", Email: "ana@example.com", IsMale: false, SpeaksPortuguese: true, CapacityFactor: 1.0, UnavailableOffsets: [][2]int{{3, 3}}},
	{Username: "maria", FullName: "Maria Santos", Email: "maria@example.com", IsMale: false, SpeaksPortuguese: false, CapacityFactor: 1.0},
	{Username: "pedro", FullName: "Pedro Oliveira", Email: "pedro@example.com", IsMale: true, SpeaksPortuguese: true, CapacityFactor: 1.0},
	{Username: "sofia", FullName: "Sofia Ribeiro", Email: "sofia@example.com", IsMale: false, SpeaksPortuguese: true, CapacityFactor: 1.0},
}

// 演示排班计划覆盖的值班日相对第一天的偏移，特意留了不连续的日期
var demoDateOffsets = []int{0, 1, 3, 5, 6}

// SeedDemoData 插入一组固定的演示人员和一个演示排班计划，方便快速体验自动排班。
// 已存在的人员会被跳过，因此这个操作可以重复执行。
func SeedDemoData(r *repository.Repository) {
	firstDate := domain.DateOf(time.Now().AddDate(0, 0, 7))

	for _, dp := range demoPeople {
		if _, err := r.GetPersonByUsername(dp.Username); err == nil {
			slog.Info("人员已存在，跳过", "username", dp.Username)
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("获取人员失败", "error", err)
			continue
		}

		person := &domain.Person{
			Username:         dp.Username,
			PasswordHash:     "$2a$10$aUTaWl3vmXuQFocBkb9Qx.YJPAzNoaAcj2VC5tI45l1Roh24meCgO", // duty@demo
			FullName:         dp.FullName,
			Email:            dp.Email,
			Role:             domain.RoleDutyMember,
			IsMale:           dp.IsMale,
			SpeaksPortuguese: dp.SpeaksPortuguese,
			CapacityFactor:   dp.CapacityFactor,
		}

		if err := r.CreatePerson(person); err != nil {
			slog.Error("插入人员失败", "error", err)
			continue
		}

		if len(dp.UnavailableOffsets) == 0 {
			continue
		}

		periods := make([]domain.UnavailablePeriod, 0, len(dp.UnavailableOffsets))
		for _, offsets := range dp.UnavailableOffsets {
			start := firstDate.AddDate(0, 0, offsets[0])
			end := firstDate.AddDate(0, 0, offsets[1])
			periods = append(periods, domain.UnavailablePeriod{Start: &start, End: &end})
		}

		if err := r.ReplaceUnavailablePeriods(person.ID, periods); err != nil {
			slog.Error("插入不可用时间段失败", "error", err)
			continue
		}
	}

	dutyDates := make([]time.Time, 0, len(demoDateOffsets))
	for _, offset := range demoDateOffsets {
		dutyDates = append(dutyDates, firstDate.AddDate(0, 0, offset))
	}

	plan := &domain.RosterPlan{
		Name:         "演示排班计划",
		Description:  "由 seed 工具生成的演示数据，用于体验自动排班",
		DutyDates:    dutyDates,
		PeopleNeeded: 2,
		MinRestDays:  1,
		TimeLimit:    60,
	}

	if err := r.CreateRosterPlan(plan); err != nil {
		slog.Error("插入排班计划失败", "error", err)
		return
	}

	slog.Info("插入演示数据完成", "人数", len(demoPeople), "值班日数", len(dutyDates))
}
