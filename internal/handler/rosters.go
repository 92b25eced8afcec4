package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/utils"
)

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(RosterPlanCtx).(*domain.RosterPlan)

	roster, err := h.repository.GetRosterByPlanID(plan.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "该排班计划还没有排班表", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取排班表成功", roster)
}

func (h *Handler) GenerateRoster(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(RosterPlanCtx).(*domain.RosterPlan)

	// 获取所有在职人员
	allPeople, err := h.repository.GetAllPeople()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	people := make([]*domain.Person, 0, len(allPeople))
	for _, person := range allPeople {
		if person.IsActive {
			people = append(people, person)
		}
	}

	// 构建参数
	parameters := &scheduler.Parameters{
		PeopleNeeded: int(plan.PeopleNeeded),
		MinRestDays:  int(plan.MinRestDays),
		TimeLimit:    time.Duration(plan.TimeLimit) * time.Second,
	}

	// 自动排班
	s, err := scheduler.New(parameters, people, plan.DutyDates, scheduler.NewGLPKSolver())
	if err != nil {
		var dataErr *scheduler.DataError
		switch {
		case errors.As(err, &dataErr):
			h.errorResponse(w, r, dataErr.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	res, err := s.Schedule(r.Context())
	if err != nil {
		var dataErr *scheduler.DataError
		var infeasibleErr *scheduler.InfeasibleError
		switch {
		case errors.As(err, &dataErr):
			h.errorResponse(w, r, dataErr.Error())
		case errors.As(err, &infeasibleErr):
			h.errorResponse(w, r, infeasibleErr.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if res.Status != scheduler.StatusOptimal {
		h.errorResponse(w, r, "求解超时或被中断，请增大时间限制后重试")
		return
	}

	// 将排班结果持久化，只保存最优解
	roster := &domain.Roster{
		RosterPlanID: plan.ID,
		Status:       string(res.Status),
		Objective:    res.Objective,
		Assignments:  make([]domain.RosterAssignment, 0, len(res.Entries)),
		Fairness:     make([]domain.RosterFairness, 0, len(res.Fairness)),
	}

	for _, entry := range res.Entries {
		roster.Assignments = append(roster.Assignments, domain.RosterAssignment{
			DutyDate:  entry.Date,
			PersonIDs: entry.PersonIDs,
		})
	}
	for _, f := range res.Fairness {
		roster.Fairness = append(roster.Fairness, domain.RosterFairness{
			PersonID:          f.PersonID,
			AssignedCount:     int32(f.AssignedCount),
			AvailableDays:     int32(f.AvailableDays),
			NormalizedRate:    f.NormalizedRate,
			FairShare:         f.FairShare,
			PositiveDeviation: f.PositiveDeviation,
			NegativeDeviation: f.NegativeDeviation,
		})
	}

	if err := h.repository.InsertRoster(roster); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 通知每个被排到班的人
	dutyDatesByPerson := make(map[int64][]string)
	for _, assignment := range roster.Assignments {
		for _, personID := range assignment.PersonIDs {
			dutyDatesByPerson[personID] = append(dutyDatesByPerson[personID], assignment.DutyDate.Format("2006-01-02"))
		}
	}

	for _, person := range people {
		dutyDates, ok := dutyDatesByPerson[person.ID]
		if !ok {
			continue
		}

		if err := h.publishMail(domain.MailMessage{
			Type: "roster_published",
			To:   person.Email,
			Data: domain.RosterPublishedMailData{
				FullName:  person.FullName,
				PlanName:  plan.Name,
				DutyDates: dutyDates,
			},
		}); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "自动排班成功", roster)
}

func (h *Handler) SubmitRoster(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(RosterPlanCtx).(*domain.RosterPlan)

	var req struct {
		Assignments []struct {
			DutyDate  string  `json:"dutyDate" validate:"required"`
			PersonIDs []int64 `json:"personIDs" validate:"required"`
		} `json:"assignments" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	roster := &domain.Roster{
		RosterPlanID: plan.ID,
		Status:       "Manual",
		Assignments:  make([]domain.RosterAssignment, 0, len(req.Assignments)),
	}

	for _, assignment := range req.Assignments {
		dutyDate, err := scheduler.ParseDate(assignment.DutyDate)
		if err != nil {
			h.errorResponse(w, r, "值班日期格式错误，应为 YYYY-MM-DD")
			return
		}
		roster.Assignments = append(roster.Assignments, domain.RosterAssignment{
			DutyDate:  dutyDate,
			PersonIDs: assignment.PersonIDs,
		})
	}

	// 检查提交的排班表是否和计划对的上
	if err := utils.ValidateRosterWithPlan(roster, plan); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 还要检查排班表是否满足所有的值班约束
	people, err := h.repository.GetAllPeople()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := utils.ValidateRosterWithPeople(roster, people, int(plan.PeopleNeeded), int(plan.MinRestDays)); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.InsertRoster(roster); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "提交排班表成功", roster)
}

func (h *Handler) DeleteRoster(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(RosterPlanCtx).(*domain.RosterPlan)

	if err := h.repository.DeleteRosterByPlanID(plan.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该排班计划还没有排班表")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除排班表成功", nil)
}
