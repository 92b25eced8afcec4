package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/utils"
)

func (h *Handler) CreateRosterPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string   `json:"name" validate:"required"`
		Description  string   `json:"description"`
		DutyDates    []string `json:"dutyDates" validate:"required,min=1"`
		PeopleNeeded *int32   `json:"peopleNeeded" validate:"omitempty,min=1"`
		MinRestDays  *int32   `json:"minRestDays" validate:"omitempty,min=0"`
		TimeLimit    *int32   `json:"timeLimit" validate:"omitempty,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 解析值班日期
	dutyDates := make([]time.Time, 0, len(req.DutyDates))
	for _, s := range req.DutyDates {
		date, err := scheduler.ParseDate(s)
		if err != nil {
			h.errorResponse(w, r, "值班日期格式错误，应为 YYYY-MM-DD")
			return
		}
		dutyDates = append(dutyDates, date)
	}

	plan := &domain.RosterPlan{
		Name:         req.Name,
		Description:  req.Description,
		DutyDates:    dutyDates,
		PeopleNeeded: int32(h.config.Scheduler.PeopleNeeded),
		MinRestDays:  int32(h.config.Scheduler.MinRestDays),
		TimeLimit:    int32(h.config.Scheduler.TimeLimit),
	}

	// 未给出的排班参数使用配置中的默认值
	if req.PeopleNeeded != nil {
		plan.PeopleNeeded = *req.PeopleNeeded
	}
	if req.MinRestDays != nil {
		plan.MinRestDays = *req.MinRestDays
	}
	if req.TimeLimit != nil {
		plan.TimeLimit = *req.TimeLimit
	}

	// 检查 plan 的值班日期是否合法
	if err := utils.ValidateRosterPlanDates(plan); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 插入数据到数据库中
	if err := h.repository.CreateRosterPlan(plan); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "roster_plans_name_key":
				h.errorResponse(w, r, "排班计划名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建排班计划成功", plan)
}

func (h *Handler) GetRosterPlanByID(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(RosterPlanCtx).(*domain.RosterPlan)

	h.successResponse(w, r, "获取排班计划成功", plan)
}

func (h *Handler) DeleteRosterPlan(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(RosterPlanCtx).(*domain.RosterPlan)

	if err := h.repository.DeleteRosterPlan(plan.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除排班计划成功", nil)
}

func (h *Handler) UpdateRosterPlan(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(RosterPlanCtx).(*domain.RosterPlan)

	var req struct {
		Name         *string  `json:"name"`
		Description  *string  `json:"description"`
		DutyDates    []string `json:"dutyDates" validate:"omitempty,min=1"`
		PeopleNeeded *int32   `json:"peopleNeeded" validate:"omitempty,min=1"`
		MinRestDays  *int32   `json:"minRestDays" validate:"omitempty,min=0"`
		TimeLimit    *int32   `json:"timeLimit" validate:"omitempty,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 将输入的参数解析到 plan 中
	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.DutyDates != nil {
		dutyDates := make([]time.Time, 0, len(req.DutyDates))
		for _, s := range req.DutyDates {
			date, err := scheduler.ParseDate(s)
			if err != nil {
				h.errorResponse(w, r, "值班日期格式错误，应为 YYYY-MM-DD")
				return
			}
			dutyDates = append(dutyDates, date)
		}
		plan.DutyDates = dutyDates
	}
	if req.PeopleNeeded != nil {
		plan.PeopleNeeded = *req.PeopleNeeded
	}
	if req.MinRestDays != nil {
		plan.MinRestDays = *req.MinRestDays
	}
	if req.TimeLimit != nil {
		plan.TimeLimit = *req.TimeLimit
	}

	// 检查 plan 的值班日期是否合法
	if err := utils.ValidateRosterPlanDates(plan); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 更新排班计划
	if err := h.repository.UpdateRosterPlan(plan); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "roster_plans_name_key":
				h.errorResponse(w, r, "排班计划名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新排班计划失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新排班计划成功", plan)
}

func (h *Handler) GetAllRosterPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.repository.GetAllRosterPlans()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有排班计划成功", plans)
}
