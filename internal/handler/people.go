package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetAllPeopleInfo(w http.ResponseWriter, r *http.Request) {
	people, err := h.repository.GetAllPeople()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取人员列表成功", people)
}

func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username         string   `json:"username" validate:"required"`
		FullName         string   `json:"fullName" validate:"required"`
		Email            string   `json:"email" validate:"required,email"`
		Role             string   `json:"role" validate:"required,oneof=值班人员 管理员"`
		IsMale           *bool    `json:"isMale" validate:"required"`
		SpeaksPortuguese *bool    `json:"speaksPortuguese" validate:"required"`
		CapacityFactor   *float64 `json:"capacityFactor" validate:"required,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 生成随机密码
	password := utils.GenerateRandomPassword(h.config.NewPerson.PasswordLength)

	// 对密码进行哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 插入人员到数据库中
	person := &domain.Person{
		Username:         req.Username,
		PasswordHash:     string(hashedPassword),
		FullName:         req.FullName,
		Email:            req.Email,
		Role:             domain.Role(req.Role),
		IsMale:           *req.IsMale,
		SpeaksPortuguese: *req.SpeaksPortuguese,
		CapacityFactor:   *req.CapacityFactor,
	}

	if err := h.repository.CreatePerson(person); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "people_username_key":
				h.badRequest(w, r, errors.New("用户名已存在"))
			case pgErr.ConstraintName == "people_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 将初始密码通过邮件发给新人
	if err := h.publishMail(domain.MailMessage{
		Type: "create_person",
		To:   person.Email,
		Data: domain.CreatePersonMailData{
			FullName: req.FullName,
			Username: req.Username,
			Password: password,
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "人员创建成功", person)
}

func (h *Handler) GetPersonInfo(w http.ResponseWriter, r *http.Request) {
	person := r.Context().Value(PersonInfoCtx).(*domain.Person)
	h.successResponse(w, r, "获取人员信息成功", person)
}

func (h *Handler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName         *string  `json:"fullName"`
		Email            *string  `json:"email" validate:"omitempty,email"`
		Role             *string  `json:"role" validate:"omitempty,oneof=值班人员 管理员"`
		IsActive         *bool    `json:"isActive"`
		IsMale           *bool    `json:"isMale"`
		SpeaksPortuguese *bool    `json:"speaksPortuguese"`
		CapacityFactor   *float64 `json:"capacityFactor" validate:"omitempty,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	person := r.Context().Value(PersonInfoCtx).(*domain.Person)

	if req.FullName != nil {
		person.FullName = *req.FullName
	}
	if req.Email != nil {
		person.Email = *req.Email
	}
	if req.Role != nil {
		person.Role = domain.Role(*req.Role)
	}
	if req.IsActive != nil {
		person.IsActive = *req.IsActive
	}
	if req.IsMale != nil {
		person.IsMale = *req.IsMale
	}
	if req.SpeaksPortuguese != nil {
		person.SpeaksPortuguese = *req.SpeaksPortuguese
	}
	if req.CapacityFactor != nil {
		person.CapacityFactor = *req.CapacityFactor
	}

	if err := h.repository.UpdatePerson(person); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "people_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			case pgErr.ConstraintName == "people_username_key":
				h.badRequest(w, r, errors.New("用户名已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新人员信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新人员信息成功", person)
}

func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	person := r.Context().Value(PersonInfoCtx).(*domain.Person)

	if err := h.repository.DeletePerson(person.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除人员成功", nil)
}

func (h *Handler) UpdatePersonPassword(w http.ResponseWriter, r *http.Request) {
	person := r.Context().Value(PersonInfoCtx).(*domain.Person)

	var req struct {
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 对密码进行哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	person.PasswordHash = string(hashedPassword)
	if err := h.repository.UpdatePerson(person); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "修改密码成功", nil)
}
