package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

// publishMail 将邮件序列化后投递到消息队列，由邮件服务异步发送
func (h *Handler) publishMail(message domain.MailMessage) error {
	mailData, err := json.Marshal(message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.With(h.preventInactivePerson).Put("/unavailable-periods", h.SubmitMyUnavailablePeriods)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/people", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreatePerson)
			r.Get("/", h.GetAllPeopleInfo) // 所有值班人员都可以查看其他人的基本信息
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.personInfo)
				r.Get("/", h.GetPersonInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdatePerson)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeletePerson)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/password", h.UpdatePersonPassword)
			})
		})

		r.Route("/roster-plans", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateRosterPlan)
			r.Get("/", h.GetAllRosterPlans)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.rosterPlan)
				r.Get("/", h.GetRosterPlanByID)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateRosterPlan)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteRosterPlan)
				r.Route("/roster", func(r chi.Router) {
					r.Get("/", h.GetRoster)
					r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.SubmitRoster)
					r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/generate", h.GenerateRoster)
					r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteRoster)
				})
			})
		})
	})
}
