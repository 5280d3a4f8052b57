package subscriptions

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lakkilakshman/matrimony-sub000/internal/config"
	"github.com/lakkilakshman/matrimony-sub000/internal/middleware"
	"gorm.io/gorm"
)

type SubscriptionsPlugin struct {
	svc *Service
}

func New(svc *Service) *SubscriptionsPlugin {
	return &SubscriptionsPlugin{svc: svc}
}

func (p *SubscriptionsPlugin) ID() string { return "subscriptions" }

func (p *SubscriptionsPlugin) Models() []interface{} {
	return []interface{}{
		&Plan{},
		&Payment{},
	}
}

func (p *SubscriptionsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(p.svc, db)
	jwt := middleware.JWTProtected(cfg)

	router.Get("/subscription", jwt, handler.MySubscription)
	router.Post("/subscription/payments", jwt, handler.SubmitPayment)
}

func (p *SubscriptionsPlugin) RegisterPublicRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(p.svc, db)

	router.Get("/plans", handler.ListPlans)
}

func (p *SubscriptionsPlugin) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(p.svc, db)

	router.Get("/payments", handler.ListPayments)
	router.Put("/payments/:id/approve", handler.ApprovePayment)
	router.Put("/payments/:id/reject", handler.RejectPayment)
	router.Post("/plans", handler.CreatePlan)
	router.Put("/plans/:id", handler.UpdatePlan)
}
