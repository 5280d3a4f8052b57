package notifications

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lakkilakshman/matrimony-sub000/internal/config"
	"github.com/lakkilakshman/matrimony-sub000/internal/middleware"
	"gorm.io/gorm"
)

type NotificationsPlugin struct {
	svc *Service
}

func New(svc *Service) *NotificationsPlugin {
	return &NotificationsPlugin{svc: svc}
}

func (p *NotificationsPlugin) ID() string { return "notifications" }

func (p *NotificationsPlugin) Models() []interface{} {
	return []interface{}{
		&Notification{},
	}
}

func (p *NotificationsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(p.svc)
	jwt := middleware.JWTProtected(cfg)

	router.Get("/notifications", jwt, handler.List)
	router.Put("/notifications/mark-all-read", jwt, handler.MarkAllRead)
	router.Put("/notifications/:id/read", jwt, handler.MarkRead)
	router.Delete("/notifications/:id", jwt, handler.Delete)
}
