package messaging

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lakkilakshman/matrimony-sub000/internal/config"
	"github.com/lakkilakshman/matrimony-sub000/internal/middleware"
	"gorm.io/gorm"
)

type MessagingPlugin struct {
	svc *Service
}

func New(svc *Service) *MessagingPlugin {
	return &MessagingPlugin{svc: svc}
}

func (p *MessagingPlugin) ID() string { return "messaging" }

func (p *MessagingPlugin) Models() []interface{} {
	return []interface{}{
		&Message{},
	}
}

func (p *MessagingPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(p.svc, db)
	jwt := middleware.JWTProtected(cfg)

	router.Post("/messages", jwt, handler.Send)
	router.Get("/messages/conversations", jwt, handler.Conversations)
	router.Get("/messages/:otherUserId", jwt, handler.Thread)
}
