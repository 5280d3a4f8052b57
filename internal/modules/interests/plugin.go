package interests

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lakkilakshman/matrimony-sub000/internal/config"
	"github.com/lakkilakshman/matrimony-sub000/internal/middleware"
	"gorm.io/gorm"
)

type InterestsPlugin struct {
	svc *Service
}

func New(svc *Service) *InterestsPlugin {
	return &InterestsPlugin{svc: svc}
}

func (p *InterestsPlugin) ID() string { return "interests" }

func (p *InterestsPlugin) Models() []interface{} {
	return []interface{}{
		&InterestRequest{},
	}
}

func (p *InterestsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(p.svc)
	jwt := middleware.JWTProtected(cfg)

	router.Get("/interests/sent", jwt, handler.Sent)
	router.Get("/interests/received", jwt, handler.Received)
	router.Post("/interests/:profileId", jwt, handler.Send)
	router.Put("/interests/:id/accept", jwt, handler.Accept)
	router.Put("/interests/:id/reject", jwt, handler.Reject)
}
