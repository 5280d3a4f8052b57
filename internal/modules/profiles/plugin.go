package profiles

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lakkilakshman/matrimony-sub000/internal/config"
	"github.com/lakkilakshman/matrimony-sub000/internal/middleware"
	"gorm.io/gorm"
)

type ProfilesPlugin struct {
	svc *Service
}

func New(svc *Service) *ProfilesPlugin {
	return &ProfilesPlugin{svc: svc}
}

func (p *ProfilesPlugin) ID() string { return "profiles" }

func (p *ProfilesPlugin) Models() []interface{} {
	return []interface{}{
		&Profile{},
		&ProfilePhoto{},
	}
}

func (p *ProfilesPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(p.svc, db, cfg)
	jwt := middleware.JWTProtected(cfg)

	router.Get("/profiles/me", jwt, handler.Me)
	router.Put("/profiles/:id", jwt, handler.Update)
	router.Post("/profiles/:id/photos", jwt, handler.AddPhoto)
	router.Put("/profiles/:id/photos/:photoId/primary", jwt, handler.SetPrimaryPhoto)
	router.Delete("/profiles/:id/photos/:photoId", jwt, handler.DeletePhoto)
}

func (p *ProfilesPlugin) RegisterPublicRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(p.svc, db, cfg)

	// Guests may browse; contact fields redact to the viewer.
	router.Get("/profiles", handler.Search)
	router.Get("/profiles/:id", handler.Get)
	router.Get("/profiles/:id/photos", handler.ListPhotos)
}

func (p *ProfilesPlugin) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(p.svc, db, cfg)

	router.Get("/profiles", handler.AdminList)
	router.Put("/profiles/:id/verify", handler.Verify)
	router.Put("/profiles/:id/reject", handler.Reject)
	router.Put("/profiles/:id/feature", handler.SetFeatured)
}
