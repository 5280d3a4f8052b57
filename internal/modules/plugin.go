package modules

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lakkilakshman/matrimony-sub000/internal/config"
	"gorm.io/gorm"
)

// Plugin defines the interface every feature module must implement.
type Plugin interface {
	// ID returns the unique module identifier.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts authenticated module routes on the given Fiber
	// group. The group is prefixed with /api; implementations attach the JWT
	// middleware per route so public siblings on the same prefix stay open.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// AdminPlugin extends Plugin with admin-specific route registration.
// Modules that implement this interface can register additional admin-only routes.
type AdminPlugin interface {
	Plugin

	// RegisterAdminRoutes mounts admin-only routes on the given Fiber group.
	// The group has both JWT and Admin middleware applied.
	RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// PublicPlugin extends Plugin with unauthenticated route registration,
// for endpoints like plan listings that guests may browse.
type PublicPlugin interface {
	Plugin

	// RegisterPublicRoutes mounts routes on the /api group without JWT middleware.
	RegisterPublicRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}
