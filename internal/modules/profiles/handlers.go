package profiles

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lakkilakshman/matrimony-sub000/internal/config"
	"github.com/lakkilakshman/matrimony-sub000/internal/dto"
	"github.com/lakkilakshman/matrimony-sub000/internal/identity"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
	"gorm.io/gorm"
)

type Handler struct {
	svc *Service
	db  *gorm.DB
	cfg *config.Config
}

func NewHandler(svc *Service, db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{svc: svc, db: db, cfg: cfg}
}

// viewer resolves the requesting user, nil for guests. Public routes accept
// requests without a token; redaction falls out of the nil viewer.
func (h *Handler) viewer(c *fiber.Ctx) *models.User {
	userID, err := identity.GetUserID(c)
	if err != nil {
		userID, err = identity.ParseBearer(c, h.cfg.JWTSecret)
		if err != nil {
			return nil
		}
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil
	}
	return &user
}

func (h *Handler) requireUser(c *fiber.Ctx) (*models.User, error) {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (h *Handler) Search(c *fiber.Ctx) error {
	minAge, _ := strconv.Atoi(c.Query("min_age", "0"))
	maxAge, _ := strconv.Atoi(c.Query("max_age", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	cards, total, err := h.svc.Search(SearchFilters{
		Gender:        c.Query("gender", ""),
		Religion:      c.Query("religion", ""),
		Caste:         c.Query("caste", ""),
		MaritalStatus: c.Query("marital_status", ""),
		MinAge:        minAge,
		MaxAge:        maxAge,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to search profiles"))
	}

	return c.JSON(dto.OK(fiber.Map{
		"profiles": cards,
		"total":    total,
	}))
}

func (h *Handler) Get(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid profile ID"))
	}

	view, err := h.svc.Get(h.viewer(c), profileID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to fetch profile"))
	}
	return c.JSON(dto.OK(view))
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.requireUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	profile, err := h.svc.GetByUserID(user.ID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Profile not found"))
	}
	return c.JSON(dto.OK(profile))
}

func (h *Handler) Update(c *fiber.Ctx) error {
	user, err := h.requireUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid profile ID"))
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	profile, err := h.svc.Update(user, profileID, &req)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		}
		if errors.Is(err, ErrNotOwner) {
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(err.Error()))
	}
	return c.JSON(dto.OK(profile))
}

// --- photos ---

func (h *Handler) AddPhoto(c *fiber.Ctx) error {
	user, err := h.requireUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid profile ID"))
	}

	var req AddPhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	photo, err := h.svc.AddPhoto(user, profileID, req.URL)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		}
		if errors.Is(err, ErrNotOwner) {
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(err.Error()))
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(photo))
}

func (h *Handler) ListPhotos(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid profile ID"))
	}

	photos, err := h.svc.Photos(profileID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to fetch photos"))
	}
	return c.JSON(dto.OK(photos))
}

func (h *Handler) SetPrimaryPhoto(c *fiber.Ctx) error {
	user, err := h.requireUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid profile ID"))
	}
	photoID, err := uuid.Parse(c.Params("photoId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid photo ID"))
	}

	if err := h.svc.SetPrimaryPhoto(user, profileID, photoID); err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound), errors.Is(err, ErrPhotoNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		case errors.Is(err, ErrNotOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to set primary photo"))
	}
	return c.JSON(dto.OKMessage("Primary photo updated"))
}

func (h *Handler) DeletePhoto(c *fiber.Ctx) error {
	user, err := h.requireUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid profile ID"))
	}
	photoID, err := uuid.Parse(c.Params("photoId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid photo ID"))
	}

	if err := h.svc.DeletePhoto(user, profileID, photoID); err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound), errors.Is(err, ErrPhotoNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		case errors.Is(err, ErrNotOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to delete photo"))
	}
	return c.JSON(dto.OKMessage("Photo deleted"))
}

// --- admin ---

func (h *Handler) AdminList(c *fiber.Ctx) error {
	status := c.Query("status", "")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	rows, total, err := h.svc.ListByStatus(status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to fetch profiles"))
	}
	return c.JSON(dto.OK(fiber.Map{
		"profiles": rows,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	}))
}

func (h *Handler) Verify(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid profile ID"))
	}

	if err := h.svc.Verify(profileID); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to verify profile"))
	}
	return c.JSON(dto.OKMessage("Profile verified"))
}

func (h *Handler) Reject(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid profile ID"))
	}

	var req RejectProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	if err := h.svc.Reject(profileID, req.Reason); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to reject profile"))
	}
	return c.JSON(dto.OKMessage("Profile rejected"))
}

func (h *Handler) SetFeatured(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid profile ID"))
	}

	var req FeatureProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	if err := h.svc.SetFeatured(profileID, req.Featured); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to update profile"))
	}
	return c.JSON(dto.OKMessage("Profile updated"))
}
