package messaging

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lakkilakshman/matrimony-sub000/internal/dto"
	"github.com/lakkilakshman/matrimony-sub000/internal/identity"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
)

type Handler struct {
	svc *Service
	db  *gorm.DB
}

func NewHandler(svc *Service, db *gorm.DB) *Handler {
	return &Handler{svc: svc, db: db}
}

func (h *Handler) sender(c *fiber.Ctx) (*models.User, error) {
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

func (h *Handler) Send(c *fiber.Ctx) error {
	user, err := h.sender(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}
	if req.ReceiverID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("receiverId is required"))
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid receiver ID"))
	}

	msg, err := h.svc.Send(user, receiverID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubscriptionRequired), errors.Is(err, ErrBlocked):
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail(err.Error()))
		case errors.Is(err, ErrReceiverNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		case errors.Is(err, ErrEmptyMessage):
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK(msg))
}

func (h *Handler) Conversations(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	conversations, err := h.svc.Conversations(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to fetch conversations"))
	}
	return c.JSON(dto.OK(conversations))
}

func (h *Handler) Thread(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	otherUserID, err := uuid.Parse(c.Params("otherUserId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid user ID"))
	}

	msgs, err := h.svc.Thread(userID, otherUserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to fetch messages"))
	}
	return c.JSON(dto.OK(msgs))
}
