package notifications

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lakkilakshman/matrimony-sub000/internal/dto"
	"github.com/lakkilakshman/matrimony-sub000/internal/identity"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	items, err := h.svc.List(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to fetch notifications"))
	}

	unread, _ := h.svc.CountUnread(userID)
	return c.JSON(dto.OK(fiber.Map{
		"notifications": items,
		"unread_count":  unread,
	}))
}

func (h *Handler) MarkRead(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid notification ID"))
	}

	if err := h.svc.MarkRead(userID, notificationID); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to update notification"))
	}

	return c.JSON(dto.OKMessage("Notification marked as read"))
}

func (h *Handler) MarkAllRead(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	if err := h.svc.MarkAllRead(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to update notifications"))
	}

	return c.JSON(dto.OKMessage("All notifications marked as read"))
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid notification ID"))
	}

	if err := h.svc.Delete(userID, notificationID); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to delete notification"))
	}

	return c.JSON(dto.OKMessage("Notification deleted"))
}
