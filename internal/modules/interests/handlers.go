package interests

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lakkilakshman/matrimony-sub000/internal/dto"
	"github.com/lakkilakshman/matrimony-sub000/internal/identity"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/profiles"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Send(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	receiverProfileID, err := uuid.Parse(c.Params("profileId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid profile ID"))
	}

	var req SendInterestRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
		}
	}

	interest, err := h.svc.Send(userID, receiverProfileID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, profiles.ErrProfileNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		case errors.Is(err, ErrSelfInterest), errors.Is(err, ErrAlreadySent):
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(err.Error()))
		case errors.Is(err, ErrBlocked):
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK(interest))
}

func (h *Handler) Accept(c *fiber.Ctx) error {
	return h.respond(c, h.svc.Accept, "Interest accepted")
}

func (h *Handler) Reject(c *fiber.Ctx) error {
	return h.respond(c, h.svc.Reject, "Interest rejected")
}

func (h *Handler) respond(c *fiber.Ctx, action func(uuid.UUID, uuid.UUID) error, okMessage string) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	interestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid interest ID"))
	}

	if err := action(userID, interestID); err != nil {
		switch {
		case errors.Is(err, ErrInterestNotFound), errors.Is(err, profiles.ErrProfileNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		case errors.Is(err, ErrAlreadyResponded):
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to update interest"))
	}

	return c.JSON(dto.OKMessage(okMessage))
}

func (h *Handler) Sent(c *fiber.Ctx) error {
	return h.list(c, h.svc.Sent)
}

func (h *Handler) Received(c *fiber.Ctx) error {
	return h.list(c, h.svc.Received)
}

func (h *Handler) list(c *fiber.Ctx, query func(uuid.UUID) ([]ListItem, error)) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	items, err := query(userID)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to fetch interests"))
	}

	return c.JSON(dto.OK(items))
}
