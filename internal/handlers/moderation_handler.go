package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lakkilakshman/matrimony-sub000/internal/dto"
	"github.com/lakkilakshman/matrimony-sub000/internal/identity"
	"github.com/lakkilakshman/matrimony-sub000/internal/moderation"
)

type ModerationHandler struct {
	svc *moderation.Service
}

func NewModerationHandler(svc *moderation.Service) *ModerationHandler {
	return &ModerationHandler{svc: svc}
}

func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	report, err := h.svc.CreateReport(userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK(report))
}

func (h *ModerationHandler) BlockUser(c *fiber.Ctx) error {
	blockerID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	var req dto.BlockUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	if err := h.svc.BlockUser(blockerID, req.BlockedID); err != nil {
		if errors.Is(err, moderation.ErrSelfBlock) || errors.Is(err, moderation.ErrAlreadyBlocked) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to block user"))
	}

	return c.JSON(dto.OKMessage("User blocked successfully"))
}

func (h *ModerationHandler) UnblockUser(c *fiber.Ctx) error {
	blockerID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
	}

	blockedID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid user ID"))
	}

	if err := h.svc.UnblockUser(blockerID, blockedID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to unblock user"))
	}

	return c.JSON(dto.OKMessage("User unblocked successfully"))
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	status := c.Query("status", "")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	if limit > 100 {
		limit = 100
	}

	reports, total, err := h.svc.ListReports(status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to fetch reports"))
	}

	return c.JSON(dto.OK(fiber.Map{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	}))
}

func (h *ModerationHandler) ActionReport(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid report ID"))
	}

	var req dto.ActionReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}

	if err := h.svc.ActionReport(reportID, &req); err != nil {
		if errors.Is(err, moderation.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(err.Error()))
	}

	return c.JSON(dto.OKMessage("Report updated"))
}
