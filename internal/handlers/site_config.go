package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lakkilakshman/matrimony-sub000/internal/dto"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
)

type SiteConfigHandler struct {
	db *gorm.DB
}

func NewSiteConfigHandler(db *gorm.DB) *SiteConfigHandler {
	return &SiteConfigHandler{db: db}
}

// GetConfig returns the site settings as a flat map. Public.
func (h *SiteConfigHandler) GetConfig(c *fiber.Ctx) error {
	var settings []models.SiteSetting
	if err := h.db.Find(&settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to fetch configuration"))
	}

	result := make(map[string]interface{})
	for _, s := range settings {
		var value interface{}
		switch s.Type {
		case "bool":
			value, _ = strconv.ParseBool(s.Value)
		case "int":
			value, _ = strconv.Atoi(s.Value)
		case "json":
			json.Unmarshal([]byte(s.Value), &value)
		default:
			value = s.Value
		}
		result[s.Key] = value
	}

	return c.JSON(dto.OK(result))
}

// SetConfigKey upserts a setting. Admin only.
func (h *SiteConfigHandler) SetConfigKey(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Key parameter is required"))
	}

	var payload struct {
		Value string `json:"value"`
		Type  string `json:"type"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Invalid request body"))
	}
	if payload.Value == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Value is required"))
	}
	if payload.Type == "" {
		payload.Type = "string"
	}

	var setting models.SiteSetting
	err := h.db.Where("key = ?", key).First(&setting).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		setting = models.SiteSetting{
			ID:    uuid.New(),
			Key:   key,
			Value: payload.Value,
			Type:  payload.Type,
		}
		if err := h.db.Create(&setting).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to create setting"))
		}
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to query setting"))
	default:
		setting.Value = payload.Value
		setting.Type = payload.Type
		if err := h.db.Save(&setting).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to update setting"))
		}
	}

	return c.JSON(dto.OK(setting))
}

// DeleteConfigKey removes a setting. Admin only.
func (h *SiteConfigHandler) DeleteConfigKey(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("Key parameter is required"))
	}

	result := h.db.Where("key = ?", key).Delete(&models.SiteSetting{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("Failed to delete setting"))
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("Setting not found"))
	}

	return c.JSON(dto.OKMessage("Setting deleted"))
}
