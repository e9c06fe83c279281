package api

import (
	"time"

	"hediye.link/models"
	"hediye.link/pkg/queryparams"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
)

// RegistryHandler hediye listesi API endpoint'leri.
type RegistryHandler struct {
	service services.IRegistryService
}

// NewRegistryHandler yeni bir RegistryHandler örneği oluşturur.
func NewRegistryHandler(service services.IRegistryService) *RegistryHandler {
	return &RegistryHandler{service: service}
}

// registryRequest oluşturma/güncelleme gövdesi.
type registryRequest struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	Occasion             string `json:"occasion"`
	EventDate            string `json:"event_date"` // RFC3339, opsiyonel
	Currency             string `json:"currency"`
	Status               string `json:"status"`
	IsPrivate            bool   `json:"is_private"`
	ShowContributorNames *bool  `json:"show_contributor_names"`
	AllowAnonymous       *bool  `json:"allow_anonymous"`
}

func (r *registryRequest) eventDate() (*time.Time, error) {
	if r.EventDate == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, r.EventDate)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListRegistries GET /api/registries
func (h *RegistryHandler) ListRegistries(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.GetRegistriesForUser(c.UserContext(), userID, params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// CreateRegistry POST /api/registries
func (h *RegistryHandler) CreateRegistry(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req registryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi."})
	}
	eventDate, err := req.eventDate()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "event_date RFC3339 biçiminde olmalı."})
	}

	registry := models.Registry{
		Title:                req.Title,
		Description:          req.Description,
		Occasion:             req.Occasion,
		EventDate:            eventDate,
		Currency:             req.Currency,
		IsPrivate:            req.IsPrivate,
		ShowContributorNames: req.ShowContributorNames == nil || *req.ShowContributorNames,
		AllowAnonymous:       req.AllowAnonymous == nil || *req.AllowAnonymous,
	}
	if err := h.service.CreateRegistry(c.UserContext(), userID, &registry); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(registry)
}

// GetRegistry GET /api/registries/:id
func (h *RegistryHandler) GetRegistry(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz liste ID."})
	}

	result, err := h.service.GetRegistryWithSummary(c.UserContext(), uint(id), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// UpdateRegistry PUT /api/registries/:id
func (h *RegistryHandler) UpdateRegistry(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz liste ID."})
	}

	var req registryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi."})
	}
	eventDate, err := req.eventDate()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "event_date RFC3339 biçiminde olmalı."})
	}

	updateErr := h.service.UpdateRegistry(c.UserContext(), uint(id), userID, func(registry *models.Registry) error {
		registry.Title = req.Title
		registry.Description = req.Description
		registry.Occasion = req.Occasion
		registry.EventDate = eventDate
		registry.Currency = req.Currency
		registry.IsPrivate = req.IsPrivate
		if req.ShowContributorNames != nil {
			registry.ShowContributorNames = *req.ShowContributorNames
		}
		if req.AllowAnonymous != nil {
			registry.AllowAnonymous = *req.AllowAnonymous
		}
		if req.Status != "" {
			registry.Status = models.RegistryStatus(req.Status)
		}
		return nil
	})
	if updateErr != nil {
		return respondError(c, updateErr)
	}
	return c.JSON(fiber.Map{"message": "Liste güncellendi."})
}

// DeleteRegistry DELETE /api/registries/:id
func (h *RegistryHandler) DeleteRegistry(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz liste ID."})
	}

	if err := h.service.DeleteRegistry(c.UserContext(), uint(id), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Liste silindi."})
}

// AddCollaborator POST /api/registries/:id/collaborators
func (h *RegistryHandler) AddCollaborator(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz liste ID."})
	}

	var req struct {
		UserID  uint `json:"user_id"`
		CanEdit bool `json:"can_edit"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz ortak bilgisi."})
	}

	if err := h.service.AddCollaborator(c.UserContext(), uint(id), userID, req.UserID, req.CanEdit); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Ortak eklendi."})
}
