package api

import (
	"hediye.link/models"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
)

// GiftItemHandler hediye kalemi API endpoint'leri.
type GiftItemHandler struct {
	service services.IGiftItemService
}

// NewGiftItemHandler yeni bir GiftItemHandler örneği oluşturur.
func NewGiftItemHandler(service services.IGiftItemService) *GiftItemHandler {
	return &GiftItemHandler{service: service}
}

// giftItemRequest oluşturma/güncelleme gövdesi. import_url dolu gönderilirse
// ad/görsel/açıklama alanları OpenGraph verisinden doldurulur; gövdede açıkça
// verilen alanlar içe aktarılan değerleri ezer.
type giftItemRequest struct {
	RegistryID  uint    `json:"registry_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ProductURL  string  `json:"product_url"`
	ImageURL    string  `json:"image_url"`
	ImportURL   string  `json:"import_url"`
	IsFavorite  bool    `json:"is_favorite"`
}

// ListGiftItems GET /api/gift-items?registry_id=...
func (h *GiftItemHandler) ListGiftItems(c *fiber.Ctx) error {
	registryID := c.QueryInt("registry_id")
	if registryID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "registry_id parametresi gerekli."})
	}

	items, err := h.service.GetGiftItemsForRegistry(c.UserContext(), uint(registryID), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// CreateGiftItem POST /api/gift-items
func (h *GiftItemHandler) CreateGiftItem(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req giftItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi."})
	}

	item := models.GiftItem{
		RegistryID:  req.RegistryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		ProductURL:  req.ProductURL,
		ImageURL:    req.ImageURL,
		IsFavorite:  req.IsFavorite,
	}

	if req.ImportURL != "" {
		imported, err := h.service.ImportFromURL(c.UserContext(), req.ImportURL)
		if err != nil {
			return respondError(c, err)
		}
		if item.Name == "" {
			item.Name = imported.Name
		}
		if item.Description == "" {
			item.Description = imported.Description
		}
		if item.ImageURL == "" {
			item.ImageURL = imported.ImageURL
		}
		if item.ProductURL == "" {
			item.ProductURL = imported.ProductURL
		}
	}

	if err := h.service.CreateGiftItem(c.UserContext(), userID, &item); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetGiftItem GET /api/gift-items/:id
func (h *GiftItemHandler) GetGiftItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz hediye ID."})
	}

	result, err := h.service.GetGiftItemByID(c.UserContext(), uint(id), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// UpdateGiftItem PUT /api/gift-items/:id
func (h *GiftItemHandler) UpdateGiftItem(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz hediye ID."})
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Quantity    *int     `json:"quantity"`
		ProductURL  *string  `json:"product_url"`
		ImageURL    *string  `json:"image_url"`
		IsPurchased *bool    `json:"is_purchased"`
		IsFavorite  *bool    `json:"is_favorite"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi."})
	}

	updateErr := h.service.UpdateGiftItem(c.UserContext(), uint(id), userID, func(item *models.GiftItem) error {
		if req.Name != nil {
			item.Name = *req.Name
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.Price != nil {
			item.Price = *req.Price
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.ProductURL != nil {
			item.ProductURL = *req.ProductURL
		}
		if req.ImageURL != nil {
			item.ImageURL = *req.ImageURL
		}
		if req.IsPurchased != nil {
			item.IsPurchased = *req.IsPurchased
		}
		if req.IsFavorite != nil {
			item.IsFavorite = *req.IsFavorite
		}
		return nil
	})
	if updateErr != nil {
		return respondError(c, updateErr)
	}
	return c.JSON(fiber.Map{"message": "Hediye güncellendi."})
}

// DeleteGiftItem DELETE /api/gift-items/:id
func (h *GiftItemHandler) DeleteGiftItem(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz hediye ID."})
	}

	if err := h.service.DeleteGiftItem(c.UserContext(), uint(id), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Hediye silindi."})
}
