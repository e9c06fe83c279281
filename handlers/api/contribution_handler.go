package api

import (
	"hediye.link/configs/configslog"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ContributionHandler katkı ve analitik API endpoint'leri.
type ContributionHandler struct {
	service       services.IContributionService
	notifications services.INotificationService
}

// NewContributionHandler yeni bir ContributionHandler örneği oluşturur.
func NewContributionHandler(service services.IContributionService, notifications services.INotificationService) *ContributionHandler {
	return &ContributionHandler{service: service, notifications: notifications}
}

// contributionRequest POST /api/contributions gövdesi.
type contributionRequest struct {
	GiftItemID      uint    `json:"gift_item_id"`
	RegistryID      uint    `json:"registry_id"`
	Amount          float64 `json:"amount"`
	Message         string  `json:"message"`
	ContributorName string  `json:"contributor_name"`
	IsAnonymous     bool    `json:"is_anonymous"`
}

// CreateContribution POST /api/contributions
// Ödeme akışından bağımsız, doğrudan kaydedilen katkı. Oturum zorunlu değil;
// oturum varsa katkı kullanıcıya bağlanır.
func (h *ContributionHandler) CreateContribution(c *fiber.Ctx) error {
	var req contributionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi."})
	}

	input := services.ContributionInput{
		GiftItemID:      req.GiftItemID,
		RegistryID:      req.RegistryID,
		Amount:          req.Amount,
		Message:         req.Message,
		ContributorName: req.ContributorName,
		IsAnonymous:     req.IsAnonymous,
	}
	if userID := currentUserID(c); userID != 0 {
		input.ContributorUserID = &userID
	}

	contribution, err := h.service.RecordContribution(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}

	// Bildirim katkı kaydını geri almaz; hata sadece loglanır.
	if err := h.notifications.NotifyContribution(c.UserContext(), contribution); err != nil {
		configslog.Log.Warn("Katkı bildirimi gönderilemedi",
			zap.Uint("contribution_id", contribution.ID), zap.Error(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":           contribution.ID,
		"display_name": contribution.DisplayName(),
		"amount":       contribution.Amount,
		"message":      contribution.Message,
		"created_at":   contribution.CreatedAt,
	})
}

// ListContributions GET /api/contributions?registry_id=... | ?gift_item_id=...
func (h *ContributionHandler) ListContributions(c *fiber.Ctx) error {
	registryID := c.QueryInt("registry_id")
	giftItemID := c.QueryInt("gift_item_id")

	switch {
	case registryID > 0:
		views, err := h.service.GetContributionsForRegistry(c.UserContext(), uint(registryID), currentUserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"contributions": views})
	case giftItemID > 0:
		views, err := h.service.GetContributionsForGiftItem(c.UserContext(), uint(giftItemID), currentUserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"contributions": views})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "registry_id veya gift_item_id parametresi gerekli."})
	}
}

// GetAnalytics GET /api/analytics
// Oturum sahibinin tüm listeleri için fonlama özetini döndürür.
func (h *ContributionHandler) GetAnalytics(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	analytics, err := h.service.GetAnalyticsForUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(analytics)
}
