package api

import (
	"errors"

	"hediye.link/pkg/payment"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
)

// WebhookHandler ödeme sağlayıcısı webhook endpoint'i.
type WebhookHandler struct {
	service services.IWebhookService
}

// NewWebhookHandler yeni bir WebhookHandler örneği oluşturur.
func NewWebhookHandler(service services.IWebhookService) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// HandleWebhook POST /api/webhook
// İmzasız veya geçersiz imzalı istek 401, çözümlenemeyen gövde 400 alır.
// İşleme hatasında 500 döner ki sağlayıcı olayı yeniden teslim etsin;
// duplicate ve ignored olaylar 200 ile kapatılır.
func (h *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	outcome, err := h.service.ProcessEvent(c.UserContext(), c.Body(), c.Get(payment.SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWebhookUnauthorized):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrWebhookBadPayload):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return respondError(c, err)
		}
	}
	return c.JSON(fiber.Map{"received": true, "outcome": string(outcome)})
}
