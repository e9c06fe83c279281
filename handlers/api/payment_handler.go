package api

import (
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler ödeme niyeti API endpoint'i.
type PaymentHandler struct {
	service services.IPaymentService
}

// NewPaymentHandler yeni bir PaymentHandler örneği oluşturur.
func NewPaymentHandler(service services.IPaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// CreatePaymentIntent POST /api/create-payment-intent
// Sağlayıcıda ödeme niyeti açar ve client_secret döndürür; katkı kaydı
// webhook onayı gelene kadar oluşturulmaz.
func (h *PaymentHandler) CreatePaymentIntent(c *fiber.Ctx) error {
	var input services.PaymentIntentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi."})
	}
	if userID := currentUserID(c); userID != 0 {
		input.ContributorUserID = &userID
	}

	intent, err := h.service.CreateIntent(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":            intent.ID,
		"client_secret": intent.ClientSecret,
		"amount":        intent.Amount,
		"currency":      intent.Currency,
	})
}
