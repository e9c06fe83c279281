package api

import (
	"hediye.link/pkg/queryparams"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler bildirim API endpoint'leri.
type NotificationHandler struct {
	service services.INotificationService
}

// NewNotificationHandler yeni bir NotificationHandler örneği oluşturur.
func NewNotificationHandler(service services.INotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// Notify POST /api/notify
// Normal kullanıcı yalnızca kendine bildirim üretebilir; sistem kullanıcısı
// hedef kullanıcıyı seçebilir.
func (h *NotificationHandler) Notify(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var input services.NotificationInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi."})
	}

	isSystem, _ := c.Locals("isSystem").(bool)
	if input.UserID == 0 {
		input.UserID = userID
	}
	if input.UserID != userID && !isSystem {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Başka kullanıcıya bildirim gönderilemez."})
	}

	if err := h.service.Notify(c.UserContext(), input); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Bildirim oluşturuldu."})
}

// ListNotifications GET /api/notifications
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.GetNotificationsForUser(c.UserContext(), userID, params)
	if err != nil {
		return respondError(c, err)
	}

	unread, err := h.service.UnreadCount(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": result, "unread_count": unread})
}

// MarkNotificationRead PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkNotificationRead(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz bildirim ID."})
	}

	if err := h.service.MarkRead(c.UserContext(), uint(id), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Bildirim okundu olarak işaretlendi."})
}
