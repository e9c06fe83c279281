// Package api JSON API handler'larını içerir. Tüm handler'lar hataları kendi
// sınırında yakalar, detayı sunucu tarafında loglar ve taksonomiye uyan HTTP
// status ile {"error": "..."} gövdesi döndürür; hiçbir hata transport
// katmanına kadar yükselmez.
package api

import (
	"errors"

	"hediye.link/configs/configslog"
	"hediye.link/repositories"
	"hediye.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// currentUserID session middleware'inin locals'a koyduğu kullanıcı ID'si.
// Oturum yoksa 0 döner.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// errSessionRequired oturum zorunlu endpoint'lerde oturum yoksa döner;
// respondError bunu 401'e çevirir.
var errSessionRequired = errors.New("oturum gerekli")

// requireUser oturum zorunlu endpoint'ler için kullanıcı ID'sini alır.
func requireUser(c *fiber.Ctx) (uint, error) {
	userID := currentUserID(c)
	if userID == 0 {
		return 0, errSessionRequired
	}
	return userID, nil
}

// respondError servis hatasını taksonomiye göre HTTP cevabına çevirir:
// BadRequest (caller düzeltebilir), NotFound (kayıt yok/eşleşmiyor),
// Unauthorized/Forbidden, InternalError (jenerik mesaj + log).
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrRegistryNotFound),
		errors.Is(err, services.ErrGiftItemNotFound),
		errors.Is(err, services.ErrContribItemNotFound),
		errors.Is(err, services.ErrContributionMismatch),
		errors.Is(err, services.ErrContributionNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrPaymentItemNotFound),
		errors.Is(err, services.ErrPaymentMismatch),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, errSessionRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Oturum gerekli."})

	case errors.Is(err, services.ErrRegistryForbidden),
		errors.Is(err, services.ErrGiftItemForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, services.ErrRegistryInvalidInput),
		errors.Is(err, services.ErrRegistryTitleRequired),
		errors.Is(err, services.ErrGiftItemInvalidInput),
		errors.Is(err, services.ErrGiftItemNameRequired),
		errors.Is(err, services.ErrContribInvalidInput),
		errors.Is(err, services.ErrContribAmountInvalid),
		errors.Is(err, services.ErrContribAnonymousForbidden),
		errors.Is(err, services.ErrNotificationInvalidInput),
		errors.Is(err, services.ErrPaymentInvalidInput),
		errors.Is(err, services.ErrUserInvalidInput),
		errors.Is(err, services.ErrCollaboratorExists):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	default:
		configslog.Log.Error("API handler hatası", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Beklenmeyen bir hata oluştu."})
	}
}
