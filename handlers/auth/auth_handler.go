package auth

import (
	"errors"

	"hediye.link/configs/configslog"
	"hediye.link/services"
	"hediye.link/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler kayıt, giriş ve oturum işlemlerini yönetir.
type AuthHandler struct {
	userService services.IUserService
}

// NewAuthHandler yeni bir AuthHandler örneği oluşturur.
func NewAuthHandler(userService services.IUserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi."})
	}

	user, err := h.userService.Register(c.UserContext(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserEmailTaken):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrUserInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			configslog.Log.Error("Register hatası", zap.String("email", input.Email), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Kayıt sırasında bir hata oluştu."})
		}
	}

	if err := h.startSession(c, user.ID, user.IsSystem, user.DisplayName()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Oturum başlatılamadı."})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.DisplayName(),
	})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi."})
	}

	user, err := h.userService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserInvalidLogin) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("Login hatası", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Giriş sırasında bir hata oluştu."})
	}

	if err := h.startSession(c, user.ID, user.IsSystem, user.DisplayName()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Oturum başlatılamadı."})
	}
	return c.JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.DisplayName(),
	})
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := utils.SessionStart(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Oturum alınamadı."})
	}
	if err := sess.Destroy(); err != nil {
		configslog.Log.Error("Logout: oturum sonlandırılamadı", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Oturum sonlandırılamadı."})
	}
	return c.JSON(fiber.Map{"message": "Çıkış yapıldı."})
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok || userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Oturum gerekli."})
	}

	user, err := h.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Oturum geçersiz."})
		}
		configslog.Log.Error("Me hatası", zap.Uint("user_id", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Kullanıcı bilgisi alınamadı."})
	}
	return c.JSON(fiber.Map{
		"id":                    user.ID,
		"email":                 user.Email,
		"name":                  user.DisplayName(),
		"avatar_url":            user.AvatarURL,
		"notifications_enabled": user.NotificationsEnabled,
		"email_notifications":   user.EmailNotifications,
	})
}

// UpdatePrefs PUT /api/auth/prefs
func (h *AuthHandler) UpdatePrefs(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok || userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Oturum gerekli."})
	}

	var req struct {
		NotificationsEnabled bool `json:"notifications_enabled"`
		EmailNotifications   bool `json:"email_notifications"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi."})
	}

	if err := h.userService.UpdateNotificationPrefs(c.UserContext(), userID, req.NotificationsEnabled, req.EmailNotifications); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("UpdatePrefs hatası", zap.Uint("user_id", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Tercihler güncellenemedi."})
	}
	return c.JSON(fiber.Map{"message": "Tercihler güncellendi."})
}

// startSession oturumu yeniler ve kimlik bilgilerini yazar.
func (h *AuthHandler) startSession(c *fiber.Ctx, userID uint, isSystem bool, name string) error {
	sess, err := utils.SessionStart(c)
	if err != nil {
		configslog.Log.Error("Oturum başlatılamadı", zap.Error(err))
		return err
	}
	if err := sess.Regenerate(); err != nil {
		configslog.Log.Error("Oturum ID yenilenemedi", zap.Error(err))
		return err
	}
	sess.Set("user_id", userID)
	sess.Set("is_system", isSystem)
	sess.Set("user_name", name)
	if err := sess.Save(); err != nil {
		configslog.Log.Error("Oturum kaydedilemedi", zap.Error(err))
		return err
	}
	return nil
}
