package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

var (
	ErrSessionStoreMissing = errors.New("session store locals içinde bulunamadı")
	ErrUserIDMissing       = errors.New("session içinde kullanıcı ID yok")
)

// SessionStart locals'a konan store üzerinden isteğin session'ını açar.
func SessionStart(c *fiber.Ctx) (*session.Session, error) {
	store, ok := c.Locals("session_store").(*session.Store)
	if !ok || store == nil {
		return nil, ErrSessionStoreMissing
	}
	return store.Get(c)
}

// GetUserIDFromSession oturumdaki kullanıcı ID'sini döndürür.
func GetUserIDFromSession(sess *session.Session) (uint, error) {
	if sess == nil {
		return 0, ErrUserIDMissing
	}
	if id, ok := sess.Get("user_id").(uint); ok && id != 0 {
		return id, nil
	}
	return 0, ErrUserIDMissing
}

// GetIsSystemFromSession oturumdaki sistem kullanıcısı bayrağını döndürür.
func GetIsSystemFromSession(sess *session.Session) (bool, error) {
	if sess == nil {
		return false, ErrUserIDMissing
	}
	if isSystem, ok := sess.Get("is_system").(bool); ok {
		return isSystem, nil
	}
	return false, nil
}
