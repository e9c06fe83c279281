package configs

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
)

var sessionStore *session.Store

// SetupSession cookie tabanlı session store'u hazırlar.
// Tek bir store process boyunca paylaşılır.
func SetupSession() *session.Store {
	if sessionStore != nil {
		return sessionStore
	}
	sessionStore = session.New(session.Config{
		Expiration:     72 * time.Hour,
		KeyLookup:      "cookie:hediye_session",
		CookieHTTPOnly: true,
		CookieSecure:   os.Getenv("APP_ENV") == "production",
		CookieSameSite: "Lax",
	})
	return sessionStore
}
