package routes

import (
	"hediye.link/configs"
	"hediye.link/services"
	"hediye.link/utils"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AppServices router'ın ihtiyaç duyduğu servis bağımlılıkları. Handler'lar
// global durum yerine buradan kurulur.
type AppServices struct {
	Users         services.IUserService
	Registries    services.IRegistryService
	GiftItems     services.IGiftItemService
	Contributions services.IContributionService
	Payments      services.IPaymentService
	Webhooks      services.IWebhookService
	Notifications services.INotificationService
}

// SetupRoutes tüm uygulama rotalarını ve genel middleware'leri ayarlar.
func SetupRoutes(app *fiber.App, svc AppServices) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())
	app.Use(initializeSessionAndLocals())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	registerAuthRoutes(app, svc)
	registerAPIRoutes(app, svc)
	registerPublicRoutes(app, svc)

	app.Use(notFoundHandler)
}

// initializeSessionAndLocals session store'u locals'a koyar ve varsa oturum
// kimliğini çözer. Oturum hatası isteği durdurmaz.
func initializeSessionAndLocals() fiber.Handler {
	sessionStore := configs.SetupSession()
	return func(c *fiber.Ctx) error {
		c.Locals("session_store", sessionStore)
		sess, err := utils.SessionStart(c)
		if err != nil {
			return c.Next()
		}
		if userID, err := utils.GetUserIDFromSession(sess); err == nil {
			c.Locals("userID", userID)
		}
		if isSystem, err := utils.GetIsSystemFromSession(sess); err == nil {
			c.Locals("isSystem", isSystem)
		}
		if userName, ok := sess.Get("user_name").(string); ok {
			c.Locals("userName", userName)
		}
		return c.Next()
	}
}

// notFoundHandler eşleşmeyen rotaları Accept başlığına göre JSON veya HTML
// 404 ile kapatır.
func notFoundHandler(c *fiber.Ctx) error {
	accepts := c.Accepts("application/json", "text/html")
	switch accepts {
	case "application/json":
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Kaynak bulunamadı"})
	default:
		return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "Sayfa Bulunamadı"}, "layouts/public")
	}
}
