package routes

import (
	public_handlers "hediye.link/handlers/public"

	"github.com/gofiber/fiber/v2"
)

// registerPublicRoutes paylaşım bağlantısı sayfasını tanımlar. /api ve diğer
// özel gruplardan sonra kaydedilmelidir.
func registerPublicRoutes(app *fiber.App, svc AppServices) {
	publicHandler := public_handlers.NewPublicRegistryHandler(svc.Registries, svc.Contributions)

	app.Get("/r/:key", publicHandler.ShowRegistry)
}
