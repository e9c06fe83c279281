package routes

import (
	"hediye.link/handlers/api"

	"github.com/gofiber/fiber/v2"
)

// registerAPIRoutes JSON API rotalarını tanımlar. Oturum zorunluluğu
// handler'larda uygulanır; webhook ve katkı uçları oturumsuz da çalışır.
func registerAPIRoutes(app *fiber.App, svc AppServices) {
	registryHandler := api.NewRegistryHandler(svc.Registries)
	giftItemHandler := api.NewGiftItemHandler(svc.GiftItems)
	contributionHandler := api.NewContributionHandler(svc.Contributions, svc.Notifications)
	paymentHandler := api.NewPaymentHandler(svc.Payments)
	webhookHandler := api.NewWebhookHandler(svc.Webhooks)
	notificationHandler := api.NewNotificationHandler(svc.Notifications)

	apiGroup := app.Group("/api")

	apiGroup.Get("/registries", registryHandler.ListRegistries)
	apiGroup.Post("/registries", registryHandler.CreateRegistry)
	apiGroup.Get("/registries/:id", registryHandler.GetRegistry)
	apiGroup.Put("/registries/:id", registryHandler.UpdateRegistry)
	apiGroup.Delete("/registries/:id", registryHandler.DeleteRegistry)
	apiGroup.Post("/registries/:id/collaborators", registryHandler.AddCollaborator)

	apiGroup.Get("/gift-items", giftItemHandler.ListGiftItems)
	apiGroup.Post("/gift-items", giftItemHandler.CreateGiftItem)
	apiGroup.Get("/gift-items/:id", giftItemHandler.GetGiftItem)
	apiGroup.Put("/gift-items/:id", giftItemHandler.UpdateGiftItem)
	apiGroup.Delete("/gift-items/:id", giftItemHandler.DeleteGiftItem)

	apiGroup.Get("/contributions", contributionHandler.ListContributions)
	apiGroup.Post("/contributions", contributionHandler.CreateContribution)
	apiGroup.Get("/analytics", contributionHandler.GetAnalytics)

	apiGroup.Post("/create-payment-intent", paymentHandler.CreatePaymentIntent)
	apiGroup.Post("/webhook", webhookHandler.HandleWebhook)

	apiGroup.Post("/notify", notificationHandler.Notify)
	apiGroup.Get("/notifications", notificationHandler.ListNotifications)
	apiGroup.Put("/notifications/:id/read", notificationHandler.MarkNotificationRead)
}
