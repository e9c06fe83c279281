package routes

import (
	auth_handlers "hediye.link/handlers/auth"

	"github.com/gofiber/fiber/v2"
)

func registerAuthRoutes(app *fiber.App, svc AppServices) {
	authHandler := auth_handlers.NewAuthHandler(svc.Users)
	authGroup := app.Group("/api/auth")

	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", authHandler.Me)
	authGroup.Put("/prefs", authHandler.UpdatePrefs)
}
