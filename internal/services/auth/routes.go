package auth

import (
	"github.com/gofiber/fiber/v3"

	"github.com/benchlot/benchlot-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты авторизации в Fiber
func (s *AuthService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/auth")

	// Публичные маршруты
	api.Post("/signup", s.SignUpHandler)
	api.Post("/signin", s.SignInHandler)
	api.Post("/reset/request", s.ResetRequestHandler)
	api.Post("/reset/complete", s.ResetCompleteHandler)

	// Защищенные маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(s.jwtService))
	protected.Get("/me", s.MeHandler)
}
