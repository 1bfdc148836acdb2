package user

import (
	"github.com/gofiber/fiber/v3"

	"github.com/benchlot/benchlot-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API профиля
func (s *UserService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/profile")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для получения профиля
	api.Get("/", s.GetProfile)

	// Маршрут для обновления профиля
	api.Put("/", s.UpdateProfile)
}
