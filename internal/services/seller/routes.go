package seller

import (
	"github.com/gofiber/fiber/v3"

	"github.com/benchlot/benchlot-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для подключения продавцов
func (s *SellerService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/seller")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для начала онбординга
	api.Post("/onboarding", s.StartOnboarding)

	// Маршрут для проверки статуса подключения
	api.Get("/status", s.GetStatus)
}
