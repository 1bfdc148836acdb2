package dashboard

import (
	"github.com/gofiber/fiber/v3"

	"github.com/benchlot/benchlot-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API дашборда продавца
func (s *DashboardService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/dashboard")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для сводной статистики
	api.Get("/stats", s.GetStats)

	// Маршрут для доходов
	api.Get("/earnings", s.GetEarnings)
}
