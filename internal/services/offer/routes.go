package offer

import (
	"github.com/gofiber/fiber/v3"

	"github.com/benchlot/benchlot-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API предложений
func (s *OfferService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/offers")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для создания предложения
	api.Post("/", s.CreateOffer)

	// Маршрут для получения списка предложений
	api.Get("/", s.GetMyOffers)

	// Маршрут для ответа на предложение
	api.Put("/:id/respond", s.RespondToOffer)
}
