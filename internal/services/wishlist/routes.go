package wishlist

import (
	"github.com/gofiber/fiber/v3"

	"github.com/benchlot/benchlot-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API избранного
func (s *WishlistService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/wishlist")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для получения списка избранных инструментов
	api.Get("/", s.GetWishlist)

	// Маршрут для добавления инструмента в избранное
	api.Post("/", s.AddToWishlist)

	// Маршрут для удаления инструмента из избранного
	api.Delete("/:id", s.RemoveFromWishlist)

	// Маршрут для проверки, находится ли инструмент в избранном
	api.Get("/:id/check", s.CheckWishlist)
}
