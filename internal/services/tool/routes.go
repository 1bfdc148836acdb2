package tool

import (
	"github.com/gofiber/fiber/v3"

	"github.com/benchlot/benchlot-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API объявлений.
// Middleware авторизации вешается на каждый маршрут отдельно: Use на общем
// префиксе /api/tools перехватывал бы и публичный каталог.
func (s *ToolService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/tools")
	auth := middleware.AuthMiddleware(s.jwtService)

	// Маршрут для создания объявления
	api.Post("/", s.CreateTool, auth)

	// Маршрут для получения списка своих объявлений
	api.Get("/my", s.GetMyTools, auth)

	// Маршрут для обновления объявления
	api.Put("/:id", s.UpdateTool, auth)

	// Маршрут для удаления объявления
	api.Delete("/:id", s.DeleteTool, auth)
}

// SetupPublicRoutes настраивает публичные маршруты каталога
func (s *ToolService) SetupPublicRoutes(app *fiber.App) {
	// Каталог с фильтрами и отдельное объявление доступны без авторизации
	app.Get("/api/tools", s.SearchTools)
	app.Get("/api/tools/:id", s.GetTool)
}
