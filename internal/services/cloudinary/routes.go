package cloudinary

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для API загрузки изображений
func SetupRoutes(app *fiber.App, authMiddleware fiber.Handler, cloudinaryService *CloudinaryService) {
	api := app.Group("/api/upload")

	// Защищенные маршруты
	api.Use(authMiddleware)

	// Маршрут для получения параметров прямой загрузки
	api.Get("/params", cloudinaryService.GenerateUploadParams)

	// Маршрут для загрузки изображения через сервер
	api.Post("/", cloudinaryService.UploadImage)
}
