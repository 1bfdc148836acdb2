package message

import (
	"github.com/gofiber/fiber/v3"

	"github.com/benchlot/benchlot-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API сообщений
func (s *MessageService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/messages")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для получения списка диалогов
	api.Get("/conversations", s.GetConversations)

	// Маршрут для получения количества непрочитанных
	api.Get("/unread", s.GetUnreadCount)

	// Маршрут для получения переписки с пользователем
	api.Get("/with/:userID", s.GetThread)

	// Маршрут для отправки сообщения
	api.Post("/", s.SendMessage)
}
