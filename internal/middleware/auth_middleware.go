package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/benchlot/benchlot-api/internal/utils"
)

// AuthMiddleware создаёт middleware для проверки JWT. Идентификатор
// пользователя кладется в Locals("userID") уже разобранным uuid.UUID,
// чтобы обработчики не парсили строку повторно.
func AuthMiddleware(jwtService *utils.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
				"code":  "missing_token",
			})
		}

		// Проверяем Bearer токен
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
				"code":  "invalid_token",
			})
		}

		userID, err := jwtService.ExtractUserID(parts[1])
		if err != nil {
			// Истекшая сессия отличается от невалидного токена: клиент по
			// коду session_expired уводит на вход с возвратом на текущую страницу
			if errors.Is(err, jwt.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error":     "Сессия истекла, войдите снова",
					"code":      "session_expired",
					"return_to": c.Path(),
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
				"code":  "invalid_token",
			})
		}

		userUUID, err := uuid.Parse(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid user ID",
				"code":  "invalid_token",
			})
		}

		// Добавляем userID в контекст
		c.Locals("userID", userUUID)

		return c.Next()
	}
}
