package user

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/benchlot/benchlot-api/internal/config"
	"github.com/benchlot/benchlot-api/internal/db"
	"github.com/benchlot/benchlot-api/internal/utils"
)

// UserService представляет сервис для работы с профилем пользователя
type UserService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewUserService создает новый экземпляр UserService
func NewUserService(cfg *config.Config) *UserService {
	return &UserService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetProfile возвращает профиль текущего пользователя
func (s *UserService) GetProfile(c fiber.Ctx) error {
	userUUID := c.Locals("userID").(uuid.UUID)

	user, err := db.GetUserByID(userUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка получения пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения профиля"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// UpdateProfile обновляет профиль текущего пользователя
func (s *UserService) UpdateProfile(c fiber.Ctx) error {
	userUUID := c.Locals("userID").(uuid.UUID)

	var requestData struct {
		FullName    string          `json:"full_name"`
		AvatarURL   string          `json:"avatar_url"`
		Location    string          `json:"location"`
		Preferences json.RawMessage `json:"preferences"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	// Настройки должны быть валидным JSON-объектом
	if len(requestData.Preferences) > 0 && !json.Valid(requestData.Preferences) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат настроек"})
	}

	user, err := db.UpdateProfile(userUUID, requestData.FullName, requestData.AvatarURL, requestData.Location, requestData.Preferences)
	if err != nil {
		log.Printf("Ошибка обновления профиля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления профиля"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
