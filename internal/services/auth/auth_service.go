package auth

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/benchlot/benchlot-api/internal/config"
	"github.com/benchlot/benchlot-api/internal/db"
	"github.com/benchlot/benchlot-api/internal/utils"
)

// AuthService – структура для обработки авторизации
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetJWTService возвращает JWT сервис для использования в middleware
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// SignUpHandler регистрирует нового пользователя
func (s *AuthService) SignUpHandler(c fiber.Ctx) error {
	var form SignupForm

	if err := c.Bind().Body(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	// Валидация формы до любого обращения к базе
	if err := form.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Хешируем пароль
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Ошибка хеширования пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка регистрации"})
	}

	user, err := db.CreateUser(form.Email, string(passwordHash), form.Username, form.FullName)
	if err != nil {
		log.Printf("Ошибка создания пользователя: %v", err)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Пользователь с таким email или именем уже существует"})
	}

	// Генерируем JWT
	jwtToken, err := s.jwtService.GenerateToken(user.ID.String())
	if err != nil {
		log.Printf("Ошибка генерации JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка генерации токена"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": jwtToken,
		"user":  user,
	})
}

// SignInHandler проверяет учетные данные и возвращает JWT
func (s *AuthService) SignInHandler(c fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email и пароль обязательны"})
	}

	user, passwordHash, err := db.GetUserByEmail(payload.Email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
		}
		log.Printf("Ошибка получения пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка входа"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(payload.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}

	// Генерируем JWT
	jwtToken, err := s.jwtService.GenerateToken(user.ID.String())
	if err != nil {
		log.Printf("Ошибка генерации JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка генерации токена"})
	}

	return c.JSON(fiber.Map{
		"token": jwtToken,
		"user":  user,
	})
}

// MeHandler возвращает профиль текущего пользователя
func (s *AuthService) MeHandler(c fiber.Ctx) error {
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

// ResetRequestHandler создает токен для сброса пароля.
// Отправка письма не реализована: ссылка пишется в лог, в окружении
// разработки токен возвращается в ответе.
func (s *AuthService) ResetRequestHandler(c fiber.Ctx) error {
	var payload struct {
		Email string `json:"email"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if payload.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email обязателен"})
	}

	user, _, err := db.GetUserByEmail(payload.Email)
	if err != nil {
		// Не раскрываем, существует ли email
		return c.JSON(fiber.Map{"success": true})
	}

	token, err := db.CreatePasswordReset(user.ID)
	if err != nil {
		log.Printf("Ошибка создания токена сброса: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сброса пароля"})
	}

	log.Printf("Ссылка для сброса пароля: %s/reset-password?token=%s", s.cfg.FrontendURL, token)

	response := fiber.Map{"success": true}
	if s.cfg.IsDevelopment() {
		response["token"] = token
	}

	return c.JSON(response)
}

// ResetCompleteHandler завершает сброс пароля по токену
func (s *AuthService) ResetCompleteHandler(c fiber.Ctx) error {
	var payload struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if payload.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Токен обязателен"})
	}

	if len(payload.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrPasswordTooShort.Error()})
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Ошибка хеширования пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сброса пароля"})
	}

	if err := db.CompletePasswordReset(payload.Token, string(passwordHash)); err != nil {
		log.Printf("Ошибка завершения сброса пароля: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Токен сброса пароля недействителен"})
	}

	return c.JSON(fiber.Map{"success": true})
}
