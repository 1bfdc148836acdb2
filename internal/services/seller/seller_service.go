package seller

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/account"
	"github.com/stripe/stripe-go/v78/accountlink"

	"github.com/benchlot/benchlot-api/internal/config"
	"github.com/benchlot/benchlot-api/internal/db"
	"github.com/benchlot/benchlot-api/internal/utils"
)

// Статусы подключения продавца к выплатам
const (
	StatusNotStarted = "not_started"
	StatusPending    = "pending"
	StatusActive     = "active"
	StatusRestricted = "restricted"
)

// SellerService представляет сервис для подключения продавцов через Stripe Connect
type SellerService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewSellerService создает новый экземпляр SellerService
func NewSellerService(cfg *config.Config) *SellerService {
	stripe.Key = cfg.StripeConfig.SecretKey

	return &SellerService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// StartOnboarding создает Stripe Express аккаунт для продавца (если его еще нет)
// и возвращает ссылку на онбординг
func (s *SellerService) StartOnboarding(c fiber.Ctx) error {
	userUUID := c.Locals("userID").(uuid.UUID)

	user, err := db.GetUserByID(userUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка получения пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения профиля"})
	}

	accountID := user.StripeAccountID

	// Создаем аккаунт, если продавец подключается впервые
	if accountID == "" {
		acct, err := account.New(&stripe.AccountParams{
			Type:  stripe.String(string(stripe.AccountTypeExpress)),
			Email: stripe.String(user.Email),
		})

		if err != nil {
			log.Printf("Ошибка создания Stripe аккаунта: %v", err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Ошибка подключения к платежному сервису"})
		}

		accountID = acct.ID

		if err := db.SetStripeAccount(userUUID, accountID); err != nil {
			log.Printf("Ошибка сохранения Stripe аккаунта: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения данных продавца"})
		}
	}

	// Создаем ссылку на онбординг
	link, err := accountlink.New(&stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(s.cfg.FrontendURL + "/seller/onboarding"),
		ReturnURL:  stripe.String(s.cfg.FrontendURL + "/seller/dashboard"),
		Type:       stripe.String("account_onboarding"),
	})

	if err != nil {
		log.Printf("Ошибка создания ссылки онбординга: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Ошибка подключения к платежному сервису"})
	}

	return c.JSON(fiber.Map{
		"onboarding_url": link.URL,
		"account_id":     accountID,
	})
}

// GetStatus возвращает статус подключения продавца.
// Страница онбординга опрашивает этот эндпоинт, вебхуки не используются.
func (s *SellerService) GetStatus(c fiber.Ctx) error {
	userUUID := c.Locals("userID").(uuid.UUID)

	user, err := db.GetUserByID(userUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка получения пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения профиля"})
	}

	if user.StripeAccountID == "" {
		return c.JSON(fiber.Map{"status": StatusNotStarted})
	}

	acct, err := account.GetByID(user.StripeAccountID, nil)
	if err != nil {
		log.Printf("Ошибка запроса Stripe аккаунта: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Ошибка запроса платежного сервиса"})
	}

	status := resolveStatus(acct.DetailsSubmitted, acct.ChargesEnabled, acct.PayoutsEnabled)

	return c.JSON(fiber.Map{
		"status":            status,
		"details_submitted": acct.DetailsSubmitted,
		"charges_enabled":   acct.ChargesEnabled,
		"payouts_enabled":   acct.PayoutsEnabled,
	})
}

// resolveStatus выводит статус подключения из флагов Stripe аккаунта
func resolveStatus(detailsSubmitted, chargesEnabled, payoutsEnabled bool) string {
	switch {
	case !detailsSubmitted:
		return StatusPending
	case chargesEnabled && payoutsEnabled:
		return StatusActive
	default:
		return StatusRestricted
	}
}
