package dashboard

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/benchlot/benchlot-api/internal/config"
	"github.com/benchlot/benchlot-api/internal/db"
	"github.com/benchlot/benchlot-api/internal/utils"
)

// DashboardService представляет сервис статистики продавца
type DashboardService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewDashboardService создает новый экземпляр DashboardService
func NewDashboardService(cfg *config.Config) *DashboardService {
	return &DashboardService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetStats возвращает сводную статистику продавца
func (s *DashboardService) GetStats(c fiber.Ctx) error {
	sellerID := c.Locals("userID").(uuid.UUID)

	ctx, cancel := db.GetContext()
	defer cancel()

	var activeCount, soldCount, savedCount, unreadCount, pendingOffers int

	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tools WHERE seller_id = $1 AND status = 'active' AND is_sold = false
	`, sellerID).Scan(&activeCount)
	if err != nil {
		log.Printf("Ошибка подсчета активных объявлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения статистики"})
	}

	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tools WHERE seller_id = $1 AND is_sold = true
	`, sellerID).Scan(&soldCount)
	if err != nil {
		log.Printf("Ошибка подсчета проданных инструментов: %v", err)
	}

	// Сколько раз инструменты продавца добавляли в избранное
	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM wishlist w
		JOIN tools t ON t.id = w.tool_id
		WHERE t.seller_id = $1
	`, sellerID).Scan(&savedCount)
	if err != nil {
		log.Printf("Ошибка подсчета сохранений: %v", err)
	}

	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND is_read = false
	`, sellerID).Scan(&unreadCount)
	if err != nil {
		log.Printf("Ошибка подсчета непрочитанных: %v", err)
	}

	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM offers WHERE seller_id = $1 AND status = 'pending'
	`, sellerID).Scan(&pendingOffers)
	if err != nil {
		log.Printf("Ошибка подсчета предложений: %v", err)
	}

	return c.JSON(fiber.Map{
		"active_listings": activeCount,
		"sold_tools":      soldCount,
		"wishlist_saves":  savedCount,
		"unread_messages": unreadCount,
		"pending_offers":  pendingOffers,
	})
}

// GetEarnings возвращает доходы продавца с разбивкой по месяцам
func (s *DashboardService) GetEarnings(c fiber.Ctx) error {
	sellerID := c.Locals("userID").(uuid.UUID)

	ctx, cancel := db.GetContext()
	defer cancel()

	var totalEarnings float64
	var salesCount int

	err := db.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM sales WHERE seller_id = $1
	`, sellerID).Scan(&totalEarnings, &salesCount)

	if err != nil {
		log.Printf("Ошибка подсчета доходов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения доходов"})
	}

	// Разбивка по месяцам за последний год
	rows, err := db.Pool.Query(ctx, `
		SELECT date_trunc('month', created_at) AS month, SUM(amount), COUNT(*)
		FROM sales
		WHERE seller_id = $1 AND created_at > NOW() - INTERVAL '12 months'
		GROUP BY month
		ORDER BY month ASC
	`, sellerID)

	if err != nil {
		log.Printf("Ошибка запроса месячной разбивки: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения доходов"})
	}
	defer rows.Close()

	monthly := make([]fiber.Map, 0)
	for rows.Next() {
		var month time.Time
		var amount float64
		var count int

		if err := rows.Scan(&month, &amount, &count); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		monthly = append(monthly, fiber.Map{
			"month":  month.Format("2006-01"),
			"amount": amount,
			"sales":  count,
		})
	}

	// В окружении разработки показываем демо-данные, если продаж еще нет.
	// Демо-провайдер отделен от реального доступа к данным и явно помечен.
	if salesCount == 0 && s.cfg.IsDevelopment() {
		demo := DemoEarnings()
		demo["is_demo"] = true
		return c.JSON(demo)
	}

	return c.JSON(fiber.Map{
		"total_earnings": totalEarnings,
		"sales_count":    salesCount,
		"monthly":        monthly,
		"is_demo":        false,
	})
}
