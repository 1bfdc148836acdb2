package dashboard

import (
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v3"
)

// Демо-данные для дашборда в окружении разработки. Никогда не смешиваются
// с реальными данными: ответ всегда несет флаг is_demo.

// DemoEarnings генерирует правдоподобные демо-доходы за последний год
func DemoEarnings() fiber.Map {
	rng := rand.New(rand.NewSource(42)) // Фиксированный seed для стабильных демо-данных

	monthly := make([]fiber.Map, 0, 12)
	var total float64
	var salesCount int

	now := time.Now()
	for i := 11; i >= 0; i-- {
		month := now.AddDate(0, -i, 0)
		sales := rng.Intn(5)
		amount := 0.0
		for j := 0; j < sales; j++ {
			amount += 50 + float64(rng.Intn(45))*10
		}

		total += amount
		salesCount += sales
		monthly = append(monthly, fiber.Map{
			"month":  month.Format("2006-01"),
			"amount": amount,
			"sales":  sales,
		})
	}

	return fiber.Map{
		"total_earnings": total,
		"sales_count":    salesCount,
		"monthly":        monthly,
	}
}
