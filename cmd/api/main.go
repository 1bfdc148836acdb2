package main

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/benchlot/benchlot-api/internal/config"
	"github.com/benchlot/benchlot-api/internal/db"
	"github.com/benchlot/benchlot-api/internal/middleware"
	"github.com/benchlot/benchlot-api/internal/services/auth"
	"github.com/benchlot/benchlot-api/internal/services/cloudinary"
	"github.com/benchlot/benchlot-api/internal/services/dashboard"
	"github.com/benchlot/benchlot-api/internal/services/message"
	"github.com/benchlot/benchlot-api/internal/services/offer"
	"github.com/benchlot/benchlot-api/internal/services/seller"
	"github.com/benchlot/benchlot-api/internal/services/tool"
	"github.com/benchlot/benchlot-api/internal/services/user"
	"github.com/benchlot/benchlot-api/internal/services/wishlist"
	"github.com/benchlot/benchlot-api/internal/websocket"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Benchlot API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Менеджер WebSocket для уведомлений в реальном времени
	wsManager := websocket.NewManager()
	defer wsManager.Shutdown()

	// Создаём сервисы
	authService := auth.NewAuthService(cfg)
	userService := user.NewUserService(cfg)
	toolService := tool.NewToolService(cfg)
	messageService := message.NewMessageService(cfg, wsManager)
	offerService := offer.NewOfferService(cfg, wsManager)
	wishlistService := wishlist.NewWishlistService(cfg)
	cloudinaryService := cloudinary.NewCloudinaryService(cfg)
	sellerService := seller.NewSellerService(cfg)
	dashboardService := dashboard.NewDashboardService(cfg)

	// Настраиваем middleware для аутентификации
	authMiddleware := middleware.AuthMiddleware(authService.GetJWTService())

	// Регистрируем маршруты
	authService.SetupRoutes(app)
	userService.SetupRoutes(app)
	// /api/tools/my должен быть зарегистрирован раньше, чем /api/tools/:id
	toolService.SetupRoutes(app)
	toolService.SetupPublicRoutes(app)
	messageService.SetupRoutes(app)
	offerService.SetupRoutes(app)
	wishlistService.SetupRoutes(app)
	cloudinary.SetupRoutes(app, authMiddleware, cloudinaryService)
	sellerService.SetupRoutes(app)
	dashboardService.SetupRoutes(app)

	// Поток уведомлений поднимается отдельным HTTP-сервером
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", websocket.ServeWS(wsManager, authService.GetJWTService()))

		log.Printf("✅ WebSocket сервер запущен на порту %s", cfg.WSPort)
		if err := http.ListenAndServe(":"+cfg.WSPort, mux); err != nil {
			log.Fatalf("❌ Ошибка WebSocket сервера: %v", err)
		}
	}()

	// Запускаем сервер
	log.Printf("✅ Benchlot API запущен на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
