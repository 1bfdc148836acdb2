package wishlist

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/benchlot/benchlot-api/internal/config"
	"github.com/benchlot/benchlot-api/internal/db"
	"github.com/benchlot/benchlot-api/internal/models"
	"github.com/benchlot/benchlot-api/internal/utils"
)

// WishlistService представляет сервис для работы с избранными инструментами
type WishlistService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewWishlistService создает новый экземпляр WishlistService
func NewWishlistService(cfg *config.Config) *WishlistService {
	return &WishlistService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// AddToWishlist добавляет инструмент в избранное
func (s *WishlistService) AddToWishlist(c fiber.Ctx) error {
	userUUID := c.Locals("userID").(uuid.UUID)

	var requestData struct {
		ToolID string `json:"tool_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.ToolID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID инструмента не указан"})
	}

	toolUUID, err := uuid.Parse(requestData.ToolID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID инструмента"})
	}

	// Проверяем, существует ли активное объявление
	ctx, cancel := db.GetContext()
	defer cancel()

	var exists bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM tools WHERE id = $1 AND status = 'active')
	`, toolUUID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки существования объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки объявления"})
	}

	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено или не активно"})
	}

	// Проверяем, не добавлен ли уже инструмент в избранное
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM wishlist WHERE user_id = $1 AND tool_id = $2)
	`, userUUID, toolUUID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки избранного"})
	}

	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Инструмент уже добавлен в избранное"})
	}

	// Добавляем инструмент в избранное
	itemID := uuid.New()
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO wishlist (id, user_id, tool_id)
		VALUES ($1, $2, $3)
	`, itemID, userUUID, toolUUID)

	if err != nil {
		log.Printf("Ошибка добавления в избранное: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка добавления в избранное"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"id":      itemID,
		"message": "Инструмент добавлен в избранное",
	})
}

// RemoveFromWishlist удаляет инструмент из избранного
func (s *WishlistService) RemoveFromWishlist(c fiber.Ctx) error {
	userUUID := c.Locals("userID").(uuid.UUID)
	toolID := c.Params("id")

	toolUUID, err := uuid.Parse(toolID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID инструмента"})
	}

	// Проверяем, есть ли инструмент в избранном
	ctx, cancel := db.GetContext()
	defer cancel()

	var exists bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM wishlist WHERE user_id = $1 AND tool_id = $2)
	`, userUUID, toolUUID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки избранного"})
	}

	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Инструмент не найден в избранном"})
	}

	// Удаляем инструмент из избранного
	_, err = db.Pool.Exec(ctx, `
		DELETE FROM wishlist WHERE user_id = $1 AND tool_id = $2
	`, userUUID, toolUUID)

	if err != nil {
		log.Printf("Ошибка удаления из избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления из избранного"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Инструмент удален из избранного",
	})
}

// CheckWishlist проверяет, находится ли инструмент в избранном
func (s *WishlistService) CheckWishlist(c fiber.Ctx) error {
	userUUID := c.Locals("userID").(uuid.UUID)
	toolID := c.Params("id")

	toolUUID, err := uuid.Parse(toolID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID инструмента"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var exists bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM wishlist WHERE user_id = $1 AND tool_id = $2)
	`, userUUID, toolUUID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки избранного"})
	}

	return c.JSON(fiber.Map{"in_wishlist": exists})
}

// GetWishlist возвращает список избранных инструментов пользователя
func (s *WishlistService) GetWishlist(c fiber.Ctx) error {
	userUUID := c.Locals("userID").(uuid.UUID)

	// Параметры пагинации
	limit := utils.ClampLimit(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT w.id, w.user_id, w.tool_id, w.created_at,
		       t.id, t.seller_id, t.name, t.category, t.condition,
		       t.current_price, t.original_price, t.allow_offers, t.is_sold, t.status
		FROM wishlist w
		JOIN tools t ON t.id = w.tool_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
		LIMIT $2 OFFSET $3
	`, userUUID, limit, offset)

	if err != nil {
		log.Printf("Ошибка запроса избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения избранного"})
	}
	defer rows.Close()

	items := make([]models.WishlistItem, 0)
	for rows.Next() {
		var item models.WishlistItem
		var tool models.Tool

		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ToolID,
			&item.CreatedAt,
			&tool.ID,
			&tool.SellerID,
			&tool.Name,
			&tool.Category,
			&tool.Condition,
			&tool.CurrentPrice,
			&tool.OriginalPrice,
			&tool.AllowOffers,
			&tool.IsSold,
			&tool.Status,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		// Основное изображение для карточки
		var mainImage models.ToolImage
		err = db.Pool.QueryRow(ctx, `
			SELECT id, url, preview_url, is_main
			FROM tool_images
			WHERE tool_id = $1 AND is_main = true
			LIMIT 1
		`, tool.ID).Scan(&mainImage.ID, &mainImage.URL, &mainImage.PreviewURL, &mainImage.IsMain)

		if err == nil {
			mainImage.ToolID = tool.ID
			tool.Images = []models.ToolImage{mainImage}
		}

		item.Tool = &tool
		items = append(items, item)
	}

	// Получаем общее количество для пагинации
	var total int
	if err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM wishlist WHERE user_id = $1
	`, userUUID).Scan(&total); err != nil {
		log.Printf("Ошибка подсчета избранного: %v", err)
	}

	return c.JSON(models.WishlistResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}
