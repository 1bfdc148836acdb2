package tool

import (
	"context"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/benchlot/benchlot-api/internal/config"
	"github.com/benchlot/benchlot-api/internal/db"
	"github.com/benchlot/benchlot-api/internal/models"
	"github.com/benchlot/benchlot-api/internal/utils"
)

// RequestImage представляет структуру изображения в запросе создания объявления
type RequestImage struct {
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url"`
	PublicID   string `json:"public_id"`
	FileName   string `json:"file_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	IsMain     bool   `json:"is_main"`
}

// toolRequest представляет тело запроса создания/обновления объявления
type toolRequest struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Condition     string         `json:"condition"`
	CurrentPrice  float64        `json:"current_price"`
	OriginalPrice float64        `json:"original_price"`
	AllowOffers   bool           `json:"allow_offers"`
	Status        string         `json:"status"`
	Images        []RequestImage `json:"images"`
}

// ToolService представляет сервис для работы с объявлениями об инструментах
type ToolService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewToolService создает новый экземпляр ToolService
func NewToolService(cfg *config.Config) *ToolService {
	return &ToolService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// validateToolRequest проверяет тело запроса и нормализует необязательные поля
func validateToolRequest(req *toolRequest) (string, bool) {
	if req.Name == "" {
		return "Название инструмента обязательно", false
	}

	if req.CurrentPrice <= 0 {
		return "Цена должна быть больше нуля", false
	}

	if req.Status == "active" && !models.ValidCategories[req.Category] {
		return "Выберите категорию инструмента", false
	}

	if req.Status == "active" && len(req.Images) == 0 {
		return "Добавьте хотя бы одно изображение", false
	}

	if req.Status != "active" && req.Status != "draft" {
		req.Status = "draft" // По умолчанию - черновик
	}

	if !models.ValidConditions[req.Condition] {
		req.Condition = "good" // По умолчанию
	}

	return "", true
}

// CreateTool обрабатывает создание нового объявления
func (s *ToolService) CreateTool(c fiber.Ctx) error {
	sellerID := c.Locals("userID").(uuid.UUID)

	var requestData toolRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if msg, ok := validateToolRequest(&requestData); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	// Создаем ID для нового объявления
	toolID := uuid.New()

	// Начинаем транзакцию
	ctx, cancel := db.GetContext()
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	// Вставляем объявление
	_, err = tx.Exec(ctx, `
		INSERT INTO tools (id, seller_id, name, description, category, condition,
		                   current_price, original_price, allow_offers, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, toolID, sellerID, requestData.Name, requestData.Description, requestData.Category,
		requestData.Condition, requestData.CurrentPrice, requestData.OriginalPrice,
		requestData.AllowOffers, requestData.Status)

	if err != nil {
		log.Printf("Ошибка вставки объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения объявления"})
	}

	// Вставляем изображения, если они есть
	if err := insertImages(ctx, tx, toolID, requestData.Images); err != nil {
		log.Printf("Ошибка вставки изображения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения изображений"})
	}

	// Фиксируем транзакцию
	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"tool_id": toolID,
		"message": "Объявление успешно создано",
	})
}

// insertImages вставляет изображения объявления. Первое изображение - основное.
func insertImages(ctx context.Context, tx pgx.Tx, toolID uuid.UUID, images []RequestImage) error {
	for i, img := range images {
		isMain := i == 0

		_, err := tx.Exec(ctx, `
			INSERT INTO tool_images (tool_id, url, preview_url, public_id, file_name, is_main, position, width, height)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, toolID, img.URL, img.PreviewURL, img.PublicID, img.FileName, isMain, i, img.Width, img.Height)

		if err != nil {
			return err
		}
	}
	return nil
}

// loadImages загружает изображения объявления
func loadImages(ctx context.Context, toolID uuid.UUID) []models.ToolImage {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, tool_id, url, preview_url, public_id, file_name, is_main, position, width, height, created_at
		FROM tool_images
		WHERE tool_id = $1
		ORDER BY position ASC
	`, toolID)

	if err != nil {
		log.Printf("Ошибка запроса изображений: %v", err)
		return nil
	}
	defer rows.Close()

	var images []models.ToolImage
	for rows.Next() {
		var img models.ToolImage
		if err := rows.Scan(
			&img.ID,
			&img.ToolID,
			&img.URL,
			&img.PreviewURL,
			&img.PublicID,
			&img.FileName,
			&img.IsMain,
			&img.Position,
			&img.Width,
			&img.Height,
			&img.CreatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования изображения: %v", err)
			continue
		}
		images = append(images, img)
	}

	return images
}

// getSellerInfo получает публичный профиль продавца
func getSellerInfo(ctx context.Context, sellerID uuid.UUID) *models.PublicProfile {
	var seller models.PublicProfile
	err := db.Pool.QueryRow(ctx, `
		SELECT id, username, COALESCE(full_name, ''), COALESCE(avatar_url, ''), COALESCE(location, ''), is_seller
		FROM users
		WHERE id = $1
	`, sellerID).Scan(
		&seller.ID,
		&seller.Username,
		&seller.FullName,
		&seller.AvatarURL,
		&seller.Location,
		&seller.IsSeller,
	)

	if err != nil {
		log.Printf("Ошибка получения продавца %s: %v", sellerID, err)
		return nil
	}

	return &seller
}

// SearchTools возвращает каталог активных объявлений по фильтру
func (s *ToolService) SearchTools(c fiber.Ctx) error {
	filter := ParseFilter(c)

	ctx, cancel := db.GetContext()
	defer cancel()

	query, args := filter.BuildQuery()
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Ошибка запроса каталога: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения объявлений"})
	}
	defer rows.Close()

	tools := make([]models.Tool, 0)
	for rows.Next() {
		var t models.Tool
		if err := scanTool(rows, &t); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		t.Images = loadImages(ctx, t.ID)
		t.Seller = getSellerInfo(ctx, t.SellerID)
		tools = append(tools, t)
	}

	// Получаем общее количество объявлений для пагинации
	var total int
	countQuery, countArgs := filter.BuildCountQuery()
	if err := db.Pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Printf("Ошибка подсчета объявлений: %v", err)
		// Игнорируем ошибку, просто не вернем общее количество
	}

	return c.JSON(fiber.Map{
		"tools":  tools,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// scanTool сканирует строку результата в модель Tool
func scanTool(row pgx.Row, t *models.Tool) error {
	return row.Scan(
		&t.ID,
		&t.SellerID,
		&t.Name,
		&t.Description,
		&t.Category,
		&t.Condition,
		&t.CurrentPrice,
		&t.OriginalPrice,
		&t.AllowOffers,
		&t.IsVerified,
		&t.IsFeatured,
		&t.IsSold,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
}

// GetTool возвращает детальную информацию об объявлении
func (s *ToolService) GetTool(c fiber.Ctx) error {
	toolID := c.Params("id")

	toolUUID, err := uuid.Parse(toolID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var t models.Tool
	err = scanTool(db.Pool.QueryRow(ctx, `
		SELECT id, seller_id, name, description, category, condition,
		       current_price, original_price, allow_offers, is_verified,
		       is_featured, is_sold, status, created_at, updated_at
		FROM tools
		WHERE id = $1
	`, toolUUID), &t)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено"})
		}
		log.Printf("Ошибка получения объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения объявления"})
	}

	t.Images = loadImages(ctx, t.ID)
	t.Seller = getSellerInfo(ctx, t.SellerID)

	return c.JSON(fiber.Map{"tool": t})
}

// GetMyTools возвращает список объявлений текущего пользователя
func (s *ToolService) GetMyTools(c fiber.Ctx) error {
	sellerID := c.Locals("userID").(uuid.UUID)

	// Параметры фильтрации и пагинации
	status := c.Query("status", "all") // all, active, draft, sold
	limit := utils.ClampLimit(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	ctx, cancel := db.GetContext()
	defer cancel()

	var rows pgx.Rows
	var queryErr error

	switch status {
	case "sold":
		rows, queryErr = db.Pool.Query(ctx, `
			SELECT id, seller_id, name, description, category, condition,
			       current_price, original_price, allow_offers, is_verified,
			       is_featured, is_sold, status, created_at, updated_at
			FROM tools
			WHERE seller_id = $1 AND is_sold = true
			ORDER BY updated_at DESC
			LIMIT $2 OFFSET $3
		`, sellerID, limit, offset)
	case "active", "draft":
		rows, queryErr = db.Pool.Query(ctx, `
			SELECT id, seller_id, name, description, category, condition,
			       current_price, original_price, allow_offers, is_verified,
			       is_featured, is_sold, status, created_at, updated_at
			FROM tools
			WHERE seller_id = $1 AND status = $2
			ORDER BY updated_at DESC
			LIMIT $3 OFFSET $4
		`, sellerID, status, limit, offset)
	default:
		rows, queryErr = db.Pool.Query(ctx, `
			SELECT id, seller_id, name, description, category, condition,
			       current_price, original_price, allow_offers, is_verified,
			       is_featured, is_sold, status, created_at, updated_at
			FROM tools
			WHERE seller_id = $1
			ORDER BY updated_at DESC
			LIMIT $2 OFFSET $3
		`, sellerID, limit, offset)
	}

	if queryErr != nil {
		log.Printf("Ошибка запроса объявлений: %v", queryErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения объявлений"})
	}
	defer rows.Close()

	tools := make([]models.Tool, 0)
	for rows.Next() {
		var t models.Tool
		if err := scanTool(rows, &t); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		t.Images = loadImages(ctx, t.ID)
		tools = append(tools, t)
	}

	return c.JSON(fiber.Map{
		"tools":  tools,
		"count":  len(tools),
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateTool обновляет существующее объявление
func (s *ToolService) UpdateTool(c fiber.Ctx) error {
	toolID := c.Params("id")
	userID := c.Locals("userID").(uuid.UUID)

	toolUUID, err := uuid.Parse(toolID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	var requestData toolRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if msg, ok := validateToolRequest(&requestData); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	// Проверяем, что объявление существует и принадлежит пользователю
	ctx, cancel := db.GetContext()
	defer cancel()

	var ownerID uuid.UUID
	err = db.Pool.QueryRow(ctx, "SELECT seller_id FROM tools WHERE id = $1", toolUUID).Scan(&ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено"})
		}
		log.Printf("Ошибка запроса объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения объявления"})
	}

	if ownerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "У вас нет доступа к редактированию этого объявления"})
	}

	// Начинаем транзакцию
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	// Обновляем основную информацию объявления
	_, err = tx.Exec(ctx, `
		UPDATE tools
		SET name = $1, description = $2, category = $3, condition = $4,
		    current_price = $5, original_price = $6, allow_offers = $7,
		    status = $8, updated_at = NOW()
		WHERE id = $9
	`, requestData.Name, requestData.Description, requestData.Category, requestData.Condition,
		requestData.CurrentPrice, requestData.OriginalPrice, requestData.AllowOffers,
		requestData.Status, toolUUID)

	if err != nil {
		log.Printf("Ошибка обновления объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления объявления"})
	}

	// Если есть изображения, заменяем их целиком
	if len(requestData.Images) > 0 {
		_, err = tx.Exec(ctx, "DELETE FROM tool_images WHERE tool_id = $1", toolUUID)
		if err != nil {
			log.Printf("Ошибка удаления старых изображений: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления изображений"})
		}

		if err := insertImages(ctx, tx, toolUUID, requestData.Images); err != nil {
			log.Printf("Ошибка вставки изображения: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения изображений"})
		}
	}

	// Фиксируем транзакцию
	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"tool_id": toolID,
		"message": "Объявление успешно обновлено",
	})
}

// DeleteTool удаляет объявление
func (s *ToolService) DeleteTool(c fiber.Ctx) error {
	toolID := c.Params("id")
	userID := c.Locals("userID").(uuid.UUID)

	toolUUID, err := uuid.Parse(toolID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	// Проверяем, что объявление существует и принадлежит пользователю
	ctx, cancel := db.GetContext()
	defer cancel()

	var ownerID uuid.UUID
	err = db.Pool.QueryRow(ctx, "SELECT seller_id FROM tools WHERE id = $1", toolUUID).Scan(&ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено"})
		}
		log.Printf("Ошибка запроса объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения объявления"})
	}

	if ownerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "У вас нет доступа к удалению этого объявления"})
	}

	// Начинаем транзакцию
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	// Сначала удаляем связанные изображения
	_, err = tx.Exec(ctx, "DELETE FROM tool_images WHERE tool_id = $1", toolUUID)
	if err != nil {
		log.Printf("Ошибка удаления изображений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления объявления"})
	}

	// Удаляем само объявление
	_, err = tx.Exec(ctx, "DELETE FROM tools WHERE id = $1", toolUUID)
	if err != nil {
		log.Printf("Ошибка удаления объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления объявления"})
	}

	// Фиксируем транзакцию
	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Объявление успешно удалено",
	})
}
