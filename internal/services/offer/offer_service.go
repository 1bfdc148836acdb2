package offer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/benchlot/benchlot-api/internal/config"
	"github.com/benchlot/benchlot-api/internal/db"
	"github.com/benchlot/benchlot-api/internal/models"
	"github.com/benchlot/benchlot-api/internal/utils"
	"github.com/benchlot/benchlot-api/internal/websocket"
)

// OfferService представляет сервис для работы с предложениями цены
type OfferService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	wsManager  *websocket.Manager
}

// NewOfferService создает новый экземпляр OfferService
func NewOfferService(cfg *config.Config, wsManager *websocket.Manager) *OfferService {
	return &OfferService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		wsManager:  wsManager,
	}
}

// CreateOffer создает новое предложение цены на инструмент
func (s *OfferService) CreateOffer(c fiber.Ctx) error {
	buyerID := c.Locals("userID").(uuid.UUID)

	var requestData struct {
		ToolID string  `json:"tool_id"`
		Amount float64 `json:"amount"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Сумма предложения должна быть больше нуля"})
	}

	toolID, err := uuid.Parse(requestData.ToolID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем объявление: активно, принимает предложения, не свое
	var sellerID uuid.UUID
	var allowOffers, isSold bool
	var toolName string
	err = db.Pool.QueryRow(ctx, `
		SELECT seller_id, allow_offers, is_sold, name FROM tools WHERE id = $1 AND status = 'active'
	`, toolID).Scan(&sellerID, &allowOffers, &isSold, &toolName)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Объявление не найдено"})
		}
		log.Printf("Ошибка запроса объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки объявления"})
	}

	if !allowOffers {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Продавец не принимает предложения по этому объявлению"})
	}

	if isSold {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Инструмент уже продан"})
	}

	if sellerID == buyerID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нельзя сделать предложение на свое объявление"})
	}

	// Проверяем, нет ли уже активного предложения от этого покупателя
	var existingCount int
	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM offers
		WHERE tool_id = $1 AND buyer_id = $2 AND status IN ('pending', 'countered')
	`, toolID, buyerID).Scan(&existingCount)

	if err != nil {
		log.Printf("Ошибка проверки существующих предложений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки предложений"})
	}

	if existingCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "У вас уже есть активное предложение по этому объявлению"})
	}

	// Начинаем транзакцию
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	offerID := uuid.New()

	_, err = tx.Exec(ctx, `
		INSERT INTO offers (id, tool_id, buyer_id, seller_id, amount, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
	`, offerID, toolID, buyerID, sellerID, requestData.Amount)

	if err != nil {
		log.Printf("Ошибка создания предложения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения предложения"})
	}

	// Предложение всегда сопровождается сообщением типа offer
	content := fmt.Sprintf("Предложение $%.2f за \"%s\"", requestData.Amount, toolName)
	if err := appendOfferMessage(ctx, tx, buyerID, sellerID, toolID, offerID, models.MessageTypeOffer, content); err != nil {
		log.Printf("Ошибка создания сообщения о предложении: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения предложения"})
	}

	// Фиксируем транзакцию
	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	// Уведомляем продавца
	if s.wsManager != nil {
		s.wsManager.SendToUser(sellerID.String(), websocket.Event{
			Type: websocket.EventOfferUpdate,
			Payload: fiber.Map{
				"offer_id": offerID,
				"tool_id":  toolID,
				"status":   models.OfferStatusPending,
			},
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"offer_id": offerID,
		"message":  "Предложение успешно отправлено",
	})
}

// GetMyOffers возвращает входящие и исходящие предложения пользователя
func (s *OfferService) GetMyOffers(c fiber.Ctx) error {
	userUUID := c.Locals("userID").(uuid.UUID)

	// Получаем тип предложений (входящие/исходящие/все)
	offerType := c.Query("type", "all") // all, incoming, outgoing
	status := c.Query("status", "all")  // all, pending, countered, accepted, rejected

	ctx, cancel := db.GetContext()
	defer cancel()

	baseQuery := `
		SELECT o.id, o.tool_id, o.buyer_id, o.seller_id, o.amount, o.counter_amount,
		       o.status, o.created_at, o.updated_at
		FROM offers o
	`

	var query string
	var args []interface{}

	switch offerType {
	case "incoming":
		query = baseQuery + " WHERE o.seller_id = $1"
		args = []interface{}{userUUID}
	case "outgoing":
		query = baseQuery + " WHERE o.buyer_id = $1"
		args = []interface{}{userUUID}
	default:
		query = baseQuery + " WHERE (o.buyer_id = $1 OR o.seller_id = $1)"
		args = []interface{}{userUUID}
	}

	if status != "all" {
		args = append(args, status)
		query += fmt.Sprintf(" AND o.status = $%d", len(args))
	}

	query += " ORDER BY o.created_at DESC"

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Ошибка запроса предложений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложений"})
	}
	defer rows.Close()

	offers := make([]models.Offer, 0)
	for rows.Next() {
		var o models.Offer
		if err := rows.Scan(
			&o.ID,
			&o.ToolID,
			&o.BuyerID,
			&o.SellerID,
			&o.Amount,
			&o.CounterAmount,
			&o.Status,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		o.Tool = getToolInfo(ctx, o.ToolID)
		o.Buyer = getUserInfo(ctx, o.BuyerID)
		o.Seller = getUserInfo(ctx, o.SellerID)
		offers = append(offers, o)
	}

	return c.JSON(fiber.Map{
		"offers": offers,
		"count":  len(offers),
	})
}

// RespondToOffer обрабатывает ответ на предложение: accept, reject или counter.
// На pending отвечает продавец; на countered - покупатель (принимает или
// отклоняет встречную цену).
func (s *OfferService) RespondToOffer(c fiber.Ctx) error {
	userUUID := c.Locals("userID").(uuid.UUID)
	offerID := c.Params("id")

	offerUUID, err := uuid.Parse(offerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения"})
	}

	var requestData struct {
		Action        string  `json:"action"` // accept, reject, counter
		CounterAmount float64 `json:"counter_amount"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.Action == models.OfferActionCounter && requestData.CounterAmount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Встречная цена должна быть больше нуля"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var offer models.Offer
	err = db.Pool.QueryRow(ctx, `
		SELECT id, tool_id, buyer_id, seller_id, amount, counter_amount, status
		FROM offers
		WHERE id = $1
	`, offerUUID).Scan(
		&offer.ID,
		&offer.ToolID,
		&offer.BuyerID,
		&offer.SellerID,
		&offer.Amount,
		&offer.CounterAmount,
		&offer.Status,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение не найдено"})
		}
		log.Printf("Ошибка запроса предложения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложения"})
	}

	// Проверяем легальность перехода до любой записи
	if err := offer.ValidateResponse(userUUID, requestData.Action); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	newStatus := models.NextStatus(requestData.Action)

	// Начинаем транзакцию
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	if requestData.Action == models.OfferActionCounter {
		_, err = tx.Exec(ctx, `
			UPDATE offers SET status = $1, counter_amount = $2, updated_at = NOW() WHERE id = $3
		`, newStatus, requestData.CounterAmount, offerUUID)
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE offers SET status = $1, updated_at = NOW() WHERE id = $2
		`, newStatus, offerUUID)
	}

	if err != nil {
		log.Printf("Ошибка обновления статуса предложения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления предложения"})
	}

	// Принятое предложение помечает инструмент проданным и фиксирует продажу
	if newStatus == models.OfferStatusAccepted {
		finalAmount := offer.Amount
		if offer.Status == models.OfferStatusCountered && offer.CounterAmount != nil {
			finalAmount = *offer.CounterAmount
		}

		_, err = tx.Exec(ctx, `
			UPDATE tools SET is_sold = true, updated_at = NOW() WHERE id = $1
		`, offer.ToolID)

		if err != nil {
			log.Printf("Ошибка отметки инструмента проданным: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления объявления"})
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO sales (id, tool_id, seller_id, buyer_id, amount, offer_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New(), offer.ToolID, offer.SellerID, offer.BuyerID, finalAmount, offerUUID)

		if err != nil {
			log.Printf("Ошибка записи продажи: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка записи продажи"})
		}
	}

	// Каждый переход сопровождается сообщением типа offer_response
	recipientID := offer.BuyerID
	if userUUID == offer.BuyerID {
		recipientID = offer.SellerID
	}

	content := responseMessage(requestData.Action, requestData.CounterAmount)
	if err := appendOfferMessage(ctx, tx, userUUID, recipientID, offer.ToolID, offerUUID, models.MessageTypeOfferResponse, content); err != nil {
		log.Printf("Ошибка создания сообщения об ответе: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения ответа"})
	}

	// Фиксируем транзакцию
	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	// Уведомляем вторую сторону
	if s.wsManager != nil {
		s.wsManager.SendToUser(recipientID.String(), websocket.Event{
			Type: websocket.EventOfferUpdate,
			Payload: fiber.Map{
				"offer_id": offerUUID,
				"tool_id":  offer.ToolID,
				"status":   newStatus,
			},
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"offer_id": offerID,
		"status":   newStatus,
	})
}

// responseMessage формирует текст сообщения об ответе на предложение
func responseMessage(action string, counterAmount float64) string {
	switch action {
	case models.OfferActionAccept:
		return "Предложение принято"
	case models.OfferActionReject:
		return "Предложение отклонено"
	case models.OfferActionCounter:
		return fmt.Sprintf("Встречное предложение: $%.2f", counterAmount)
	}
	return ""
}

// appendOfferMessage добавляет сообщение, связанное с предложением, в рамках транзакции
func appendOfferMessage(ctx context.Context, tx pgx.Tx, senderID, recipientID, toolID, offerID uuid.UUID, messageType, content string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, tool_id, content, message_type, offer_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8)
	`, uuid.New(), senderID, recipientID, toolID, content, messageType, offerID, time.Now())
	return err
}

// getToolInfo получает краткую информацию об объявлении
func getToolInfo(ctx context.Context, toolID uuid.UUID) *models.Tool {
	var t models.Tool
	err := db.Pool.QueryRow(ctx, `
		SELECT id, seller_id, name, category, condition, current_price, allow_offers, is_sold, status
		FROM tools
		WHERE id = $1
	`, toolID).Scan(
		&t.ID,
		&t.SellerID,
		&t.Name,
		&t.Category,
		&t.Condition,
		&t.CurrentPrice,
		&t.AllowOffers,
		&t.IsSold,
		&t.Status,
	)

	if err != nil {
		log.Printf("Ошибка получения объявления %s: %v", toolID, err)
		return nil
	}

	// Основное изображение для карточки предложения
	rows, err := db.Pool.Query(ctx, `
		SELECT id, url, preview_url, is_main
		FROM tool_images
		WHERE tool_id = $1
		ORDER BY position ASC
	`, toolID)

	if err != nil {
		log.Printf("Ошибка получения изображений: %v", err)
	} else {
		defer rows.Close()

		var images []models.ToolImage
		for rows.Next() {
			var image models.ToolImage
			if err := rows.Scan(&image.ID, &image.URL, &image.PreviewURL, &image.IsMain); err != nil {
				log.Printf("Ошибка сканирования изображения: %v", err)
				continue
			}
			image.ToolID = toolID
			images = append(images, image)
		}
		t.Images = images
	}

	return &t
}

// getUserInfo получает публичный профиль пользователя
func getUserInfo(ctx context.Context, userID uuid.UUID) *models.PublicProfile {
	var user models.PublicProfile
	err := db.Pool.QueryRow(ctx, `
		SELECT id, username, COALESCE(full_name, ''), COALESCE(avatar_url, ''), COALESCE(location, ''), is_seller
		FROM users
		WHERE id = $1
	`, userID).Scan(
		&user.ID,
		&user.Username,
		&user.FullName,
		&user.AvatarURL,
		&user.Location,
		&user.IsSeller,
	)

	if err != nil {
		log.Printf("Ошибка получения пользователя %s: %v", userID, err)
		return nil
	}

	return &user
}
