package message

import (
	"context"
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

// MessageService представляет сервис для работы с сообщениями
type MessageService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	wsManager  *websocket.Manager
}

// NewMessageService создает новый экземпляр MessageService
func NewMessageService(cfg *config.Config, wsManager *websocket.Manager) *MessageService {
	return &MessageService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		wsManager:  wsManager,
	}
}

// GetConversations возвращает список диалогов пользователя.
// Диалог - производная группировка сообщений по собеседнику, в базе не хранится.
func (s *MessageService) GetConversations(c fiber.Ctx) error {
	userUUID := c.Locals("userID").(uuid.UUID)

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, sender_id, recipient_id, tool_id, content, message_type, offer_id, is_read, created_at
		FROM messages
		WHERE sender_id = $1 OR recipient_id = $1
		ORDER BY created_at DESC
	`, userUUID)

	if err != nil {
		log.Printf("Ошибка запроса сообщений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения диалогов"})
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := scanMessage(rows, &msg); err != nil {
			log.Printf("Ошибка сканирования сообщения: %v", err)
			continue
		}
		messages = append(messages, msg)
	}

	conversations := models.BuildConversations(userUUID, messages)

	// Подгружаем профили собеседников
	for i := range conversations {
		conversations[i].OtherUser = getUserInfo(conversations[i].OtherUserID)
	}

	return c.JSON(fiber.Map{
		"conversations": conversations,
		"count":         len(conversations),
	})
}

// GetThread возвращает переписку с конкретным пользователем и помечает
// входящие сообщения прочитанными
func (s *MessageService) GetThread(c fiber.Ctx) error {
	userUUID := c.Locals("userID").(uuid.UUID)
	otherID := c.Params("userID")

	otherUUID, err := uuid.Parse(otherID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID собеседника"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, sender_id, recipient_id, tool_id, content, message_type, offer_id, is_read, created_at
		FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at ASC
	`, userUUID, otherUUID)

	if err != nil {
		log.Printf("Ошибка запроса переписки: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения переписки"})
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := scanMessage(rows, &msg); err != nil {
			log.Printf("Ошибка сканирования сообщения: %v", err)
			continue
		}
		messages = append(messages, msg)
	}

	// Помечаем входящие сообщения прочитанными
	_, err = db.Pool.Exec(ctx, `
		UPDATE messages
		SET is_read = true
		WHERE recipient_id = $1 AND sender_id = $2 AND is_read = false
	`, userUUID, otherUUID)

	if err != nil {
		log.Printf("Ошибка отметки сообщений прочитанными: %v", err)
		// Не возвращаем ошибку, переписка уже получена
	} else {
		// Счетчик непрочитанных на других вкладках пользователя устарел
		s.notifyUnread(ctx, userUUID)
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"count":    len(messages),
		"user":     getUserInfo(otherUUID),
	})
}

// SendMessage отправляет сообщение пользователю
func (s *MessageService) SendMessage(c fiber.Ctx) error {
	senderID := c.Locals("userID").(uuid.UUID)

	var requestData struct {
		RecipientID string `json:"recipient_id"`
		Content     string `json:"content"`
		MessageType string `json:"message_type"`
		ToolID      string `json:"tool_id"`
		OfferID     string `json:"offer_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Текст сообщения не может быть пустым"})
	}

	recipientID, err := uuid.Parse(requestData.RecipientID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID получателя"})
	}

	if recipientID == senderID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нельзя отправить сообщение самому себе"})
	}

	if requestData.MessageType == "" {
		requestData.MessageType = models.MessageTypeText
	}

	if !models.ValidMessageType(requestData.MessageType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый тип сообщения"})
	}

	// Сообщение типа offer всегда ссылается ровно на одно предложение
	var offerID *uuid.UUID
	if requestData.OfferID != "" {
		parsed, err := uuid.Parse(requestData.OfferID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения"})
		}
		offerID = &parsed
	}

	if requestData.MessageType == models.MessageTypeOffer && offerID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Сообщение о предложении должно ссылаться на предложение"})
	}

	var toolID *uuid.UUID
	if requestData.ToolID != "" {
		parsed, err := uuid.Parse(requestData.ToolID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID объявления"})
		}
		toolID = &parsed
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем, что получатель существует
	var exists bool
	err = db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, recipientID).Scan(&exists)
	if err != nil {
		log.Printf("Ошибка проверки получателя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка отправки сообщения"})
	}

	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Получатель не найден"})
	}

	// Создаем новое сообщение
	messageID := uuid.New()
	now := time.Now()

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, tool_id, content, message_type, offer_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8)
	`, messageID, senderID, recipientID, toolID, requestData.Content, requestData.MessageType, offerID, now)

	if err != nil {
		log.Printf("Ошибка создания сообщения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения сообщения"})
	}

	message := models.Message{
		ID:          messageID,
		SenderID:    senderID,
		RecipientID: recipientID,
		ToolID:      toolID,
		Content:     requestData.Content,
		MessageType: requestData.MessageType,
		OfferID:     offerID,
		IsRead:      false,
		CreatedAt:   now,
		Sender:      getUserInfo(senderID),
	}

	// Уведомляем получателя через WebSocket
	if s.wsManager != nil {
		s.wsManager.SendToUser(recipientID.String(), websocket.Event{
			Type:    websocket.EventNewMessage,
			Payload: message,
		})
	}
	s.notifyUnread(ctx, recipientID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// GetUnreadCount возвращает общее количество непрочитанных сообщений
func (s *MessageService) GetUnreadCount(c fiber.Ctx) error {
	userUUID := c.Locals("userID").(uuid.UUID)

	ctx, cancel := db.GetContext()
	defer cancel()

	count, err := unreadCount(ctx, userUUID)

	if err != nil {
		log.Printf("Ошибка подсчета непрочитанных: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка подсчета непрочитанных сообщений"})
	}

	return c.JSON(fiber.Map{"unread_count": count})
}

// scanMessage сканирует строку результата в модель Message
func scanMessage(row pgx.Row, msg *models.Message) error {
	return row.Scan(
		&msg.ID,
		&msg.SenderID,
		&msg.RecipientID,
		&msg.ToolID,
		&msg.Content,
		&msg.MessageType,
		&msg.OfferID,
		&msg.IsRead,
		&msg.CreatedAt,
	)
}

// unreadCount считает непрочитанные сообщения пользователя
func unreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND is_read = false
	`, userID).Scan(&count)
	return count, err
}

// notifyUnread отправляет подключенным клиентам пользователя его актуальный
// счетчик непрочитанных
func (s *MessageService) notifyUnread(ctx context.Context, userID uuid.UUID) {
	if s.wsManager == nil {
		return
	}

	count, err := unreadCount(ctx, userID)
	if err != nil {
		log.Printf("Ошибка подсчета непрочитанных: %v", err)
		return
	}

	s.wsManager.BroadcastUnreadCount(userID.String(), count)
}

// getUserInfo получает публичный профиль пользователя
func getUserInfo(userID uuid.UUID) *models.PublicProfile {
	user, err := db.GetUserByID(userID)
	if err != nil {
		log.Printf("Ошибка получения пользователя %s: %v", userID, err)
		return nil
	}

	profile := user.Public()
	return &profile
}
