package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/benchlot/benchlot-api/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Источник проверяется на уровне CORS основного API
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS возвращает HTTP-обработчик для подключения к потоку уведомлений.
// Токен передается в query-параметре, т.к. браузерный WebSocket API не
// позволяет задать заголовок Authorization.
func ServeWS(manager *Manager, jwtService *utils.JWTService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}

		userID, err := jwtService.ExtractUserID(token)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Ошибка апгрейда WebSocket: %v", err)
			return
		}

		client := NewClient(userID, conn, manager)
		client.Start()

		// Подтверждаем подключение
		manager.SendToUser(userID, Event{
			Type:      EventConnected,
			UserID:    userID,
			Timestamp: time.Now(),
		})
	}
}
