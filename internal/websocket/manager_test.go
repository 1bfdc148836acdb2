package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

// readEvent ждет событие из очереди отправки клиента
func readEvent(t *testing.T, c *Client) Event {
	t.Helper()

	select {
	case data := <-c.send:
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("ошибка декодирования события: %v", err)
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("событие не отправлено клиенту")
		return Event{}
	}
}

func TestBroadcastUnreadCount(t *testing.T) {
	m := NewManager()

	client := NewClient("user-1", nil, m)
	m.AddClient(client)

	m.BroadcastUnreadCount("user-1", 5)

	event := readEvent(t, client)
	if event.Type != EventUnreadCount {
		t.Errorf("тип события %q, ожидался %q", event.Type, EventUnreadCount)
	}
	if event.UserID != "user-1" {
		t.Errorf("user_id события %q, ожидался user-1", event.UserID)
	}

	payload, ok := event.Payload.(map[string]interface{})
	if !ok {
		t.Fatalf("неожиданный формат payload: %+v", event.Payload)
	}
	if count, _ := payload["count"].(float64); count != 5 {
		t.Errorf("count = %v, ожидалось 5", payload["count"])
	}
}

// Событие для не подключенного пользователя молча пропадает
func TestBroadcastUnreadCountOfflineUser(t *testing.T) {
	m := NewManager()

	client := NewClient("user-1", nil, m)
	m.AddClient(client)
	m.RemoveClient(client.ID)

	m.BroadcastUnreadCount("user-1", 3)

	select {
	case data := <-client.send:
		t.Errorf("отключенный клиент получил событие: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}
