package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestFetchToolsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tools" {
			t.Errorf("неожиданный путь %s", r.URL.Path)
		}
		if r.URL.Query().Get("category") != "table_saws" {
			t.Errorf("не передана категория: %s", r.URL.RawQuery)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"tools": [{"id": "a2a61b81-3a67-4ddc-a3f5-0d8121d53a31", "name": "SawStop PCS", "current_price": 2400}],
			"total": 1, "limit": 20, "offset": 0
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	result, err := c.FetchTools(context.Background(), Filter{Category: "table_saws"})
	if err != nil {
		t.Fatalf("FetchTools() = %v", err)
	}

	if len(result.Tools) != 1 || result.Tools[0].Name != "SawStop PCS" {
		t.Errorf("неожиданный результат: %+v", result.Tools)
	}
	if result.Total != 1 {
		t.Errorf("total = %d, ожидалось 1", result.Total)
	}
}

// Пустой каталог возвращает пустой срез и nil-ошибку: вызывающая сторона
// отличает "ничего не найдено" от ошибки загрузки.
func TestFetchToolsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tools": [], "total": 0, "limit": 20, "offset": 0}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	result, err := c.FetchTools(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("FetchTools() = %v", err)
	}

	if result.Tools == nil {
		t.Fatal("Tools == nil, ожидался пустой срез")
	}
	if len(result.Tools) != 0 {
		t.Errorf("получено %d объявлений, ожидалось 0", len(result.Tools))
	}
}

func TestErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "Объявление не найдено"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.FetchTool(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("ожидалась ошибка")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ошибка не *APIError: %T", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("статус %d, ожидалось 404", apiErr.Status)
	}
	if apiErr.Message != "Объявление не найдено" {
		t.Errorf("сообщение %q", apiErr.Message)
	}
}

// Ответ с ошибкой без тела превращается в общее сообщение
func TestErrorFallbackMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.GetDashboardStats(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ошибка не *APIError: %T", err)
	}
	if apiErr.Message == "" {
		t.Error("сообщение ошибки пустое, ожидался общий текст")
	}
}

func TestSignInStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token": "jwt-token", "user": {"id": "a2a61b81-3a67-4ddc-a3f5-0d8121d53a31", "username": "woodworker"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	result, err := c.SignIn(context.Background(), "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignIn() = %v", err)
	}

	if result.User == nil || result.User.Username != "woodworker" {
		t.Errorf("неожиданный пользователь: %+v", result.User)
	}
	if c.Token() != "jwt-token" {
		t.Errorf("токен не сохранен: %q", c.Token())
	}

	c.SignOut()
	if c.Token() != "" {
		t.Error("токен не сброшен после выхода")
	}
}

func TestAuthorizationHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer jwt-token" {
			t.Errorf("заголовок Authorization: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"unread_count": 3}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	c.SetToken("jwt-token")

	count, err := c.UnreadCount(context.Background())
	if err != nil {
		t.Fatalf("UnreadCount() = %v", err)
	}
	if count != 3 {
		t.Errorf("unread_count = %d, ожидалось 3", count)
	}
}

func TestRespondToOffer(t *testing.T) {
	offerID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/api/offers/" + offerID.String() + "/respond"
		if r.URL.Path != wantPath {
			t.Errorf("путь %s, ожидался %s", r.URL.Path, wantPath)
		}
		if r.Method != http.MethodPut {
			t.Errorf("метод %s, ожидался PUT", r.Method)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "status": "countered"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	c.SetToken("jwt-token")

	status, err := c.RespondToOffer(context.Background(), offerID, OfferResponseParams{
		Action:        "counter",
		CounterAmount: 150,
	})
	if err != nil {
		t.Fatalf("RespondToOffer() = %v", err)
	}
	if status != "countered" {
		t.Errorf("статус %q, ожидалось countered", status)
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(server.URL)
	if _, err := c.Conversations(ctx); err == nil {
		t.Error("запрос с отмененным контекстом должен вернуть ошибку")
	}
}
