package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/benchlot/benchlot-api/internal/utils"
)

const testSecret = "test-secret"

func newAuthApp(t *testing.T) (*fiber.App, *uuid.UUID) {
	t.Helper()

	var gotID uuid.UUID
	app := fiber.New()
	app.Get("/protected", func(c fiber.Ctx) error {
		// Middleware кладет в Locals уже разобранный UUID
		id, ok := c.Locals("userID").(uuid.UUID)
		if !ok {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "userID не uuid.UUID"})
		}
		gotID = id
		return c.JSON(fiber.Map{"success": true})
	}, AuthMiddleware(utils.NewJWTService(testSecret)))

	return app, &gotID
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	app, gotID := newAuthApp(t)

	userID := uuid.New()
	token, err := utils.NewJWTService(testSecret).GenerateToken(userID.String())
	if err != nil {
		t.Fatalf("ошибка генерации токена: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("ошибка запроса: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("статус %d, ожидался 200", resp.StatusCode)
	}
	if *gotID != userID {
		t.Errorf("userID в Locals %v, ожидался %v", *gotID, userID)
	}
}

func TestAuthMiddlewareRejectsBadHeaders(t *testing.T) {
	app, _ := newAuthApp(t)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"без заголовка", "", "missing_token"},
		{"не Bearer", "Basic abc123", "invalid_token"},
		{"мусор вместо токена", "Bearer not-a-jwt", "invalid_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("ошибка запроса: %v", err)
			}
			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Fatalf("статус %d, ожидался 401", resp.StatusCode)
			}

			var body struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("ошибка декодирования ответа: %v", err)
			}
			if body.Code != tt.code {
				t.Errorf("code %q, ожидался %q", body.Code, tt.code)
			}
		})
	}
}

// Истекший токен получает отдельный код и адрес возврата,
// чтобы клиент мог вернуть пользователя на ту же страницу после входа
func TestAuthMiddlewareExpiredSession(t *testing.T) {
	app, _ := newAuthApp(t)

	claims := jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("ошибка генерации токена: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+expired)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("ошибка запроса: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("статус %d, ожидался 401", resp.StatusCode)
	}

	var body struct {
		Code     string `json:"code"`
		ReturnTo string `json:"return_to"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("ошибка декодирования ответа: %v", err)
	}
	if body.Code != "session_expired" {
		t.Errorf("code %q, ожидался session_expired", body.Code)
	}
	if body.ReturnTo != "/protected" {
		t.Errorf("return_to %q, ожидался /protected", body.ReturnTo)
	}
}
