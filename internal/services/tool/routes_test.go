package tool

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/benchlot/benchlot-api/internal/config"
)

func newTestApp() *fiber.App {
	cfg := &config.Config{JWTSecret: "test-secret"}
	s := NewToolService(cfg)

	app := fiber.New()
	s.SetupRoutes(app)
	s.SetupPublicRoutes(app)
	return app
}

// Каталог доступен без токена: запрос с невалидным ID доходит до
// обработчика и отклоняется им самим, а не middleware авторизации
func TestCatalogRoutesArePublic(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/api/tools/not-a-uuid", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("ошибка запроса: %v", err)
	}

	if resp.StatusCode == fiber.StatusUnauthorized {
		t.Fatal("публичный маршрут каталога требует авторизацию")
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("статус %d, ожидался 400 от обработчика", resp.StatusCode)
	}
}

func TestProtectedToolRoutesRequireToken(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		method string
		path   string
	}{
		{"POST", "/api/tools/"},
		{"GET", "/api/tools/my"},
		{"PUT", "/api/tools/not-a-uuid"},
		{"DELETE", "/api/tools/not-a-uuid"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s %s: ошибка запроса: %v", tt.method, tt.path, err)
		}

		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("%s %s без токена: статус %d, ожидался 401", tt.method, tt.path, resp.StatusCode)
		}
	}
}
