package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// Публичный профиль содержит только открытые поля: ни email,
// ни платежных данных в нем нет
func TestUserPublic(t *testing.T) {
	u := User{
		ID:              uuid.New(),
		Email:           "seller@example.com",
		Username:        "woodworker",
		FullName:        "Михаил Столяров",
		AvatarURL:       "https://example.com/avatar.jpg",
		Location:        "Boston, MA",
		IsSeller:        true,
		StripeAccountID: "acct_123",
	}

	p := u.Public()

	if p.ID != u.ID || p.Username != u.Username || p.FullName != u.FullName {
		t.Errorf("публичный профиль не совпадает с пользователем: %+v", p)
	}
	if p.AvatarURL != u.AvatarURL || p.Location != u.Location || !p.IsSeller {
		t.Errorf("публичный профиль не совпадает с пользователем: %+v", p)
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("ошибка сериализации: %v", err)
	}
	if !strings.Contains(string(data), "example.com/avatar") {
		t.Errorf("в профиле нет аватара: %s", data)
	}
	if strings.Contains(string(data), u.Email) || strings.Contains(string(data), "acct_123") {
		t.Errorf("закрытые поля попали в публичный профиль: %s", data)
	}
}
