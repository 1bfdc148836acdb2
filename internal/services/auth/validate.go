package auth

import (
	"errors"
	"strings"
)

// Ошибки валидации формы регистрации. Проверяются до любого обращения к базе:
// невалидная форма не должна порождать ни одного сетевого вызова.
var (
	ErrEmailRequired    = errors.New("Email is required")
	ErrEmailInvalid     = errors.New("Please enter a valid email address")
	ErrUsernameTooShort = errors.New("Username must be at least 3 characters")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("Passwords do not match")
)

// SignupForm представляет данные формы регистрации
type SignupForm struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Username        string `json:"username"`
	FullName        string `json:"full_name"`
}

// Validate проверяет форму регистрации и возвращает первую найденную ошибку
func (f *SignupForm) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	f.Username = strings.TrimSpace(f.Username)

	if f.Email == "" {
		return ErrEmailRequired
	}
	if !validEmail(f.Email) {
		return ErrEmailInvalid
	}
	if len(f.Username) < 3 {
		return ErrUsernameTooShort
	}
	if len(f.Password) < 6 {
		return ErrPasswordTooShort
	}
	if f.Password != f.ConfirmPassword {
		return ErrPasswordMismatch
	}

	return nil
}

// validEmail выполняет минимальную проверку формата email
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.Contains(email, " ") {
		return false
	}
	return true
}
