package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/benchlot/benchlot-api/internal/models"
)

// ErrUserNotFound возвращается, когда пользователь не найден
var ErrUserNotFound = pgx.ErrNoRows

// CreateUser создает нового пользователя с email и хешем пароля
func CreateUser(email, passwordHash, username, fullName string) (*models.User, error) {
	ctx, cancel := GetContext()
	defer cancel()

	// Начинаем транзакцию
	tx, err := Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Проверяем, не занят ли email или username
	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 OR username = $2)
	`, email, username).Scan(&exists)

	if err != nil {
		return nil, fmt.Errorf("ошибка при проверке существования пользователя: %w", err)
	}

	if exists {
		return nil, fmt.Errorf("пользователь с таким email или именем уже существует")
	}

	user := &models.User{}
	err = tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, username, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, username, full_name, is_seller, created_at, updated_at
	`, email, passwordHash, username, fullName).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.FullName,
		&user.IsSeller,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return user, nil
}

// GetUserByEmail возвращает пользователя и хеш пароля по email
func GetUserByEmail(email string) (*models.User, string, error) {
	ctx, cancel := GetContext()
	defer cancel()

	user := &models.User{}
	var passwordHash string
	var fullName, avatarURL, location, stripeAccountID pgtype.Text
	var preferences []byte

	err := Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, username, full_name, avatar_url, location,
		       is_seller, stripe_account_id, preferences, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(
		&user.ID,
		&user.Email,
		&passwordHash,
		&user.Username,
		&fullName,
		&avatarURL,
		&location,
		&user.IsSeller,
		&stripeAccountID,
		&preferences,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, "", err
	}

	user.FullName = fullName.String
	user.AvatarURL = avatarURL.String
	user.Location = location.String
	user.StripeAccountID = stripeAccountID.String
	user.Preferences = preferences

	return user, passwordHash, nil
}

// GetUserByID возвращает пользователя по ID
func GetUserByID(userID uuid.UUID) (*models.User, error) {
	ctx, cancel := GetContext()
	defer cancel()

	user := &models.User{}
	var fullName, avatarURL, location, stripeAccountID pgtype.Text
	var preferences []byte

	err := Pool.QueryRow(ctx, `
		SELECT id, email, username, full_name, avatar_url, location,
		       is_seller, stripe_account_id, preferences, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&fullName,
		&avatarURL,
		&location,
		&user.IsSeller,
		&stripeAccountID,
		&preferences,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	user.FullName = fullName.String
	user.AvatarURL = avatarURL.String
	user.Location = location.String
	user.StripeAccountID = stripeAccountID.String
	user.Preferences = preferences

	return user, nil
}

// UpdateProfile обновляет профиль пользователя
func UpdateProfile(userID uuid.UUID, fullName, avatarURL, location string, preferences json.RawMessage) (*models.User, error) {
	ctx, cancel := GetContext()
	defer cancel()

	var prefs []byte
	if preferences != nil {
		prefs = preferences
	}

	_, err := Pool.Exec(ctx, `
		UPDATE users
		SET full_name = $1, avatar_url = $2, location = $3,
		    preferences = COALESCE($4, preferences), updated_at = NOW()
		WHERE id = $5
	`, fullName, avatarURL, location, prefs, userID)

	if err != nil {
		return nil, fmt.Errorf("ошибка при обновлении профиля: %w", err)
	}

	return GetUserByID(userID)
}

// SetStripeAccount сохраняет ID Stripe-аккаунта продавца и помечает его как продавца
func SetStripeAccount(userID uuid.UUID, stripeAccountID string) error {
	ctx, cancel := GetContext()
	defer cancel()

	_, err := Pool.Exec(ctx, `
		UPDATE users
		SET stripe_account_id = $1, is_seller = true, updated_at = NOW()
		WHERE id = $2
	`, stripeAccountID, userID)

	if err != nil {
		return fmt.Errorf("ошибка при сохранении Stripe аккаунта: %w", err)
	}

	return nil
}

// CreatePasswordReset создает одноразовый токен для сброса пароля
func CreatePasswordReset(userID uuid.UUID) (string, error) {
	ctx, cancel := GetContext()
	defer cancel()

	token := uuid.New().String()
	expiresAt := time.Now().Add(1 * time.Hour)

	_, err := Pool.Exec(ctx, `
		INSERT INTO password_resets (user_id, token, expires_at)
		VALUES ($1, $2, $3)
	`, userID, token, expiresAt)

	if err != nil {
		return "", fmt.Errorf("ошибка при создании токена сброса пароля: %w", err)
	}

	return token, nil
}

// CompletePasswordReset проверяет токен и устанавливает новый хеш пароля
func CompletePasswordReset(token, passwordHash string) error {
	ctx, cancel := GetContext()
	defer cancel()

	tx, err := Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID uuid.UUID
	var expiresAt time.Time
	var usedAt *time.Time

	err = tx.QueryRow(ctx, `
		SELECT user_id, expires_at, used_at FROM password_resets WHERE token = $1
	`, token).Scan(&userID, &expiresAt, &usedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("токен сброса пароля не найден")
		}
		return fmt.Errorf("ошибка при проверке токена: %w", err)
	}

	if usedAt != nil || time.Now().After(expiresAt) {
		return fmt.Errorf("токен сброса пароля истек или уже использован")
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, passwordHash, userID)

	if err != nil {
		return fmt.Errorf("ошибка при обновлении пароля: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE password_resets SET used_at = NOW() WHERE token = $1
	`, token)

	if err != nil {
		return fmt.Errorf("ошибка при отметке токена: %w", err)
	}

	return tx.Commit(ctx)
}
