// Package client предоставляет типизированный клиент Benchlot API.
// Каждая операция выполняет один сетевой запрос без повторов: решение о
// повторе или отображении ошибки принимает вызывающая сторона.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/benchlot/benchlot-api/internal/models"
)

const defaultTimeout = 15 * time.Second

// APIError представляет нормализованную ошибку API
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client представляет клиент Benchlot API
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient создает новый клиент API
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SetToken устанавливает JWT для последующих запросов
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token возвращает текущий JWT
func (c *Client) Token() string {
	return c.token
}

// do выполняет запрос и декодирует ответ. Любой статус вне 2xx превращается
// в *APIError с сообщением из тела ответа или общим текстом.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.decode(resp, out)
}

// decode разбирает тело ответа в out или возвращает *APIError
func (c *Client) decode(resp *http.Response, out interface{}) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: "Сервис временно недоступен"}

		var envelope struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
			apiErr.Code = envelope.Code
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// AuthResult представляет результат входа или регистрации
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// SignupParams представляет данные формы регистрации
type SignupParams struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	FullName        string `json:"full_name,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// SignUp регистрирует нового пользователя и сохраняет выданный токен
func (c *Client) SignUp(ctx context.Context, params SignupParams) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", nil, params, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

// SignIn выполняет вход по email и паролю и сохраняет выданный токен
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	payload := map[string]string{"email": email, "password": password}

	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", nil, payload, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

// SignOut сбрасывает сохраненный токен. Сервер не хранит сессий,
// поэтому достаточно забыть JWT на стороне клиента.
func (c *Client) SignOut() {
	c.token = ""
}

// Me возвращает профиль текущего пользователя
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var result struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &result); err != nil {
		return nil, err
	}
	return result.User, nil
}

// RequestPasswordReset запрашивает сброс пароля для email
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/api/auth/reset/request", nil, payload, nil)
}

// CompletePasswordReset завершает сброс пароля по токену
func (c *Client) CompletePasswordReset(ctx context.Context, token, password, confirmPassword string) error {
	payload := map[string]string{
		"token":            token,
		"password":         password,
		"confirm_password": confirmPassword,
	}
	return c.do(ctx, http.MethodPost, "/api/auth/reset/complete", nil, payload, nil)
}

// UpdateProfileParams представляет изменяемые поля профиля
type UpdateProfileParams struct {
	FullName    string          `json:"full_name,omitempty"`
	AvatarURL   string          `json:"avatar_url,omitempty"`
	Location    string          `json:"location,omitempty"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
}

// UpdateProfile обновляет профиль текущего пользователя
func (c *Client) UpdateProfile(ctx context.Context, params UpdateProfileParams) (*models.User, error) {
	var result struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/profile/", nil, params, &result); err != nil {
		return nil, err
	}
	return result.User, nil
}

// ToolList представляет страницу результатов каталога
type ToolList struct {
	Tools  []models.Tool `json:"tools"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// FetchTools возвращает страницу каталога по фильтру
func (c *Client) FetchTools(ctx context.Context, filter Filter) (*ToolList, error) {
	var result ToolList
	if err := c.do(ctx, http.MethodGet, "/api/tools", filter.Values(), nil, &result); err != nil {
		return nil, err
	}
	if result.Tools == nil {
		result.Tools = []models.Tool{}
	}
	return &result, nil
}

// FetchTool возвращает одно объявление по ID
func (c *Client) FetchTool(ctx context.Context, id uuid.UUID) (*models.Tool, error) {
	var result struct {
		Tool *models.Tool `json:"tool"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tools/"+id.String(), nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Tool, nil
}

// ToolImageParams представляет изображение при создании объявления
type ToolImageParams struct {
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url,omitempty"`
	PublicID   string `json:"public_id"`
	FileName   string `json:"file_name,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
}

// ToolParams представляет данные объявления для создания или обновления
type ToolParams struct {
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Category      string            `json:"category"`
	Condition     string            `json:"condition"`
	CurrentPrice  float64           `json:"current_price"`
	OriginalPrice float64           `json:"original_price,omitempty"`
	AllowOffers   bool              `json:"allow_offers"`
	Status        string            `json:"status,omitempty"`
	Images        []ToolImageParams `json:"images,omitempty"`
}

type mutationResult struct {
	Success bool      `json:"success"`
	ToolID  uuid.UUID `json:"tool_id"`
}

// CreateTool создает объявление и возвращает его ID
func (c *Client) CreateTool(ctx context.Context, params ToolParams) (uuid.UUID, error) {
	var result mutationResult
	if err := c.do(ctx, http.MethodPost, "/api/tools/", nil, params, &result); err != nil {
		return uuid.Nil, err
	}
	return result.ToolID, nil
}

// UpdateTool обновляет объявление текущего пользователя
func (c *Client) UpdateTool(ctx context.Context, id uuid.UUID, params ToolParams) error {
	return c.do(ctx, http.MethodPut, "/api/tools/"+id.String(), nil, params, nil)
}

// DeleteTool удаляет объявление текущего пользователя
func (c *Client) DeleteTool(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/tools/"+id.String(), nil, nil, nil)
}

// MyTools возвращает объявления текущего пользователя.
// status: all, active, draft или sold.
func (c *Client) MyTools(ctx context.Context, status string, limit, offset int) ([]models.Tool, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	var result struct {
		Tools []models.Tool `json:"tools"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tools/my", query, nil, &result); err != nil {
		return nil, err
	}
	if result.Tools == nil {
		result.Tools = []models.Tool{}
	}
	return result.Tools, nil
}

// Conversations возвращает список диалогов текущего пользователя
func (c *Client) Conversations(ctx context.Context) ([]models.Conversation, error) {
	var result struct {
		Conversations []models.Conversation `json:"conversations"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/messages/conversations", nil, nil, &result); err != nil {
		return nil, err
	}
	if result.Conversations == nil {
		result.Conversations = []models.Conversation{}
	}
	return result.Conversations, nil
}

// Thread возвращает переписку с конкретным пользователем
func (c *Client) Thread(ctx context.Context, otherUserID uuid.UUID) ([]models.Message, error) {
	var result struct {
		Messages []models.Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/messages/with/"+otherUserID.String(), nil, nil, &result); err != nil {
		return nil, err
	}
	if result.Messages == nil {
		result.Messages = []models.Message{}
	}
	return result.Messages, nil
}

// MessageParams представляет новое сообщение
type MessageParams struct {
	RecipientID uuid.UUID  `json:"recipient_id"`
	Content     string     `json:"content"`
	ToolID      *uuid.UUID `json:"tool_id,omitempty"`
	MessageType string     `json:"message_type,omitempty"`
	OfferID     *uuid.UUID `json:"offer_id,omitempty"`
}

// SendMessage отправляет сообщение и возвращает подтвержденную запись
func (c *Client) SendMessage(ctx context.Context, params MessageParams) (*models.Message, error) {
	var result struct {
		Message *models.Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/messages/", nil, params, &result); err != nil {
		return nil, err
	}
	return result.Message, nil
}

// UnreadCount возвращает количество непрочитанных сообщений
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var result struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/messages/unread", nil, nil, &result); err != nil {
		return 0, err
	}
	return result.UnreadCount, nil
}

// OfferParams представляет новое предложение цены
type OfferParams struct {
	ToolID  uuid.UUID `json:"tool_id"`
	Amount  float64   `json:"amount"`
	Message string    `json:"message,omitempty"`
}

// CreateOffer отправляет предложение цены продавцу
func (c *Client) CreateOffer(ctx context.Context, params OfferParams) (uuid.UUID, error) {
	var result struct {
		OfferID uuid.UUID `json:"offer_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/offers/", nil, params, &result); err != nil {
		return uuid.Nil, err
	}
	return result.OfferID, nil
}

// MyOffers возвращает предложения текущего пользователя.
// offerType: incoming, outgoing или all.
func (c *Client) MyOffers(ctx context.Context, offerType, status string) ([]models.Offer, error) {
	query := url.Values{}
	if offerType != "" {
		query.Set("type", offerType)
	}
	if status != "" {
		query.Set("status", status)
	}

	var result struct {
		Offers []models.Offer `json:"offers"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/offers/", query, nil, &result); err != nil {
		return nil, err
	}
	if result.Offers == nil {
		result.Offers = []models.Offer{}
	}
	return result.Offers, nil
}

// OfferResponseParams представляет ответ на предложение
type OfferResponseParams struct {
	Action        string  `json:"action"`
	CounterAmount float64 `json:"counter_amount,omitempty"`
	Message       string  `json:"message,omitempty"`
}

// RespondToOffer выполняет действие accept, reject или counter и
// возвращает новый статус предложения
func (c *Client) RespondToOffer(ctx context.Context, offerID uuid.UUID, params OfferResponseParams) (string, error) {
	var result struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/offers/"+offerID.String()+"/respond", nil, params, &result); err != nil {
		return "", err
	}
	return result.Status, nil
}

// AddToWishlist добавляет инструмент в избранное
func (c *Client) AddToWishlist(ctx context.Context, toolID uuid.UUID) error {
	payload := map[string]string{"tool_id": toolID.String()}
	return c.do(ctx, http.MethodPost, "/api/wishlist/", nil, payload, nil)
}

// RemoveFromWishlist удаляет инструмент из избранного
func (c *Client) RemoveFromWishlist(ctx context.Context, toolID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/wishlist/"+toolID.String(), nil, nil, nil)
}

// CheckWishlist проверяет наличие инструмента в избранном
func (c *Client) CheckWishlist(ctx context.Context, toolID uuid.UUID) (bool, error) {
	var result struct {
		InWishlist bool `json:"in_wishlist"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/wishlist/"+toolID.String()+"/check", nil, nil, &result); err != nil {
		return false, err
	}
	return result.InWishlist, nil
}

// Wishlist возвращает страницу избранного
func (c *Client) Wishlist(ctx context.Context, limit, offset int) (*models.WishlistResponse, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	var result models.WishlistResponse
	if err := c.do(ctx, http.MethodGet, "/api/wishlist/", query, nil, &result); err != nil {
		return nil, err
	}
	if result.Items == nil {
		result.Items = []models.WishlistItem{}
	}
	return &result, nil
}

// UploadResult представляет результат загрузки изображения
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Bytes    int    `json:"bytes"`
	Format   string `json:"format"`
}

// UploadImage загружает изображение через сервер
func (c *Client) UploadImage(ctx context.Context, fileName string, file io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload/", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result UploadResult
	if err := c.decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// OnboardingResult представляет начало подключения продавца
type OnboardingResult struct {
	OnboardingURL string `json:"onboarding_url"`
	AccountID     string `json:"account_id"`
}

// StartOnboarding начинает подключение продавца к платежному сервису
func (c *Client) StartOnboarding(ctx context.Context) (*OnboardingResult, error) {
	var result OnboardingResult
	if err := c.do(ctx, http.MethodPost, "/api/seller/onboarding", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SellerStatus представляет статус подключения продавца
type SellerStatus struct {
	Status           string `json:"status"`
	DetailsSubmitted bool   `json:"details_submitted"`
	ChargesEnabled   bool   `json:"charges_enabled"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
}

// GetSellerStatus возвращает статус подключения продавца
func (c *Client) GetSellerStatus(ctx context.Context) (*SellerStatus, error) {
	var result SellerStatus
	if err := c.do(ctx, http.MethodGet, "/api/seller/status", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DashboardStats представляет сводную статистику продавца
type DashboardStats struct {
	ActiveListings int `json:"active_listings"`
	SoldTools      int `json:"sold_tools"`
	WishlistSaves  int `json:"wishlist_saves"`
	UnreadMessages int `json:"unread_messages"`
	PendingOffers  int `json:"pending_offers"`
}

// GetDashboardStats возвращает сводную статистику продавца
func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var result DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MonthlyEarnings представляет доходы за один месяц
type MonthlyEarnings struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
	Sales  int     `json:"sales"`
}

// Earnings представляет доходы продавца
type Earnings struct {
	TotalEarnings float64           `json:"total_earnings"`
	SalesCount    int               `json:"sales_count"`
	Monthly       []MonthlyEarnings `json:"monthly"`
	IsDemo        bool              `json:"is_demo"`
}

// GetEarnings возвращает доходы продавца
func (c *Client) GetEarnings(ctx context.Context) (*Earnings, error) {
	var result Earnings
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/earnings", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
