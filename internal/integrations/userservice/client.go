package userservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с UserService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента UserService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetFamilyMember получает члена семьи пользователя
// Возвращает ErrFamilyMemberNotFound, если член семьи не существует
// или привязан к другому пользователю
func (c *Client) GetFamilyMember(ctx context.Context, patientID, memberID int64) (*FamilyMember, error) {
	url := fmt.Sprintf("%s/internal/users/%d/family-members/%d", c.baseURL, patientID, memberID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("UserService request failed for user=%d member=%d: %v", patientID, memberID, err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid user or member ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrFamilyMemberNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var member FamilyMember
	if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	// Сервис пользователей мог вернуть члена семьи другого аккаунта
	if !member.BelongsTo(patientID) {
		c.log.Warn("Family member id=%d does not belong to user=%d", memberID, patientID)
		return nil, ErrFamilyMemberNotFound
	}

	return &member, nil
}
