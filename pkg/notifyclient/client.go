package notifyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotFound reports a mark-read against an id the server no longer has.
var ErrNotFound = errors.New("notification not found")

// Notification mirrors the feed API's wire shape.
type Notification struct {
	ID          uint64     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	SenderID    *string    `json:"sender_id,omitempty"`
	RecipientID string     `json:"recipient_id"`
	RelatedType string     `json:"related_type,omitempty"`
	RelatedID   string     `json:"related_id,omitempty"`
	Priority    string     `json:"priority"`
	IsRead      bool       `json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type feedData struct {
	Notifications []Notification `json:"notifications"`
	Count         int            `json:"count"`
	UnreadCount   int64          `json:"unread_count"`
}

type countData struct {
	Updated int64 `json:"updated"`
	Deleted int64 `json:"deleted"`
}

const requestTimeout = 10 * time.Second

// Client talks to the notification feed API on behalf of one signed-in user.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Fetch returns the caller's feed, newest first, plus the server's unread count.
func (c *Client) Fetch(ctx context.Context) ([]Notification, int64, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/v1/notifications", nil)
	if err != nil {
		return nil, 0, err
	}

	var data feedData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, 0, fmt.Errorf("failed to decode feed: %w", err)
	}
	return data.Notifications, data.UnreadCount, nil
}

// MarkRead marks one notification read. Unknown ids return ErrNotFound.
func (c *Client) MarkRead(ctx context.Context, id uint64) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/notifications/%d/read", id), nil)
	return err
}

// MarkAllRead flips every unread notification and returns the number flipped.
func (c *Client) MarkAllRead(ctx context.Context) (int64, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/v1/notifications/read-all", map[string]string{})
	if err != nil {
		return 0, err
	}

	var data countData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return data.Updated, nil
}

// ClearAll deletes every notification and returns the number deleted.
func (c *Client) ClearAll(ctx context.Context) (int64, error) {
	env, err := c.do(ctx, http.MethodDelete, "/api/v1/notifications", nil)
	if err != nil {
		return 0, err
	}

	var data countData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return data.Deleted, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewBuffer(payload)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode >= 400 || !env.Success {
		if env.Message == "" {
			env.Message = resp.Status
		}
		return nil, fmt.Errorf("server error: %s", env.Message)
	}

	return &env, nil
}
