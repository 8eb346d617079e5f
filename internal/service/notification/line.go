package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultLineBaseURL = "https://api.line.me/v2/bot"

// Pusher delivers messages to a single LINE user.
type Pusher interface {
	Push(ctx context.Context, lineUserID string, messages []Message) error
}

type LineClient struct {
	token   string
	baseURL string
	http    *http.Client
}

func NewLineClient(token, baseURL string) *LineClient {
	if baseURL == "" {
		baseURL = defaultLineBaseURL
	}
	return &LineClient{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *LineClient) Enabled() bool {
	return c.token != ""
}

type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

// Push calls POST /message/push.
func (c *LineClient) Push(ctx context.Context, lineUserID string, messages []Message) error {
	if !c.Enabled() {
		return ErrLineDisabled
	}

	body, err := json.Marshal(pushRequest{To: lineUserID, Messages: messages})
	if err != nil {
		return fmt.Errorf("marshal push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/message/push", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return &APIError{StatusCode: res.StatusCode, Body: string(b)}
	}
	return nil
}

// IsFriend reports whether the bot can see the user's profile, i.e. the user
// added the official account as a friend.
func (c *LineClient) IsFriend(ctx context.Context, lineUserID string) (bool, error) {
	if !c.Enabled() {
		return false, ErrLineDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/profile/"+lineUserID, nil)
	if err != nil {
		return false, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("get profile: %w", err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	return res.StatusCode == http.StatusOK, nil
}
