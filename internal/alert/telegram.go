package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTelegramTimeout bounds one sendMessage call
const DefaultTelegramTimeout = 5 * time.Second

// TelegramDispatcher posts alerts to a Telegram chat through the Bot API
type TelegramDispatcher struct {
	httpClient *resty.Client
	token      string
	chatID     string
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewTelegramDispatcher creates a dispatcher for the bot token and chat
func NewTelegramDispatcher(apiURL, token, chatID string) *TelegramDispatcher {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetTimeout(DefaultTelegramTimeout).
		SetHeader("Content-Type", "application/json")

	return &TelegramDispatcher{
		httpClient: httpClient,
		token:      token,
		chatID:     chatID,
	}
}

// Dispatch implements Dispatcher
func (d *TelegramDispatcher) Dispatch(ctx context.Context, a Alert) error {
	var result telegramResponse
	resp, err := d.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"chat_id": d.chatID,
			"text":    a.Text(),
		}).
		SetResult(&result).
		SetError(&result).
		Post("/bot" + d.token + "/sendMessage")
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	if resp.IsError() || !result.OK {
		return fmt.Errorf("telegram returned status %d: %s", resp.StatusCode(), result.Description)
	}
	return nil
}
