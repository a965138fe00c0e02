package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"price-sr-bot/pkg/httpclient"
)

const telegramAPIBaseURL = "https://api.telegram.org"

// AlertNotifier posts log alerts straight to the Bot API so it keeps working
// even when the bot poller is down.
type AlertNotifier struct {
	client  httpclient.HTTPClient
	token   string
	chatID  string
	timeout time.Duration
}

func NewAlertNotifier(client httpclient.HTTPClient, token, chatID string, timeout time.Duration) *AlertNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if client == nil {
		client = httpclient.New(telegramAPIBaseURL, timeout)
	}
	return &AlertNotifier{client: client, token: token, chatID: chatID, timeout: timeout}
}

func (a *AlertNotifier) SendAlert(message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	payload := map[string]interface{}{
		"chat_id": a.chatID,
		"text":    message,
	}
	resp, err := a.client.Post(ctx, fmt.Sprintf("/bot%s/sendMessage", a.token), payload, nil, nil)
	if err != nil {
		return fmt.Errorf("send alert: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("send alert: telegram returned status %d", resp.StatusCode)
	}
	return nil
}
