package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"rugshield/internal/analysis"
)

// Notification captures a watch-mode risk alert.
type Notification struct {
	At       time.Time
	Address  string
	Symbol   string
	Previous analysis.RiskLevel
	Current  analysis.RiskLevel
	Factors  []string
	// Message, when set, is a pre-rendered MarkdownV2 body that replaces
	// the default plain-text rendering.
	Message string
}

// Notifier delivers risk notifications.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// TelegramNotifier pushes messages through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs a Telegram notifier.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify posts the notification text via the sendMessage API.
func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	payload := map[string]string{
		"chat_id": n.chatID,
	}
	if note.Message != "" {
		payload["text"] = note.Message
		payload["parse_mode"] = "MarkdownV2"
	} else {
		payload["text"] = renderMessage(note)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram unexpected status: %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram returned ok=false")
		}
	}

	n.logger.Info().Str("address", note.Address).
		Str("risk", string(note.Current)).
		Msg("risk alert sent (Telegram)")
	return nil
}

func renderMessage(note Notification) string {
	builder := strings.Builder{}
	builder.WriteString("[RugShield Alert]\n")
	builder.WriteString(fmt.Sprintf("Time: %s UTC\n", note.At.UTC().Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf("Token: %s (%s)\n", note.Symbol, note.Address))
	if note.Previous != "" && note.Previous != note.Current {
		builder.WriteString(fmt.Sprintf("Risk: %s -> %s\n", note.Previous, note.Current))
	} else {
		builder.WriteString(fmt.Sprintf("Risk: %s\n", note.Current))
	}
	for _, factor := range note.Factors {
		builder.WriteString(fmt.Sprintf("- %s\n", factor))
	}
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
