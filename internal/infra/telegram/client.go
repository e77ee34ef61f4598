// internal/infra/telegram/client.go
package telegram

import (
	"fmt"
	"net/http"
	"time"

	"gopkg.in/telebot.v3"
)

// sender is the part of *telebot.Bot the adapter uses.
type sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelebotAdapter implements the domain telegram.Client interface using gopkg.in/telebot.v3.
type TelebotAdapter struct {
	bot sender
}

var newBot = telebot.NewBot

// NewTelebotAdapter creates a send-only bot. The bot is never started, so it has no poller.
// telebot.NewBot calls getMe, so a Telegram outage surfaces here as an error.
func NewTelebotAdapter(token string) (*TelebotAdapter, error) {
	bot, err := newBot(telebot.Settings{
		Token:  token,
		Client: &http.Client{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelebotAdapter{bot: bot}, nil
}

// SendMessage sends a plain text message to the given chat.
func (tba *TelebotAdapter) SendMessage(chatID int64, text string) error {
	_, err := tba.bot.Send(telebot.ChatID(chatID), text, &telebot.SendOptions{DisableWebPagePreview: true})
	return err
}
