package telegram

// Client delivers operator messages (run reports) to a Telegram chat.
type Client interface {
	SendMessage(chatID int64, text string) error
}
