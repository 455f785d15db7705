package entities

// Parse modes understood by the Telegram Bot API.
const (
	ParseModeHTML     = "HTML"
	ParseModeMarkdown = "Markdown"
)

// OutboundMessage is a text payload addressed to one chat of one bot.
// It only lives for the duration of a single dispatch.
type OutboundMessage struct {
	BotID     int64
	ChatID    string // numeric chat id or "@channel" username
	Text      string
	ParseMode string // "HTML" (default), "Markdown" or empty for plain text
}

// Delivery is the provider's acknowledgement of a sent message.
type Delivery struct {
	BotID     int64  `json:"bot_id"`
	ChatID    string `json:"chat_id"`
	MessageID int    `json:"message_id"`
}
