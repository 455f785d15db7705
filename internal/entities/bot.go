package entities

import "time"

type Bot struct {
	ID        int64     `json:"id" db:"id"`
	Token     string    `json:"token" db:"token"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Chat is a destination registered for a bot. The lowest-id chat of a bot
// is its default target.
type Chat struct {
	ID        int64     `json:"id" db:"id"`
	BotID     int64     `json:"bot_id" db:"bot_id"`
	ChatID    string    `json:"chat_id" db:"chat_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RedactedToken keeps the numeric bot id prefix and hides the secret part.
func (b Bot) RedactedToken() string {
	if len(b.Token) <= 8 {
		return "***"
	}
	for i, r := range b.Token {
		if r == ':' {
			return b.Token[:i+1] + "***"
		}
	}
	return b.Token[:4] + "***"
}
