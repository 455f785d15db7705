package http

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input validation constants
const (
	MaxBotNameLength  = 64
	MaxChatNameLength = 128
	MaxTokenLength    = 128
)

var (
	botNamePattern  = regexp.MustCompile(`^[a-zA-Z0-9 _.-]+$`)
	botTokenPattern = regexp.MustCompile(`^[0-9]+:[a-zA-Z0-9_-]+$`)
)

// ValidBotName checks a display name; empty is allowed and means "use the
// bot username".
func ValidBotName(s string) bool {
	if s == "" {
		return true
	}
	return len(s) <= MaxBotNameLength && botNamePattern.MatchString(s)
}

// ValidBotToken checks the "<id>:<secret>" shape of a Bot API token.
func ValidBotToken(s string) bool {
	if s == "" || len(s) > MaxTokenLength {
		return false
	}
	return botTokenPattern.MatchString(s)
}

// SanitizeString drops null bytes and invalid UTF-8, then trims spaces
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	// Keep only valid UTF-8
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r != utf8.RuneError {
				v = append(v, r)
			}
		}
		s = string(v)
	}
	return strings.TrimSpace(s)
}

// TruncateString safely truncates a string to max runes
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen])
}
