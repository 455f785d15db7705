package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigurationMissing groups every "nothing to send with" failure.
	ErrConfigurationMissing = errors.New("telegraph configuration missing")

	ErrBotNotFound  = fmt.Errorf("%w: no bot registered", ErrConfigurationMissing)
	ErrChatNotFound = fmt.Errorf("%w: bot has no chat", ErrConfigurationMissing)

	ErrProviderFailure = errors.New("messaging provider failure")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ProviderError wraps a failed call to the messaging provider.
type ProviderError struct {
	BotID int64
	Code  int // provider error code, 0 when the request never got an answer
	Err   error
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("provider error for bot %d (code %d): %v", e.BotID, e.Code, e.Err)
	}
	return fmt.Sprintf("provider error for bot %d: %v", e.BotID, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProviderFailure }
