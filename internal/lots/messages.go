package lots

// messages.go maps errors to user-facing text with a code for support.
//
// Codes:
//
//	LOAD001 - Lot data could not be loaded (any LoadError)
//	LOAD002 - Lot data not loaded yet (ErrNotLoaded)
//	LOAD003 - Data source timed out
//	EXP001  - No data to export (ErrEmptyExport)
//	RATE001 - Too many requests
//	ERR000  - Anything else; check the logs for the technical error
//
// Sentinel errors are matched with errors.Is first. Remaining errors fall
// back to case-insensitive substring patterns; the first match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage is what the page shows when an operation fails.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

var (
	msgLoadFailed = UserMessage{
		Message: "Unable to load lots data. Please refresh the page.",
		Action:  "Refresh the page to try again",
		Code:    "LOAD001",
	}
	msgNotLoaded = UserMessage{
		Message: "Lot data is not available yet",
		Action:  "Refresh the page in a moment",
		Code:    "LOAD002",
	}
	msgTimeout = UserMessage{
		Message: "The lot data source took too long to respond",
		Action:  "Refresh the page to try again",
		Code:    "LOAD003",
	}
	msgEmptyExport = UserMessage{
		Message: "No data to export",
		Action:  "Widen your filters and export again",
		Code:    "EXP001",
	}
	defaultMessage = UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact the sales office",
		Code:    "ERR000",
	}
)

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{pattern: "deadline exceeded", msg: msgTimeout},
	{pattern: "timeout", msg: msgTimeout},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// MapError returns the user message for err. A nil error maps to the zero
// UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	switch {
	case errors.Is(err, ErrEmptyExport):
		return msgEmptyExport
	case errors.Is(err, ErrNotLoaded):
		return msgNotLoaded
	case errors.Is(err, ErrLoadFailure):
		return msgLoadFailed
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as a single line for notices and CLI output.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
