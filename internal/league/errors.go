package league

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected operation.
type Kind string

const (
	KindInvalidPayload Kind = "InvalidPayload"
	KindNotFound       Kind = "NotFound"
	KindConflict       Kind = "Conflict"
	KindUnauthorized   Kind = "Unauthorized"
)

// Error is returned for every rejected operation. A rejected operation never
// mutates the store.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func invalidPayload(format string, args ...any) error {
	return &Error{Kind: KindInvalidPayload, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func unauthorized(format string, args ...any) error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a domain error, or "" for any other error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsInvalidPayload(err error) bool { return KindOf(err) == KindInvalidPayload }
func IsNotFound(err error) bool       { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool       { return KindOf(err) == KindConflict }
func IsUnauthorized(err error) bool   { return KindOf(err) == KindUnauthorized }
