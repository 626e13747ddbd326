package restrictions

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ViolationKind identifies which restriction a value violates.
type ViolationKind int

const (
	NotNull ViolationKind = iota
	NotAllowed
	TooLong
)

func (k ViolationKind) String() string {
	switch k {
	case NotNull:
		return "not_null"
	case NotAllowed:
		return "not_allowed"
	case TooLong:
		return "too_long"
	default:
		return "unknown"
	}
}

var (
	ErrNotNull    = errors.New("not null constraint violated")
	ErrNotAllowed = errors.New("check constraint violated")
	ErrTooLong    = errors.New("maximal length exceeded")
)

// ViolationError describes a value rejected by Check.
type ViolationError struct {
	Kind      ViolationKind
	Table     string
	Column    string
	Value     string
	MaxLength int
	Allowed   []string
}

func (e *ViolationError) Error() string {
	switch e.Kind {
	case NotNull:
		return fmt.Sprintf("column %s.%s must not be null", e.Table, e.Column)
	case NotAllowed:
		return fmt.Sprintf("value %q of column %s.%s is not one of the allowed values [%s]",
			e.Value, e.Table, e.Column, strings.Join(e.Allowed, ", "))
	case TooLong:
		return fmt.Sprintf("value %q of column %s.%s exceeds maximal length %d",
			e.Value, e.Table, e.Column, e.MaxLength)
	default:
		return fmt.Sprintf("value %q of column %s.%s is invalid", e.Value, e.Table, e.Column)
	}
}

// Is matches the sentinel error of the violation kind.
func (e *ViolationError) Is(target error) bool {
	switch e.Kind {
	case NotNull:
		return target == ErrNotNull
	case NotAllowed:
		return target == ErrNotAllowed
	case TooLong:
		return target == ErrTooLong
	}
	return false
}

func valueLength(value string) int {
	return utf8.RuneCountInString(value)
}
