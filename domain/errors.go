package domain

import "errors"

var (
	// ErrUnknownQuadrant is returned when a value does not name one of the four quadrants.
	ErrUnknownQuadrant = errors.New("unknown quadrant")
	// ErrInvalidDueDate is returned for due dates not in YYYY-MM-DD form.
	ErrInvalidDueDate = errors.New("invalid due date")
	// ErrUnsupportedLanguage is returned for a language preference without translations.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)
