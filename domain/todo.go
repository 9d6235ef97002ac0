package domain

import (
	"strings"
	"time"
)

// DueDateLayout is the ISO calendar date format used for Todo.DueDate.
const DueDateLayout = "2006-01-02"

// Todo represents a single item on the matrix.
type Todo struct {
	ID          int64  `json:"id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Expanded    bool   `json:"expanded"`
}

// Update carries a partial change to a Todo. Nil fields are left untouched.
type Update struct {
	Text        *string `json:"text,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Expanded    *bool   `json:"expanded,omitempty"`
}

// Empty reports whether the update carries no fields.
func (u Update) Empty() bool {
	return u.Text == nil && u.Description == nil && u.DueDate == nil && u.Expanded == nil
}

// Apply overwrites the fields present in u.
func (u Update) Apply(t *Todo) {
	if u.Text != nil {
		t.Text = *u.Text
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	if u.Expanded != nil {
		t.Expanded = *u.Expanded
	}
}

// ValidText reports whether text is non-empty once surrounding whitespace is removed.
func ValidText(text string) bool {
	return strings.TrimSpace(text) != ""
}

// ValidateDueDate accepts the empty string (no due date) or a YYYY-MM-DD date.
func ValidateDueDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DueDateLayout, s); err != nil {
		return ErrInvalidDueDate
	}
	return nil
}

// Location identifies the position of a Todo on the matrix.
type Location struct {
	Quadrant Quadrant `json:"quadrant"`
	Index    int      `json:"index"`
}
