package services

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dimitrije/taskhive-api/internal/apperr"
)

// Column widths of the VARCHAR text fields.
const (
	maxTextLength  = 255
	maxEmojiLength = 16
)

// updateSet collects SET assignments for a partial UPDATE.
type updateSet struct {
	cols []string
	args []any
}

func (u *updateSet) add(col string, v any) {
	u.args = append(u.args, v)
	u.cols = append(u.cols, fmt.Sprintf("%s = $%d", col, len(u.args)))
}

func (u *updateSet) empty() bool {
	return len(u.cols) == 0
}

// clause returns the SET list and the next free placeholder index.
func (u *updateSet) clause() (string, int) {
	return strings.Join(append(u.cols, "updated_at = NOW()"), ", "), len(u.args) + 1
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// requiredText validates a present name/title field and returns it trimmed.
func requiredText(field string, v *string) (string, error) {
	s := strings.TrimSpace(*v)
	if s == "" {
		return "", apperr.BadRequest(field + " cannot be empty")
	}
	if utf8.RuneCountInString(s) > maxTextLength {
		return "", apperr.BadRequest(field + " must be at most " + strconv.Itoa(maxTextLength) + " characters")
	}
	return s, nil
}

// optionalText maps an empty value to NULL.
func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
