package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTextLength  = 255
	maxEmojiLength = 16
	maxURLLength   = 500
)

func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) > limit
}

type ErrorResponse struct {
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PaginationResponse struct {
	TotalCount int `json:"total_count"`
	PageSize   int `json:"page_size"`
	PageNumber int `json:"page_number"`
	TotalPages int `json:"total_pages"`
	Skip       int `json:"skip"`
}

// Optional tells an absent JSON field apart from an explicit null. Set is
// true whenever the key was present; Null is true when its value was null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
