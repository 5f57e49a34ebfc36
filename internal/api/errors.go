package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the POS API. Message carries the server's
// structured message when one was sent; FieldErrors carries a field-keyed
// error map when the server returned one instead.
type Error struct {
	StatusCode  int
	Message     string
	FieldErrors map[string]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
}

// UserMessage returns the text worth surfacing in a notification: the server
// message when present, otherwise a status-based fallback.
func (e *Error) UserMessage(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// IsStatus reports whether err wraps an *Error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// decodeError interprets a non-2xx body. Bodies are decoded as JSON whatever
// the declared content type: binary endpoints return JSON error payloads with
// a binary content type, so sniffing the bytes is the reliable path.
func decodeError(status int, raw []byte) error {
	e := &Error{StatusCode: status}
	if len(raw) == 0 {
		return e
	}

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		switch {
		case envelope.Message != "":
			e.Message = envelope.Message
			return e
		case envelope.Error != "":
			e.Message = envelope.Error
			return e
		}
		// A flat object with only string values is a field-error map.
		var fields map[string]string
		if err := json.Unmarshal(raw, &fields); err == nil && len(fields) > 0 {
			e.FieldErrors = fields
			return e
		}
	}

	// Some endpoints return a plain-text body.
	if status != http.StatusNotFound {
		e.Message = string(raw)
	}
	return e
}
