package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
)

var (
	ErrNoBaseURL      = errors.New("backend base URL is not configured")
	ErrInvalidBaseURL = errors.New("invalid backend base URL")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	// StatusText is the reason phrase of the response, e.g. "Unauthorized".
	StatusText string
	// Message is the backend's own error text, when it sent one.
	Message string
	// Conflict is set when the body reports errors.Conflict.
	Conflict bool
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.StatusText + ": " + e.Message
	}
	return e.StatusText
}

type errorBody struct {
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

func newStatusError(resp *http.Response) *StatusError {
	se := &StatusError{
		Code:       resp.StatusCode,
		StatusText: strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))),
	}
	if se.StatusText == "" {
		se.StatusText = http.StatusText(resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return se
	}

	var body errorBody
	if json.Unmarshal(raw, &body) != nil {
		return se
	}

	switch {
	case body.Error != "":
		se.Message = body.Error
	case body.Message != "":
		se.Message = body.Message
	}

	if len(body.Errors) > 0 {
		var text string
		var fields map[string]json.RawMessage
		switch {
		case json.Unmarshal(body.Errors, &fields) == nil:
			if _, ok := fields["Conflict"]; ok {
				se.Conflict = true
			}
		case json.Unmarshal(body.Errors, &text) == nil && se.Message == "":
			se.Message = text
		}
	}

	return se
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// ServerMessage returns the backend's error text carried by err, if any.
func ServerMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

func IsConflict(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && (se.Conflict || se.Code == http.StatusConflict)
}
