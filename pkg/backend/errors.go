package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNotFound matches an *APIError with status 404.
	ErrNotFound = errors.New("not found")

	// ErrBusy is returned by RunETL when the backend is already running a job.
	ErrBusy = errors.New("backend is busy with another job")

	// ErrUnsuccessful wraps a 2xx response whose body carries "success": false.
	ErrUnsuccessful = errors.New("backend reported failure")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match sentinel errors by status code.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrBusy:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// newAPIError builds an APIError, taking the message from the body's
// error, message or msg field when the body is a JSON object.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var fields struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, m := range []string{fields.Error, fields.Message, fields.Msg} {
			if m != "" {
				apiErr.Message = m
				return apiErr
			}
		}
	}

	apiErr.Message = truncate(strings.TrimSpace(string(body)), maxMessageLen)
	return apiErr
}

// maxMessageLen caps, in bytes, a message taken from a non-JSON body.
const maxMessageLen = 200

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
