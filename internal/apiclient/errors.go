package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// NetworkError means no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError is returned for 401 responses. The credential is no longer valid.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string { return withStatus(e.Status, e.Message) }

// ValidationError is returned for 4xx responses other than 401.
// Fields holds per-field messages when the server reported them.
type ValidationError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string { return withStatus(e.Status, e.Message) }

// ServerError is returned for 5xx responses.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string { return withStatus(e.Status, e.Message) }

func withStatus(status int, msg string) string {
	if msg == "" {
		return fmt.Sprintf("request failed with status %d", status)
	}
	return fmt.Sprintf("request failed with status %d: %s", status, msg)
}

// Message returns the server supplied message carried by err, or fallback
// when the server gave none.
func Message(err error, fallback string) string {
	var (
		authErr   *AuthError
		validErr  *ValidationError
		serverErr *ServerError
		msg       string
	)
	switch {
	case errors.As(err, &authErr):
		msg = authErr.Message
	case errors.As(err, &validErr):
		msg = validErr.Message
	case errors.As(err, &serverErr):
		msg = serverErr.Message
	}
	if msg == "" {
		return fallback
	}
	return msg
}

// newStatusError maps a failed response to the error taxonomy.
func newStatusError(status int, body []byte) error {
	msg, fields := parseErrorBody(body)
	switch {
	case status == 401:
		return &AuthError{Status: status, Message: msg}
	case status >= 500:
		return &ServerError{Status: status, Message: msg}
	default:
		return &ValidationError{Status: status, Message: msg, Fields: fields}
	}
}

// parseErrorBody understands the error bodies of a Django REST style backend:
// {"detail": "..."}, {"error": "..."}, {"non_field_errors": [...]} and {"field": ["..."]}.
func parseErrorBody(body []byte) (string, map[string][]string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", nil
	}

	var msg string
	for _, key := range []string{"detail", "error", "message"} {
		if v, ok := raw[key]; ok {
			if s := asStrings(v); len(s) > 0 {
				msg = s[0]
				break
			}
		}
	}
	if msg == "" {
		if v, ok := raw["non_field_errors"]; ok {
			msg = strings.Join(asStrings(v), " ")
		}
	}

	fields := make(map[string][]string)
	for key, v := range raw {
		switch key {
		case "detail", "error", "message", "non_field_errors":
			continue
		}
		if s := asStrings(v); len(s) > 0 {
			fields[key] = s
		}
	}
	if len(fields) == 0 {
		return msg, nil
	}
	if msg == "" {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msg = fmt.Sprintf("%s: %s", keys[0], fields[keys[0]][0])
	}
	return msg, fields
}

func asStrings(v json.RawMessage) []string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	var list []string
	if err := json.Unmarshal(v, &list); err == nil {
		return list
	}
	return nil
}
