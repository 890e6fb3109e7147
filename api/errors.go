package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnauthorized marks the 401 path. It is not meant to be shown to the
// user: by the time an API function returns it, the transport layer has
// already torn the session down and asked the UI to reset.
var ErrUnauthorized = errors.New("unauthorized")

// Error is what API functions return for anything the server answered.
// Message is always safe to render next to the triggering form.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// transportError wraps timeouts and unreachable-network failures. The raw
// error is kept for logs but the message shown is the generic fallback.
func transportError(fallback string, err error) error {
	return &Error{Message: fallback, cause: err}
}

// serverError extracts the server's structured {"detail": "..."} payload,
// falling back to the supplied message when the field is missing.
func serverError(status int, body []byte, fallback string) error {
	msg := fallback
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		msg = payload.Detail
	}
	return &Error{Status: status, Message: msg}
}

// fieldErrors flattens a per-field validation payload, e.g.
// {"email": ["already taken"], "password": ["too short", "too common"]},
// into one multi-line message. Keys are sorted so the output is stable.
func fieldErrors(body []byte, fallback string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		return &Error{Status: 400, Message: fallback}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		raw := fields[k]

		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			lines = append(lines, fmt.Sprintf("%s: %s", k, strings.Join(list, ", ")))
			continue
		}

		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			lines = append(lines, fmt.Sprintf("%s: %s", k, single))
			continue
		}

		lines = append(lines, fmt.Sprintf("%s: %s", k, string(raw)))
	}

	return &Error{Status: 400, Message: strings.Join(lines, "\n")}
}
