package estoque

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is a non-2xx answer of the backend. Field errors follow the
// {"field": ["message", ...]} convention; "detail" carries generic messages.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     map[string][]string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("estoque api error: status=%d, message=%s", e.StatusCode, e.Message())
}

// Message returns the most useful human text: the detail, else the raw body,
// else the HTTP status text.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return http.StatusText(e.StatusCode)
}

// FieldMessage joins the messages reported for one field.
func (e *APIError) FieldMessage(field string) string {
	return strings.Join(e.Fields[field], " ")
}

// FieldNames lists the fields that carry errors, sorted.
func (e *APIError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 or 403 from the backend.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// StatusCode extracts the backend status from err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}

	for key, value := range raw {
		if key == "detail" {
			var detail string
			if json.Unmarshal(value, &detail) == nil {
				apiErr.Detail = detail
				continue
			}
		}
		if messages := decodeMessages(value); len(messages) > 0 {
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[key] = messages
		}
	}

	return apiErr
}

func decodeMessages(value json.RawMessage) []string {
	var list []string
	if json.Unmarshal(value, &list) == nil {
		return list
	}
	var single string
	if json.Unmarshal(value, &single) == nil {
		return []string{single}
	}
	// Nested structures (e.g. per-item errors) are kept verbatim.
	return []string{string(value)}
}
