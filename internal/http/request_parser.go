package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"showcase/internal/core"
)

// ParseCriteria reads search, category and status from query parameters.
// The search term is used verbatim; absent category and status become "all".
func ParseCriteria(query url.Values) core.Criteria {
	return core.Criteria{
		SearchTerm: query.Get("search"),
		Category:   strings.TrimSpace(query.Get("category")),
		Status:     strings.TrimSpace(query.Get("status")),
	}.Normalize()
}

// FieldError reports which form field failed to parse or validate.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValueGetter is satisfied by url.Values and RequestBodyParser.
type ValueGetter interface {
	Get(key string) string
}

// ParseRecordInput builds a validated record from submitted form fields.
// Status defaults to pending and the creation date to today.
func ParseRecordInput(form ValueGetter) (core.Record, error) {
	r := core.Record{
		Name:      sanitizeInput(form.Get("name")),
		Category:  sanitizeInput(form.Get("category")),
		Status:    core.StatusPending,
		CreatedAt: strings.TrimSpace(form.Get("createdAt")),
	}

	value, err := core.ParseValue(form.Get("value"))
	if err != nil {
		return core.Record{}, &FieldError{Field: "value", Err: err}
	}
	r.Value = value

	if v := strings.TrimSpace(form.Get("status")); v != "" {
		st, err := core.ParseStatus(v)
		if err != nil {
			return core.Record{}, &FieldError{Field: "status", Err: err}
		}
		r.Status = st
	}
	if r.CreatedAt == "" {
		r.CreatedAt = core.Today()
	}

	if err := r.Validate(); err != nil {
		return core.Record{}, &FieldError{Field: fieldFor(err), Err: err}
	}
	return r, nil
}

func fieldFor(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyName), errors.Is(err, core.ErrNameTooLong):
		return "name"
	case errors.Is(err, core.ErrEmptyCategory):
		return "category"
	case errors.Is(err, core.ErrInvalidValue):
		return "value"
	case errors.Is(err, core.ErrInvalidStatus):
		return "status"
	case errors.Is(err, core.ErrInvalidDate):
		return "createdAt"
	default:
		return "record"
	}
}

const maxBodyBytes = 1 << 20

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]interface{}
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}

	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	// Try JSON first if content looks like JSON
	if p.body[0] == '{' || p.body[0] == '[' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	// Fall back to form parsing
	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts an interface{} to string.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireDeleteOrPOST is a convenience function for DELETE/POST handlers.
func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}
