// Package http provides the JSON API server and its handlers.
//
// This file implements utilities for parsing and validating request data.
// Bodies may be JSON or form-encoded; amounts may arrive as JSON numbers or
// strings and are always parsed from their literal text.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/edit"
	"fintrack/internal/ledger"
)

const (
	maxBodyBytes = 1 << 16
	maxPageSize  = 500
)

var (
	ErrMalformedBody = errors.New("malformed request body")
	ErrInvalidID     = errors.New("invalid expense id")
	ErrInvalidDate   = errors.New("invalid date")
)

// PageParams holds 1-based pagination values from the query string.
type PageParams struct {
	Page int
	Size int
}

// ParsePageParams reads page and size, falling back to page 1 and
// defaultSize. Sizes are capped at maxPageSize.
func ParsePageParams(query url.Values, defaultSize int) PageParams {
	params := PageParams{Page: 1, Size: defaultSize}

	if v := strings.TrimSpace(query.Get("page")); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			params.Page = p
		}
	}
	if v := strings.TrimSpace(query.Get("size")); v != "" {
		if s, err := strconv.Atoi(v); err == nil && s > 0 {
			params.Size = s
		}
	}
	if params.Size > maxPageSize {
		params.Size = maxPageSize
	}
	return params
}

// RequestBodyParser handles JSON and form-encoded bodies.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once, up to maxBodyBytes.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
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

	body := bytes.TrimSpace(p.body)
	if len(body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		return p.err
	}
	if body[0] == '[' {
		p.err = fmt.Errorf("%w: expected an object", ErrMalformedBody)
		return p.err
	}

	p.formData, p.err = url.ParseQuery(string(body))
	if p.err != nil {
		p.err = fmt.Errorf("%w: %v", ErrMalformedBody, p.err)
	}
	return p.err
}

// Get returns a trimmed, sanitized value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Has reports whether key was present in the body, even if blank.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	if p.formData != nil {
		_, ok := p.formData[key]
		return ok
	}
	return false
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue keeps JSON numbers in their literal form so 12.345 is parsed
// as written rather than through a float.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseNewExpense builds ledger input from a create request. The category
// is resolved from category and custom_category.
func ParseNewExpense(p *RequestBodyParser) (ledger.NewExpense, error) {
	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		return ledger.NewExpense{}, err
	}
	desc := p.Get("description")
	if err := core.ValidateDescription(desc); err != nil {
		return ledger.NewExpense{}, err
	}
	category, err := core.ResolveCategory(p.Get("category"), p.Get("custom_category"))
	if err != nil {
		return ledger.NewExpense{}, err
	}
	date, err := parseDate(p.Get("date"))
	if err != nil {
		return ledger.NewExpense{}, err
	}
	return ledger.NewExpense{
		Description: desc,
		Category:    category,
		Amount:      amount,
		Date:        date,
	}, nil
}

// ParsePatch builds a partial update. Only keys present in the body are
// changed; present keys must still be valid.
func ParsePatch(p *RequestBodyParser) (ledger.Patch, error) {
	var patch ledger.Patch
	if p.Has("amount") {
		amount, err := core.ParseAmount(p.Get("amount"))
		if err != nil {
			return ledger.Patch{}, err
		}
		patch.Amount = &amount
	}
	if p.Has("description") {
		desc := p.Get("description")
		if err := core.ValidateDescription(desc); err != nil {
			return ledger.Patch{}, err
		}
		patch.Description = &desc
	}
	if p.Has("category") {
		category, err := core.ResolveCategory(p.Get("category"), p.Get("custom_category"))
		if err != nil {
			return ledger.Patch{}, err
		}
		patch.Category = &category
	}
	return patch, nil
}

// ParseDraft reads an edit draft without validating it; validation happens
// when the draft is saved.
func ParseDraft(p *RequestBodyParser) edit.Draft {
	category := p.Get("category")
	if custom := p.Get("custom_category"); category == core.Others && custom != "" {
		category = custom
	}
	return edit.Draft{
		Amount:      p.Get("amount"),
		Description: p.Get("description"),
		Category:    category,
	}
}

// ParseBudget reads the limit of a budget update.
func ParseBudget(p *RequestBodyParser) (core.Money, error) {
	key := "limit"
	if !p.Has(key) {
		key = "amount"
	}
	return core.ParseAmount(p.Get(key))
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates. An empty
// value yields the zero time, which the ledger replaces with its clock.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, s)
	}
	return t, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w %q", ErrInvalidID, s)
	}
	return id, nil
}
