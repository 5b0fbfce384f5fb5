package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"fintrack/internal/core"
)

func newParser(t *testing.T, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse(%q) error = %v", body, err)
	}
	return p
}

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name     string
		query    url.Values
		wantPage int
		wantSize int
	}{
		{"defaults", url.Values{}, 1, 20},
		{"explicit", url.Values{"page": {"3"}, "size": {"10"}}, 3, 10},
		{"invalid values are ignored", url.Values{"page": {"abc"}, "size": {"-1"}}, 1, 20},
		{"zero page", url.Values{"page": {"0"}}, 1, 20},
		{"size capped", url.Values{"size": {"10000"}}, 1, maxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePageParams(tt.query, 20)
			if got.Page != tt.wantPage || got.Size != tt.wantSize {
				t.Errorf("ParsePageParams() = %+v, want page %d size %d", got, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		key     string
		want    string
		wantHas bool
		isJSON  bool
	}{
		{"json string", `{"description":"  Coffee  "}`, "description", "Coffee", true, true},
		{"json number kept literal", `{"amount":12.345}`, "amount", "12.345", true, true},
		{"json large number", `{"amount":1234567.89}`, "amount", "1234567.89", true, true},
		{"json missing key", `{"amount":1}`, "description", "", false, true},
		{"form data", "description=Lunch&amount=7%2C5", "amount", "7,5", true, false},
		{"control chars stripped", "{\"description\":\"a\\u0000b\"}", "description", "ab", true, true},
		{"empty body", "", "amount", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser(t, tt.body)
			if got := p.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
			if got := p.Has(tt.key); got != tt.wantHas {
				t.Errorf("Has(%q) = %v, want %v", tt.key, got, tt.wantHas)
			}
			if p.IsJSON() != tt.isJSON {
				t.Errorf("IsJSON() = %v, want %v", p.IsJSON(), tt.isJSON)
			}
		})
	}
}

func TestRequestBodyParserMalformed(t *testing.T) {
	for _, body := range []string{`{"amount":`, `[1,2]`, "%zz"} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := NewRequestBodyParser(req).Parse()
		if !errors.Is(err, ErrMalformedBody) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformedBody", body, err)
		}
	}
}

func TestParseNewExpense(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantErr      error
		wantCents    int64
		wantCategory string
	}{
		{
			name:         "string amount",
			body:         `{"description":"Advert","category":"Marketing","amount":"50.00"}`,
			wantCents:    5000,
			wantCategory: core.Marketing,
		},
		{
			name:         "number amount rounds half up",
			body:         `{"description":"Tea","category":"Miscellaneous","amount":2.345}`,
			wantCents:    235,
			wantCategory: core.Miscellaneous,
		},
		{
			name:         "custom category with Others",
			body:         `{"description":"Gift","category":"Others","custom_category":"Presents","amount":"10"}`,
			wantCents:    1000,
			wantCategory: "Presents",
		},
		{
			name:         "custom category ignored without Others",
			body:         `{"description":"Gift","category":"Rent","custom_category":"Presents","amount":"10"}`,
			wantCents:    1000,
			wantCategory: core.Rent,
		},
		{
			name:    "non numeric amount",
			body:    `{"description":"Gift","category":"Rent","amount":"ten"}`,
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			body:    `{"description":"Gift","category":"Rent","amount":-4}`,
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "blank description",
			body:    `{"description":"  ","category":"Rent","amount":"4"}`,
			wantErr: core.ErrEmptyDescription,
		},
		{
			name:    "missing category",
			body:    `{"description":"Gift","amount":"4"}`,
			wantErr: core.ErrEmptyCategory,
		},
		{
			name:    "bad date",
			body:    `{"description":"Gift","category":"Rent","amount":"4","date":"yesterday"}`,
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseNewExpense(newParser(t, tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if in.Amount.Cents != tt.wantCents {
				t.Errorf("cents = %d, want %d", in.Amount.Cents, tt.wantCents)
			}
			if in.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", in.Category, tt.wantCategory)
			}
			if !in.Date.IsZero() {
				t.Errorf("date should default to zero, got %v", in.Date)
			}
		})
	}
}

func TestParseNewExpenseDate(t *testing.T) {
	for _, date := range []string{"2025-02-07", "2025-02-07T10:00:00Z"} {
		body := `{"description":"Advert","category":"Marketing","amount":"5","date":"` + date + `"}`
		in, err := ParseNewExpense(newParser(t, body))
		if err != nil {
			t.Fatalf("date %q: %v", date, err)
		}
		if in.Date.Year() != 2025 || in.Date.Month() != 2 || in.Date.Day() != 7 {
			t.Errorf("date %q parsed as %v", date, in.Date)
		}
	}
}

func TestParsePatch(t *testing.T) {
	p := newParser(t, `{"amount":"75,5"}`)
	patch, err := ParsePatch(p)
	if err != nil {
		t.Fatal(err)
	}
	if patch.Amount == nil || patch.Amount.Cents != 7550 {
		t.Errorf("amount = %v", patch.Amount)
	}
	if patch.Description != nil || patch.Category != nil {
		t.Error("absent fields should stay nil")
	}

	if _, err := ParsePatch(newParser(t, `{"description":""}`)); !errors.Is(err, core.ErrEmptyDescription) {
		t.Errorf("blank description error = %v", err)
	}
	if _, err := ParsePatch(newParser(t, `{"amount":"0"}`)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("zero amount error = %v", err)
	}
}

func TestParseDraft(t *testing.T) {
	d := ParseDraft(newParser(t, `{"amount":"abc","description":"x","category":"Others","custom_category":"Pets"}`))
	if d.Amount != "abc" || d.Description != "x" || d.Category != "Pets" {
		t.Errorf("draft = %+v", d)
	}
}

func TestParseBudget(t *testing.T) {
	for _, body := range []string{`{"limit":"1500"}`, `{"amount":1500}`} {
		m, err := ParseBudget(newParser(t, body))
		if err != nil || m.Cents != 150000 {
			t.Errorf("ParseBudget(%s) = %v, %v", body, m, err)
		}
	}
	if _, err := ParseBudget(newParser(t, `{}`)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("empty budget error = %v", err)
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("1700000000000"); err != nil || id != 1700000000000 {
		t.Errorf("parseID = %d, %v", id, err)
	}
	for _, s := range []string{"", "abc", "0", "-1"} {
		if _, err := parseID(s); !errors.Is(err, ErrInvalidID) {
			t.Errorf("parseID(%q) error = %v", s, err)
		}
	}
}
