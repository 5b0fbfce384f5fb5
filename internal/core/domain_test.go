package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
	if err := (Money{Cents: MaxCents}).Validate(); err != nil {
		t.Fatalf("expected ok at cap, got %v", err)
	}
}

func TestExpenseValidate(t *testing.T) {
	d := time.Date(2025, 2, 7, 10, 0, 0, 0, time.UTC)
	good := Expense{
		ID:          1,
		Description: "Advert",
		Category:    Marketing,
		Amount:      Money{Cents: 5000},
		Date:        d,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Description: "a", Category: "c", Amount: Money{Cents: 1}},
		{Description: "  ", Category: "c", Amount: Money{Cents: 1}, Date: d},
		{Description: "a", Category: "c", Amount: Money{Cents: 0}, Date: d},
		{Description: "a", Category: "", Amount: Money{Cents: 1}, Date: d},
		{Description: string(make([]byte, 201)), Category: "c", Amount: Money{Cents: 1}, Date: d},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestValidateDescriptionCountsCharacters(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want error
	}{
		{"ascii at limit", strings.Repeat("a", 200), nil},
		{"ascii over limit", strings.Repeat("a", 201), ErrDescriptionLong},
		{"accented at limit", strings.Repeat("é", 200), nil},
		{"cjk at limit", strings.Repeat("費", 200), nil},
		{"accented over limit", strings.Repeat("é", 201), ErrDescriptionLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateDescription(tt.desc); !errors.Is(err, tt.want) {
				t.Errorf("ValidateDescription(%d bytes) = %v, want %v", len(tt.desc), err, tt.want)
			}
		})
	}
}

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		name     string
		selected string
		custom   string
		want     string
		wantErr  bool
	}{
		{name: "predefined", selected: Rent, want: Rent},
		{name: "custom with others", selected: Others, custom: " Travel ", want: "Travel"},
		{name: "others without custom", selected: Others, want: Others},
		{name: "custom ignored for predefined", selected: Salary, custom: "Travel", want: Salary},
		{name: "blank", selected: " ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveCategory(tt.selected, tt.custom)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ResolveCategory(%q, %q) = %q, %v; want %q", tt.selected, tt.custom, got, err, tt.want)
			}
		})
	}
}

func TestIsPredefined(t *testing.T) {
	if !IsPredefined(Subscriptions) {
		t.Fatal("Subscriptions should be predefined")
	}
	if IsPredefined("Travel") {
		t.Fatal("Travel should not be predefined")
	}
}
