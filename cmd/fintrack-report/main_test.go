package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/stats"
)

func demoReport() (stats.Report, []core.Expense) {
	now := time.Date(2025, 2, 8, 12, 0, 0, 0, time.UTC)
	expenses := ledger.DemoExpenses()
	budget := stats.Budget{Limit: core.Money{Cents: 100000}}
	return stats.BuildReport(expenses, stats.Baseline(expenses, now), budget, now), stats.SortByDateDesc(expenses)
}

func TestRenderText(t *testing.T) {
	report, expenses := demoReport()
	var buf bytes.Buffer
	if err := render(&buf, "text", report, expenses); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"Transactions  4",
		"$2,095.00",
		"N/A",
		"exceeded",
		"Salaries Paid",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Advert") > strings.Index(out, "Dispatch") {
		t.Error("expenses should be listed newest first")
	}
}

func TestRenderJSON(t *testing.T) {
	report, expenses := demoReport()
	var buf bytes.Buffer
	if err := render(&buf, "json", report, expenses); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Report struct {
			Count  int `json:"count"`
			Budget struct {
				Exceeded bool `json:"exceeded"`
			} `json:"budget"`
		} `json:"report"`
		Expenses []core.Expense `json:"expenses"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Report.Count != 4 || !got.Report.Budget.Exceeded || len(got.Expenses) != 4 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	report, expenses := demoReport()
	if err := render(&bytes.Buffer{}, "xml", report, expenses); err == nil {
		t.Error("expected error")
	}
}

func TestBuildReportWindowOnlyFiltersListing(t *testing.T) {
	now := time.Date(2025, 2, 8, 12, 0, 0, 0, time.UTC)
	expenses := append(ledger.DemoExpenses(), core.Expense{
		ID: 5, Description: "Old rent", Category: core.Rent,
		Amount: core.Money{Cents: 10000}, Date: time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC),
	})

	tests := []struct {
		window    string
		wantNames []string
	}{
		{"", []string{"Advert", "Rent", "Dispatch", "Salaries Paid", "Old rent"}},
		{"weekly", []string{"Advert", "Rent", "Dispatch"}},
		{"yearly", []string{"Advert", "Rent", "Dispatch", "Salaries Paid", "Old rent"}},
	}
	for _, tt := range tests {
		t.Run("window="+tt.window, func(t *testing.T) {
			report, listed, err := buildReport(expenses, core.Money{Cents: 100000}, tt.window, now)
			if err != nil {
				t.Fatal(err)
			}
			if report.Count != 5 || report.Budget.Spent.Cents != 219500 {
				t.Errorf("report covers count=%d spent=%d, want the whole snapshot", report.Count, report.Budget.Spent.Cents)
			}
			if !report.Summary.TotalBalance.Change.HasBaseline {
				t.Error("baseline lost: change should not be N/A")
			}
			if len(listed) != len(tt.wantNames) {
				t.Fatalf("listed %d records, want %d", len(listed), len(tt.wantNames))
			}
			for i, name := range tt.wantNames {
				if listed[i].Description != name {
					t.Errorf("listed[%d] = %q, want %q", i, listed[i].Description, name)
				}
			}
		})
	}

	if _, _, err := buildReport(expenses, core.Money{}, "fortnightly", now); err == nil {
		t.Error("unknown window should fail")
	}
}
