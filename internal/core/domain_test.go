package core

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		err  error
	}{
		{"2024-01-10", NewDate(2024, 1, 10), nil},
		{" 2024-01-10 ", NewDate(2024, 1, 10), nil},
		{"", Date{}, ErrEmptyDate},
		{"   ", Date{}, ErrEmptyDate},
		{"10/01/2024", Date{}, ErrInvalidDate},
		{"2024-13-01", Date{}, ErrInvalidDate},
		{"not-a-date", Date{}, ErrInvalidDate},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("%q: expected %v, got %v", tc.in, tc.err, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if !got.Equal(tc.want.Time) {
			t.Fatalf("%q: expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestDateFormatting(t *testing.T) {
	d := NewDate(2024, 1, 10)
	if got := d.ISO(); got != "2024-01-10" {
		t.Fatalf("ISO() = %q, want %q", got, "2024-01-10")
	}
	if got := d.Display(); got != "Jan 10, 2024" {
		t.Fatalf("Display() = %q, want %q", got, "Jan 10, 2024")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: -500}).Validate(); err != nil {
		t.Fatalf("negative amounts are valid entries, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:        NewDate(2024, 1, 10),
		Description: "Coffee",
		Amount:      Money{Cents: 450},
		Category:    "food",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Category is not part of validation.
	noCat := good
	noCat.Category = ""
	if err := noCat.Validate(); err != nil {
		t.Fatalf("empty category should pass, got %v", err)
	}

	cases := []struct {
		name string
		e    Expense
		want error
	}{
		{
			name: "empty description",
			e:    Expense{Date: NewDate(2024, 1, 10), Amount: Money{Cents: 450}},
			want: ErrEmptyDescription,
		},
		{
			name: "whitespace description",
			e:    Expense{Date: NewDate(2024, 1, 10), Description: "   ", Amount: Money{Cents: 450}},
			want: ErrEmptyDescription,
		},
		{
			name: "zero amount",
			e:    Expense{Date: NewDate(2024, 1, 10), Description: "Coffee"},
			want: ErrInvalidAmount,
		},
		{
			name: "zero date",
			e:    Expense{Description: "Coffee", Amount: Money{Cents: 450}},
			want: ErrEmptyDate,
		},
	}
	for _, tc := range cases {
		if err := tc.e.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestParseView(t *testing.T) {
	cases := []struct {
		in   string
		want View
		ok   bool
	}{
		{"logger", ViewLogger, true},
		{"dashboard", ViewDashboard, true},
		{"", "", false},
		{"Logger", "", false},
		{"settings", "", false},
	}
	for _, tc := range cases {
		got, err := ParseView(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q: expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrUnknownView) {
			t.Fatalf("%q: expected ErrUnknownView, got %v", tc.in, err)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"tab\there", "tab\there"},
		{"null\x00byte", "nullbyte"},
		{"bell\x07ring", "bellring"},
		{"multi\nline", "multi\nline"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := SanitizeText(tc.in); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
