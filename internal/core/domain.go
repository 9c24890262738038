// Package core defines the expense record, the two screen identifiers,
// and the parsing rules applied to raw form input.
package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// ViewLogger is the entry form screen and the one a fresh session shows.
	ViewLogger View = "logger"
	// ViewDashboard is the totals-and-history screen.
	ViewDashboard View = "dashboard"
)

// DefaultView is the screen active before any switch command runs.
const DefaultView = ViewLogger

type (
	// View identifies one of the screens the app can show.
	View string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID          uuid.UUID
		Date        Date
		Description string
		Amount      Money
		Category    string // free-form label, stored as submitted
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyDate        = errors.New("empty date")
	ErrInvalidDate      = errors.New("invalid date")
	ErrUnknownView      = errors.New("unknown view")

	// ErrInvalidSubmission wraps every field error produced while turning
	// form input into an expense record, so callers can match the class
	// with errors.Is and the cause with a second Is.
	ErrInvalidSubmission = errors.New("invalid submission")
)

// DateLayout is the wire format for dates; HTML date inputs emit it.
const DateLayout = "2006-01-02"

// DisplayDateLayout is how dates appear in rendered expense lists.
const DisplayDateLayout = "Jan 2, 2006"

// NewDate creates a Date pinned to midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate reads a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrEmptyDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrEmptyDate
	}
	return nil
}

// ISO returns the date in YYYY-MM-DD form.
func (d Date) ISO() string {
	return d.Format(DateLayout)
}

// Display returns the date as shown in expense lists, e.g. "Jan 10, 2024".
func (d Date) Display() string {
	return d.Format(DisplayDateLayout)
}

// Validate rejects a zero amount. Sign is not checked: negative amounts
// model refunds and corrections and are stored like any other entry.
func (m Money) Validate() error {
	if m.Cents == 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	// Category stays unchecked; whatever the form sent is kept verbatim.
	return nil
}

// ParseView maps a wire identifier to a View.
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewLogger, ViewDashboard:
		return v, nil
	default:
		return "", ErrUnknownView
	}
}

func (v View) String() string { return string(v) }

// SanitizeText trims surrounding whitespace and strips control characters
// except tab, newline and carriage return.
func SanitizeText(input string) string {
	trimmed := strings.TrimSpace(input)
	var b strings.Builder
	for _, r := range trimmed {
		if r >= 32 || r == 9 || r == 10 || r == 13 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
