// Package session owns the controller state of a running app instance:
// the expense log, the active view, and the commands that change them.
//
// Commands mirror user intent. SubmitExpense validates raw form fields,
// appends a record and lands the user on the dashboard; SwitchView flips
// the visible screen. A mutex serializes commands so state transitions
// stay whole under concurrent requests.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"spendlog/internal/core"
	"spendlog/internal/log"
	"spendlog/internal/store"
)

// NoticeDuration is how long a notice stays visible before auto-hiding.
// Every notice, success or error, uses the same duration.
const NoticeDuration = 2 * time.Second

// SuccessMessage confirms a recorded expense.
const SuccessMessage = "Expense added successfully."

// InvalidMessage is the single message shown for any rejected
// submission, whichever field caused the rejection.
const InvalidMessage = "Please fill in all fields."

// FormFields carries raw form input exactly as the adapter received it.
type FormFields struct {
	Description string
	Amount      string
	Category    string
	Date        string
}

// State is a self-contained snapshot handed to the renderer.
type State struct {
	Expenses []core.Expense
	Active   core.View
	Today    core.Date
}

// Session is the single controller behind the HTTP adapter. All mutable
// state lives here or in the store; handlers hold none of it.
type Session struct {
	mu     sync.Mutex
	store  *store.Store
	active core.View
	logger *log.Logger

	// swappable in tests
	now   func() time.Time
	newID func() uuid.UUID
}

func New(st *store.Store, logger *log.Logger) *Session {
	return &Session{
		store:  st,
		active: core.DefaultView,
		logger: logger.WithComponent(log.ComponentSession),
		now:    time.Now,
		newID:  newExpenseID,
	}
}

// newExpenseID returns a UUIDv7, so ids carry the submission timestamp
// and sort in insertion order.
func newExpenseID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// SubmitExpense validates raw form input and, if every field passes,
// appends a new record and switches the active view to the dashboard.
// On failure the log and the active view stay untouched and the returned
// error wraps both core.ErrInvalidSubmission and the field cause.
func (s *Session) SubmitExpense(ctx context.Context, f FormFields) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.buildExpense(f)
	if err != nil {
		s.logger.WarnContext(ctx, "Submission rejected",
			log.FieldOperation, log.OpSubmit,
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeValidation)
		return core.Expense{}, err
	}

	ref := s.store.Append(e)
	s.active = core.ViewDashboard

	s.logger.InfoContext(ctx, "Expense recorded",
		log.FieldOperation, log.OpSubmit,
		log.FieldExpenseID, e.ID.String(),
		log.FieldExpenseDesc, e.Description,
		log.FieldAmountCents, e.Amount.Cents,
		log.FieldCategory, e.Category,
		log.FieldExpenseDate, e.Date.ISO(),
		log.FieldEntryRef, ref)

	return e, nil
}

func (s *Session) buildExpense(f FormFields) (core.Expense, error) {
	desc := core.SanitizeText(f.Description)
	if desc == "" {
		return core.Expense{}, invalid(core.ErrEmptyDescription)
	}
	cents, err := core.ParseAmountToCents(f.Amount)
	if err != nil {
		return core.Expense{}, invalid(err)
	}
	date, err := core.ParseDate(f.Date)
	if err != nil {
		return core.Expense{}, invalid(err)
	}
	e := core.Expense{
		ID:          s.newID(),
		Date:        date,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Category:    core.SanitizeText(f.Category),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, invalid(err)
	}
	return e, nil
}

// invalid marks a field error as a rejected submission.
func invalid(cause error) error {
	return fmt.Errorf("%w: %w", core.ErrInvalidSubmission, cause)
}

// SwitchView makes the identified view the active one. Unknown
// identifiers leave the current view in place and return
// core.ErrUnknownView.
func (s *Session) SwitchView(ctx context.Context, id string) (core.View, error) {
	v, err := core.ParseView(id)
	if err != nil {
		s.logger.WarnContext(ctx, "Rejected view switch",
			log.FieldOperation, log.OpSwitch,
			log.FieldView, id,
			log.FieldErrorType, log.ErrorTypeNotFound)
		return s.ActiveView(), err
	}

	s.mu.Lock()
	s.active = v
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "View switched",
		log.FieldOperation, log.OpSwitch,
		log.FieldView, v.String())
	return v, nil
}

// ActiveView reports which view is currently shown.
func (s *Session) ActiveView() core.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ExpenseCount reports how many expenses the log holds.
func (s *Session) ExpenseCount() int {
	return s.store.Len()
}

// Snapshot captures everything the renderer needs: the full expense log,
// the active view, and today's date for the form default.
func (s *Session) Snapshot() State {
	// Held across the store read so a concurrent submit cannot slip its
	// append in between reading the view and reading the log.
	s.mu.Lock()
	defer s.mu.Unlock()

	y, m, d := s.now().UTC().Date()
	return State{
		Expenses: s.store.All(),
		Active:   s.active,
		Today:    core.NewDate(y, int(m), d),
	}
}
