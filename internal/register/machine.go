// Package register sequences the three-step registration flow: entry
// guards over the persisted draft, per-step validation, the pay-to-proceed
// confirmation, and the final combined submission.
package register

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxrental/client/internal/api"
	"github.com/fxrental/client/internal/model"
	"github.com/fxrental/client/internal/store"
	"github.com/fxrental/client/internal/validate"
)

// Step identifies a position in the registration flow.
type Step int

const (
	StepOne Step = iota + 1
	StepTwo
	StepThree
	Completed
)

func (s Step) String() string {
	switch s {
	case StepOne:
		return "step-one"
	case StepTwo:
		return "step-two"
	case StepThree:
		return "step-three"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// CompletionDelay is how long the transient confirmation stays up before the
// machine navigates to the login entry point.
const CompletionDelay = 3 * time.Second

// ErrPaymentDeclined reports that the user declined the pay-to-proceed
// prompt on step two. The machine stays where it is.
var ErrPaymentDeclined = errors.New("payment not confirmed")

// ErrNoUserID reports a step-three submission without a server-issued
// identity reference in the store.
var ErrNoUserID = errors.New("no registered account for this draft")

// PaymentConfirmer is the explicit user confirmation of the pay-to-proceed
// prompt shown when leaving step two.
type PaymentConfirmer interface {
	ConfirmPayment(prompt string) bool
}

// Navigator is the host's navigation capability; the machine only ever asks
// for the login entry point, after completion.
type Navigator interface {
	NavigateToLogin()
}

// Decision is the result of a step entry guard: either proceed, or redirect
// to another step. A failed guard is a redirect, not an error.
type Decision struct {
	Proceed  bool
	Redirect Step
}

// Machine drives the three-step flow over a persisted draft. One draft slot
// is in flight at a time; submissions never retry on their own.
type Machine struct {
	api     *api.Client
	store   store.Store
	confirm PaymentConfirmer
	nav     Navigator

	delay time.Duration
	after func(time.Duration, func()) *time.Timer

	step Step
}

// NewMachine wires a registration machine starting at step one.
func NewMachine(client *api.Client, st store.Store, confirm PaymentConfirmer, nav Navigator, opts ...Option) *Machine {
	m := &Machine{
		api:     client,
		store:   st,
		confirm: confirm,
		nav:     nav,
		delay:   CompletionDelay,
		after:   time.AfterFunc,
		step:    StepOne,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Option customises a Machine.
type Option func(*Machine)

// WithCompletionDelay overrides the confirmation delay.
func WithCompletionDelay(d time.Duration) Option {
	return func(m *Machine) { m.delay = d }
}

// WithAfterFunc replaces the timer used for the post-completion navigation
// (tests fire it synchronously).
func WithAfterFunc(after func(time.Duration, func()) *time.Timer) Option {
	return func(m *Machine) { m.after = after }
}

// Step reports the machine's current step.
func (m *Machine) Step() Step {
	return m.step
}

// Enter evaluates the guard for entering a step. Steps two and three require
// a persisted draft; without one the decision is a redirect back to step one.
func (m *Machine) Enter(step Step) (Decision, error) {
	switch step {
	case StepTwo, StepThree:
		_, ok, err := store.LoadDraft(m.store)
		if err != nil {
			return Decision{}, err
		}
		if !ok {
			m.step = StepOne
			return Decision{Redirect: StepOne}, nil
		}
	}
	m.step = step
	return Decision{Proceed: true}, nil
}

// SubmitStepOne validates the first step's fields and persists the draft.
// A non-empty error map blocks advancement and nothing is persisted.
func (m *Machine) SubmitStepOne(f validate.StepOneFields) (map[string]string, error) {
	if errs := validate.StepOne(f); len(errs) > 0 {
		return errs, nil
	}
	draft := model.RegistrationDraft{
		FullName: f.FullName,
		Email:    f.Email,
		Password: f.Password,
	}
	if err := store.SaveDraft(m.store, draft); err != nil {
		return nil, fmt.Errorf("persist draft: %w", err)
	}
	m.step = StepTwo
	return nil, nil
}

// SubmitStepTwo validates the phone number, asks for explicit confirmation
// of the pay-to-proceed prompt, registers the account server-side and merges
// the phone number into the draft. A declined prompt keeps the machine in
// step two with no side effects.
func (m *Machine) SubmitStepTwo(ctx context.Context, f validate.StepTwoFields) (map[string]string, error) {
	if errs := validate.StepTwo(f); len(errs) > 0 {
		return errs, nil
	}

	draft, ok, err := store.LoadDraft(m.store)
	if err != nil {
		return nil, err
	}
	if !ok {
		m.step = StepOne
		return nil, nil
	}

	if !m.confirm.ConfirmPayment("A one-time activation fee is required to proceed. Pay now?") {
		return nil, ErrPaymentDeclined
	}

	userID, err := m.api.Register(ctx, api.RegisterRequest{
		FullName:        draft.FullName,
		Email:           draft.Email,
		Password:        draft.Password,
		ConfirmPassword: draft.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}

	if err := m.store.Set(store.KeyUserID, userID); err != nil {
		return nil, fmt.Errorf("persist user id: %w", err)
	}
	draft.PhoneNumber = f.PhoneNumber
	if err := store.SaveDraft(m.store, draft); err != nil {
		return nil, fmt.Errorf("persist draft: %w", err)
	}
	m.step = StepThree
	return nil, nil
}

// SubmitStepThree validates the final step, merges its fields into the draft
// and submits the combined draft with the server-issued identity reference.
// On success the draft is cleared and, after the confirmation delay, the
// navigator is sent to the login entry point. On failure the machine stays in
// step three; the user resubmits manually.
func (m *Machine) SubmitStepThree(ctx context.Context, f validate.StepThreeFields) (map[string]string, error) {
	if errs := validate.StepThree(f); len(errs) > 0 {
		return errs, nil
	}

	draft, ok, err := store.LoadDraft(m.store)
	if err != nil {
		return nil, err
	}
	if !ok {
		m.step = StepOne
		return nil, nil
	}

	userID, ok, err := m.store.Get(store.KeyUserID)
	if err != nil {
		return nil, err
	}
	if !ok || userID == "" {
		return nil, ErrNoUserID
	}

	draft.FullName = f.FullName
	draft.IDNumber = f.IDNumber
	draft.DateOfBirth = f.DateOfBirth
	draft.Address = f.Address

	if err := m.api.SubmitStepThree(ctx, userID, draft); err != nil {
		return nil, fmt.Errorf("submit registration: %w", err)
	}

	if err := store.ClearDraft(m.store); err != nil {
		return nil, fmt.Errorf("clear draft: %w", err)
	}
	m.step = Completed
	m.after(m.delay, m.nav.NavigateToLogin)
	return nil, nil
}

// RegisterOnce is the single-page registration variant: one validation pass,
// one request, no draft and no payment prompt. It exists alongside the step
// flow; the two are deliberately not unified.
func RegisterOnce(ctx context.Context, client *api.Client, f validate.SignupFields) (map[string]string, error) {
	if errs := validate.Signup(f); len(errs) > 0 {
		return errs, nil
	}
	_, err := client.Register(ctx, api.RegisterRequest{
		FullName:        f.FullName,
		Email:           f.Email,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}
	return nil, nil
}
