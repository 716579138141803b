package register

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxrental/client/internal/api"
	"github.com/fxrental/client/internal/model"
	"github.com/fxrental/client/internal/store"
	"github.com/fxrental/client/internal/validate"
)

type fakeConfirmer struct {
	accept bool
	asked  int
}

func (c *fakeConfirmer) ConfirmPayment(string) bool {
	c.asked++
	return c.accept
}

type fakeNavigator struct {
	navigated int
}

func (n *fakeNavigator) NavigateToLogin() { n.navigated++ }

// registerBackend stubs the two endpoints the machine submits to.
type registerBackend struct {
	userID        string
	failStepThree bool
	stepThreePuts []map[string]any
}

func (b *registerBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"user_id": b.userID})
	})
	mux.HandleFunc("/api/user/register/step-three/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.stepThreePuts = append(b.stepThreePuts, body)
		if b.failStepThree {
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "upstream unavailable"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "registration complete"})
	})
	return mux
}

// syncTimer fires the completion callback immediately and records the delay.
func syncTimer(recorded *time.Duration) func(time.Duration, func()) *time.Timer {
	return func(d time.Duration, fn func()) *time.Timer {
		*recorded = d
		fn()
		return nil
	}
}

func newTestMachine(t *testing.T, backend *registerBackend, confirm *fakeConfirmer, nav *fakeNavigator) (*Machine, *store.Memory, *time.Duration) {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	st := store.NewMemory()
	var delay time.Duration
	m := NewMachine(api.New(srv.URL), st, confirm, nav, WithAfterFunc(syncTimer(&delay)))
	return m, st, &delay
}

func stepOneFields() validate.StepOneFields {
	return validate.StepOneFields{
		FullName: "Jane Wanjiku",
		Email:    "jane@example.com",
		Password: "secret1",
	}
}

func stepThreeFields() validate.StepThreeFields {
	return validate.StepThreeFields{
		FullName:    "Jane Wanjiku",
		IDNumber:    "12345678",
		DateOfBirth: "1990-04-02",
		Address:     "Nairobi",
	}
}

func TestEnter_missingDraftRedirectsToStepOne(t *testing.T) {
	m, _, _ := newTestMachine(t, &registerBackend{}, &fakeConfirmer{}, &fakeNavigator{})

	for _, step := range []Step{StepTwo, StepThree} {
		decision, err := m.Enter(step)
		require.NoError(t, err)
		assert.False(t, decision.Proceed)
		assert.Equal(t, StepOne, decision.Redirect, "entering %s without a draft must redirect", step)
		assert.Equal(t, StepOne, m.Step())
	}
}

func TestEnter_withDraftProceeds(t *testing.T) {
	m, st, _ := newTestMachine(t, &registerBackend{}, &fakeConfirmer{}, &fakeNavigator{})
	require.NoError(t, store.SaveDraft(st, model.RegistrationDraft{FullName: "Jane", Email: "j@x.co", Password: "secret1"}))

	decision, err := m.Enter(StepTwo)
	require.NoError(t, err)
	assert.True(t, decision.Proceed)
	assert.Equal(t, StepTwo, m.Step())
}

func TestSubmitStepOne_invalidEmailNeverPersists(t *testing.T) {
	m, st, _ := newTestMachine(t, &registerBackend{}, &fakeConfirmer{}, &fakeNavigator{})

	fields := stepOneFields()
	fields.Email = "janeexample.com"
	errs, err := m.SubmitStepOne(fields)
	require.NoError(t, err)
	assert.NotEmpty(t, errs["email"])
	assert.Equal(t, StepOne, m.Step())

	_, ok, err := store.LoadDraft(st)
	require.NoError(t, err)
	assert.False(t, ok, "invalid step one must not persist a draft")
}

func TestSubmitStepOne_persistsDraftAndAdvances(t *testing.T) {
	m, st, _ := newTestMachine(t, &registerBackend{}, &fakeConfirmer{}, &fakeNavigator{})

	errs, err := m.SubmitStepOne(stepOneFields())
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, StepTwo, m.Step())

	draft, ok, err := store.LoadDraft(st)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", draft.Email)
}

func TestSubmitStepTwo_declinedPaymentStays(t *testing.T) {
	confirm := &fakeConfirmer{accept: false}
	m, st, _ := newTestMachine(t, &registerBackend{userID: "u-1"}, confirm, &fakeNavigator{})

	_, err := m.SubmitStepOne(stepOneFields())
	require.NoError(t, err)

	_, err = m.SubmitStepTwo(context.Background(), validate.StepTwoFields{PhoneNumber: "0712345678"})
	require.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Equal(t, StepTwo, m.Step())
	assert.Equal(t, 1, confirm.asked)

	_, ok, _ := st.Get(store.KeyUserID)
	assert.False(t, ok, "declined payment must not register the account")
}

func TestSubmitStepTwo_confirmedRegistersAndMergesPhone(t *testing.T) {
	userID := "3f1b8c5e-4c1d-4b26-9c4e-0a8c2f1d5e77"
	confirm := &fakeConfirmer{accept: true}
	m, st, _ := newTestMachine(t, &registerBackend{userID: userID}, confirm, &fakeNavigator{})

	_, err := m.SubmitStepOne(stepOneFields())
	require.NoError(t, err)

	errs, err := m.SubmitStepTwo(context.Background(), validate.StepTwoFields{PhoneNumber: "0712345678"})
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, StepThree, m.Step())

	stored, ok, _ := st.Get(store.KeyUserID)
	require.True(t, ok)
	assert.Equal(t, userID, stored)

	draft, ok, err := store.LoadDraft(st)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0712345678", draft.PhoneNumber)
}

func TestSubmitStepTwo_invalidPhoneRejected(t *testing.T) {
	confirm := &fakeConfirmer{accept: true}
	m, _, _ := newTestMachine(t, &registerBackend{userID: "u-1"}, confirm, &fakeNavigator{})

	_, err := m.SubmitStepOne(stepOneFields())
	require.NoError(t, err)

	errs, err := m.SubmitStepTwo(context.Background(), validate.StepTwoFields{PhoneNumber: "0812345678"})
	require.NoError(t, err)
	assert.NotEmpty(t, errs["phoneNumber"])
	assert.Equal(t, StepTwo, m.Step())
	assert.Zero(t, confirm.asked, "validation failure must precede the payment prompt")
}

func TestSubmitStepThree_completesAndNavigatesAfterDelay(t *testing.T) {
	userID := "3f1b8c5e-4c1d-4b26-9c4e-0a8c2f1d5e77"
	backend := &registerBackend{userID: userID}
	nav := &fakeNavigator{}
	m, st, delay := newTestMachine(t, backend, &fakeConfirmer{accept: true}, nav)

	_, err := m.SubmitStepOne(stepOneFields())
	require.NoError(t, err)
	_, err = m.SubmitStepTwo(context.Background(), validate.StepTwoFields{PhoneNumber: "0712345678"})
	require.NoError(t, err)

	errs, err := m.SubmitStepThree(context.Background(), stepThreeFields())
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, Completed, m.Step())

	// Exactly one PUT carrying every draft field plus user_id.
	require.Len(t, backend.stepThreePuts, 1)
	body := backend.stepThreePuts[0]
	assert.Equal(t, userID, body["user_id"])
	assert.Equal(t, "Jane Wanjiku", body["full_name"])
	assert.Equal(t, "jane@example.com", body["email"])
	assert.Equal(t, "0712345678", body["phone_number"])
	assert.Equal(t, "12345678", body["id_number"])
	assert.Equal(t, "1990-04-02", body["date_of_birth"])
	assert.Equal(t, "Nairobi", body["address"])

	// Draft cleared, navigation after the fixed delay.
	_, ok, _ := store.LoadDraft(st)
	assert.False(t, ok)
	_, ok, _ = st.Get(store.KeyUserID)
	assert.False(t, ok)
	assert.Equal(t, 1, nav.navigated)
	assert.Equal(t, CompletionDelay, *delay)
}

func TestSubmitStepThree_serverFailureStays(t *testing.T) {
	backend := &registerBackend{userID: "3f1b8c5e-4c1d-4b26-9c4e-0a8c2f1d5e77", failStepThree: true}
	nav := &fakeNavigator{}
	m, st, _ := newTestMachine(t, backend, &fakeConfirmer{accept: true}, nav)

	_, err := m.SubmitStepOne(stepOneFields())
	require.NoError(t, err)
	_, err = m.SubmitStepTwo(context.Background(), validate.StepTwoFields{PhoneNumber: "0712345678"})
	require.NoError(t, err)

	_, err = m.SubmitStepThree(context.Background(), stepThreeFields())
	require.Error(t, err)
	assert.Equal(t, StepThree, m.Step(), "failed submission must not advance")
	assert.Zero(t, nav.navigated)

	_, ok, _ := store.LoadDraft(st)
	assert.True(t, ok, "draft survives a failed submission")

	// Manual resubmission issues a fresh request; nothing retried on its own.
	backend.failStepThree = false
	_, err = m.SubmitStepThree(context.Background(), stepThreeFields())
	require.NoError(t, err)
	assert.Equal(t, Completed, m.Step())
	assert.Len(t, backend.stepThreePuts, 2)
}

func TestSubmitStepThree_withoutUserID(t *testing.T) {
	m, st, _ := newTestMachine(t, &registerBackend{}, &fakeConfirmer{accept: true}, &fakeNavigator{})
	require.NoError(t, store.SaveDraft(st, model.RegistrationDraft{FullName: "Jane", Email: "j@x.co", Password: "secret1"}))

	_, err := m.SubmitStepThree(context.Background(), stepThreeFields())
	require.ErrorIs(t, err, ErrNoUserID)
}
