package stub

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fxrental/client/internal/model"
)

var (
	// ErrNotFound reports a lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken rejects a duplicate registration.
	ErrEmailTaken = errors.New("email already registered")
	// ErrBadCredentials rejects a login with a wrong email or password.
	ErrBadCredentials = errors.New("invalid email or password")
)

// User is a platform account held by the stub.
type User struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	PasswordHash []byte
	IsSuperuser  bool
	PhoneNumber  string
	KYC          model.KYC
	CreatedAt    time.Time
}

// UserRepo is the stub's in-memory account storage. It plays the role the
// real backend's database does, just enough for development and tests.
type UserRepo struct {
	mu       sync.RWMutex
	byEmail  map[string]*User
	byID     map[uuid.UUID]*User
	sessions map[uuid.UUID][]model.RemoteSession
}

// NewUserRepo creates an empty repo.
func NewUserRepo() *UserRepo {
	return &UserRepo{
		byEmail:  make(map[string]*User),
		byID:     make(map[uuid.UUID]*User),
		sessions: make(map[uuid.UUID][]model.RemoteSession),
	}
}

// Create registers a new user with a bcrypt-hashed password.
func (r *UserRepo) Create(fullName, email, password string, superuser bool) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[email]; exists {
		return nil, ErrEmailTaken
	}

	u := &User{
		ID:           uuid.New(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		IsSuperuser:  superuser,
		CreatedAt:    time.Now(),
	}
	r.byEmail[email] = u
	r.byID[u.ID] = u
	return u, nil
}

// Authenticate checks credentials and returns the matching user.
func (r *UserRepo) Authenticate(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	r.mu.RLock()
	u, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// GetByID looks a user up by id.
func (r *UserRepo) GetByID(id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

// GetOrCreateByEmail returns the user with the given email, creating a
// passwordless account when none exists. Used by the google-login path.
func (r *UserRepo) GetOrCreateByEmail(fullName, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	u := &User{
		ID:        uuid.New(),
		FullName:  fullName,
		Email:     email,
		CreatedAt: time.Now(),
	}
	r.byEmail[email] = u
	r.byID[u.ID] = u
	return u, nil
}

// UpdateKYC overwrites the user's identity verification record.
func (r *UserRepo) UpdateKYC(id uuid.UUID, kyc model.KYC) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.KYC = kyc
	return nil
}

// CompleteRegistration applies the final step-three submission: phone plus
// KYC fields merged onto the account.
func (r *UserRepo) CompleteRegistration(id uuid.UUID, fullName, phone string, kyc model.KYC) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if fullName != "" {
		u.FullName = fullName
	}
	u.PhoneNumber = phone
	u.KYC = kyc
	return nil
}

// RecordSession appends a session entry for the user.
func (r *UserRepo) RecordSession(id uuid.UUID, ip, userAgent string) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = append(r.sessions[id], model.RemoteSession{
		ID:           uuid.NewString(),
		IP:           ip,
		UserAgent:    userAgent,
		CreatedAt:    now,
		LastActivity: now,
	})
}

// Sessions lists the user's recorded sessions.
func (r *UserRepo) Sessions(id uuid.UUID) []model.RemoteSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.RemoteSession, len(r.sessions[id]))
	copy(out, r.sessions[id])
	return out
}
