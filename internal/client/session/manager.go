// Package session owns the signed-in user of this client and the
// login/signup/logout lifecycle.
//
// Accounts are checked against the local registry (users.Repository):
//
//   - email and password must be non-empty (email is trimmed); signup also
//     needs a non-empty name. Otherwise ErrInvalidInput.
//   - signup fails with ErrEmailTaken if the email is registered, compared
//     case-insensitively.
//   - login succeeds only for a registered email with the matching password;
//     any other combination is ErrInvalidCredentials.
//
// At most one login or signup runs at a time per Manager. A second call made
// while one is pending fails at once with ErrAuthBusy; it is not queued.
//
// The session itself is never persisted: a new Manager starts signed out.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/retrorevive/internal/client/models"
	"github.com/dmitrijs2005/retrorevive/internal/client/repositories/users"
	"github.com/dmitrijs2005/retrorevive/internal/common"
	"github.com/dmitrijs2005/retrorevive/internal/cryptox"
	"github.com/dmitrijs2005/retrorevive/internal/logging"
)

// Manager holds the current user and runs login, signup and logout.
type Manager struct {
	users  users.Repository
	logger logging.Logger
	now    func() time.Time

	// latency runs while an auth call is pending.
	latency func(ctx context.Context) error

	pending atomic.Bool

	mu      sync.RWMutex
	current *models.User
}

// Option configures a Manager.
type Option func(*Manager)

// WithDelay makes every login and signup take d before it resolves,
// the way a remote auth call would.
func WithDelay(d time.Duration) Option {
	return func(m *Manager) {
		m.latency = func(ctx context.Context) error { return sleep(ctx, d) }
	}
}

// WithClock overrides the time source used for account creation dates.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a signed-out Manager checking accounts against repo.
func NewManager(repo users.Repository, logger logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		users:   repo,
		logger:  logger.With("component", "session"),
		now:     time.Now,
		latency: func(ctx context.Context) error { return ctx.Err() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login signs in a registered account and makes it the current user.
func (m *Manager) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	var user *models.User
	err := m.run(ctx, func() error {
		acc, err := m.users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrInvalidCredentials
			}
			return fmt.Errorf("account lookup: %w", err)
		}
		if !cryptox.Verify(password, acc.Salt, acc.Verifier) {
			return ErrInvalidCredentials
		}
		u := acc.User
		user = &u
		return nil
	})
	if err != nil {
		m.logger.Info(ctx, "login rejected", "email", email, "error", err)
		return nil, err
	}

	m.setCurrent(user)
	m.logger.Info(ctx, "logged in", "user_id", user.ID)
	return copyUser(user), nil
}

// Signup registers a new account with a fresh id and signs it in.
func (m *Manager) Signup(ctx context.Context, email string, password []byte, name string) (*models.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || len(password) == 0 || name == "" {
		return nil, fmt.Errorf("%w: email, password and name are required", ErrInvalidInput)
	}

	var user *models.User
	err := m.run(ctx, func() error {
		_, err := m.users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			return ErrEmailTaken
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("account lookup: %w", err)
		}

		salt := common.GenerateRandByteArray(common.SaltSize)
		acc := &models.Account{
			User:      models.User{ID: uuid.NewString(), Email: email, Name: name},
			Salt:      salt,
			Verifier:  cryptox.MakeVerifier(cryptox.DeriveKey(password, salt)),
			CreatedAt: models.FormatUploadDate(m.now()),
		}
		if err := m.users.Create(ctx, acc); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return ErrEmailTaken
			}
			return fmt.Errorf("create account: %w", err)
		}
		u := acc.User
		user = &u
		return nil
	})
	if err != nil {
		m.logger.Info(ctx, "signup rejected", "email", email, "error", err)
		return nil, err
	}

	m.setCurrent(user)
	m.logger.Info(ctx, "signed up", "user_id", user.ID)
	return copyUser(user), nil
}

// Logout forgets the current user. Calling it while signed out does nothing.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	prev := m.current
	m.current = nil
	m.mu.Unlock()

	if prev != nil {
		m.logger.Info(ctx, "logged out", "user_id", prev.ID)
	}
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (m *Manager) CurrentUser() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyUser(m.current)
}

// Pending reports whether a login or signup is in flight.
func (m *Manager) Pending() bool {
	return m.pending.Load()
}

// run executes fn as the single in-flight auth operation, after the
// configured latency.
func (m *Manager) run(ctx context.Context, fn func() error) error {
	if !m.pending.CompareAndSwap(false, true) {
		return ErrAuthBusy
	}
	defer m.pending.Store(false)

	if err := m.latency(ctx); err != nil {
		return err
	}
	return fn()
}

func (m *Manager) setCurrent(u *models.User) {
	m.mu.Lock()
	m.current = u
	m.mu.Unlock()
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
