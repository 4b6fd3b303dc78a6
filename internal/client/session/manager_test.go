package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/retrorevive/internal/client/device"
	"github.com/dmitrijs2005/retrorevive/internal/client/models"
	"github.com/dmitrijs2005/retrorevive/internal/common"
	"github.com/dmitrijs2005/retrorevive/internal/filex"
	"github.com/dmitrijs2005/retrorevive/internal/logging"
)

// fakeUsers is an in-memory users.Repository.
type fakeUsers struct {
	mu        sync.Mutex
	byEmail   map[string]models.Account
	getErr    error
	createErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]models.Account{}}
}

func (f *fakeUsers) Create(_ context.Context, acc *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	k := strings.ToLower(acc.Email)
	if _, ok := f.byEmail[k]; ok {
		return common.ErrorAlreadyExists
	}
	f.byEmail[k] = *acc
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	acc, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &acc, nil
}

func newManager(t *testing.T, opts ...Option) (*Manager, *fakeUsers) {
	t.Helper()
	repo := newFakeUsers()
	return NewManager(repo, logging.Nop(), opts...), repo
}

func TestSignupThenLogin_RoundTrip(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	created, err := m.Signup(ctx, "a@x.com", []byte("pw"), "Ann")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "a@x.com", created.Email)
	assert.Equal(t, "Ann", created.Name)
	assert.Equal(t, created, m.CurrentUser())

	m.Logout(ctx)
	require.Nil(t, m.CurrentUser())

	got, err := m.Login(ctx, "a@x.com", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "a@x.com", m.CurrentUser().Email)
}

func TestSignup_IDsAreUnique(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	u1, err := m.Signup(ctx, "a@x.com", []byte("pw"), "Ann")
	require.NoError(t, err)
	u2, err := m.Signup(ctx, "b@x.com", []byte("pw"), "Bob")
	require.NoError(t, err)
	assert.NotEqual(t, u1.ID, u2.ID)
	assert.Equal(t, "b@x.com", m.CurrentUser().Email, "signup switches the current user")
}

func TestSignup_StoresVerifierNotPassword(t *testing.T) {
	m, repo := newManager(t)
	_, err := m.Signup(context.Background(), "a@x.com", []byte("pw"), "Ann")
	require.NoError(t, err)

	acc := repo.byEmail["a@x.com"]
	assert.Len(t, acc.Salt, common.SaltSize)
	assert.NotContains(t, string(acc.Verifier), "pw")
	assert.NotEmpty(t, acc.CreatedAt)
}

func TestLogin_Rejections(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	_, err := m.Signup(ctx, "a@x.com", []byte("pw"), "Ann")
	require.NoError(t, err)
	m.Logout(ctx)

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{name: "wrong password", email: "a@x.com", password: "nope", want: ErrInvalidCredentials},
		{name: "unknown email", email: "z@x.com", password: "pw", want: ErrInvalidCredentials},
		{name: "empty email", email: "   ", password: "pw", want: ErrInvalidInput},
		{name: "empty password", email: "a@x.com", password: "", want: ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := m.Login(ctx, tt.email, []byte(tt.password))
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, ErrAuth)
			assert.Nil(t, u)
			assert.Nil(t, m.CurrentUser())
			assert.False(t, m.Pending())
		})
	}
}

func TestSignup_Rejections(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	_, err := m.Signup(ctx, "a@x.com", []byte("pw"), "Ann")
	require.NoError(t, err)

	tests := []struct {
		name  string
		email string
		pass  string
		uname string
		want  error
	}{
		{name: "taken", email: "a@x.com", pass: "pw2", uname: "Other", want: ErrEmailTaken},
		{name: "taken other case", email: " A@X.COM ", pass: "pw2", uname: "Other", want: ErrEmailTaken},
		{name: "empty name", email: "n@x.com", pass: "pw", uname: "  ", want: ErrInvalidInput},
		{name: "empty email", email: "", pass: "pw", uname: "N", want: ErrInvalidInput},
		{name: "empty password", email: "n@x.com", pass: "", uname: "N", want: ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Signup(ctx, tt.email, []byte(tt.pass), tt.uname)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, ErrAuth)
		})
	}
	assert.Equal(t, "a@x.com", m.CurrentUser().Email, "failed signups keep the current user")
}

func TestSignup_CreateRaceMapsToEmailTaken(t *testing.T) {
	m, repo := newManager(t)
	repo.createErr = common.ErrorAlreadyExists

	_, err := m.Signup(context.Background(), "a@x.com", []byte("pw"), "Ann")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRepositoryErrorsAreNotAuthErrors(t *testing.T) {
	m, repo := newManager(t)
	down := errors.New("db down")
	repo.getErr = down

	_, err := m.Login(context.Background(), "a@x.com", []byte("pw"))
	require.ErrorIs(t, err, down)
	require.NotErrorIs(t, err, ErrAuth)

	_, err = m.Signup(context.Background(), "a@x.com", []byte("pw"), "Ann")
	require.ErrorIs(t, err, down)
}

func TestLogout_WhenSignedOut_IsNoop(t *testing.T) {
	m, _ := newManager(t)

	require.NotPanics(t, func() {
		m.Logout(context.Background())
		m.Logout(context.Background())
	})
	assert.Nil(t, m.CurrentUser())
}

func TestSecondAuthWhilePending_IsBusy(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	_, err := m.Signup(ctx, "a@x.com", []byte("pw"), "Ann")
	require.NoError(t, err)
	m.Logout(ctx)

	started := make(chan struct{})
	release := make(chan struct{})
	m.latency = func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}

	var (
		first    *models.User
		firstErr error
		done     = make(chan struct{})
	)
	go func() {
		defer close(done)
		first, firstErr = m.Login(ctx, "a@x.com", []byte("pw"))
	}()

	<-started
	assert.True(t, m.Pending())

	_, err = m.Login(ctx, "a@x.com", []byte("pw"))
	require.ErrorIs(t, err, ErrAuthBusy)
	_, err = m.Signup(ctx, "b@x.com", []byte("pw"), "Bob")
	require.ErrorIs(t, err, ErrAuthBusy)

	close(release)
	<-done
	require.NoError(t, firstErr)
	assert.Equal(t, "a@x.com", first.Email)
	assert.False(t, m.Pending())
}

func TestCancelledWhilePending_LeavesSessionUntouched(t *testing.T) {
	m, _ := newManager(t, WithDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Signup(ctx, "a@x.com", []byte("pw"), "Ann")
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, m.CurrentUser())
	assert.False(t, m.Pending())
}

func TestWithDelay_Elapses(t *testing.T) {
	m, _ := newManager(t, WithDelay(20*time.Millisecond))

	start := time.Now()
	_, err := m.Signup(context.Background(), "a@x.com", []byte("pw"), "Ann")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestWithClock_SetsCreatedAt(t *testing.T) {
	fixed := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	m, repo := newManager(t, WithClock(func() time.Time { return fixed }))

	_, err := m.Signup(context.Background(), "a@x.com", []byte("pw"), "Ann")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-17T08:00:00.000Z", repo.byEmail["a@x.com"].CreatedAt)
}

func TestCurrentUser_ReturnsCopy(t *testing.T) {
	m, _ := newManager(t)
	_, err := m.Signup(context.Background(), "a@x.com", []byte("pw"), "Ann")
	require.NoError(t, err)

	u := m.CurrentUser()
	u.Name = "Mallory"
	assert.Equal(t, "Ann", m.CurrentUser().Name)
}

func TestManager_WithDeviceRegistry(t *testing.T) {
	ctx := context.Background()
	repos, err := device.InitDatabase(ctx, filex.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	m := NewManager(repos.Users, logging.Nop())
	_, err = m.Signup(ctx, "a@x.com", []byte("pw"), "Ann")
	require.NoError(t, err)

	// A fresh manager over the same registry starts signed out but can log in.
	m2 := NewManager(repos.Users, logging.Nop())
	require.Nil(t, m2.CurrentUser())
	u, err := m2.Login(ctx, "A@x.com", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)

	_, err = m2.Signup(ctx, "a@x.com", []byte("other"), "Imposter")
	require.ErrorIs(t, err, ErrEmailTaken)
}
