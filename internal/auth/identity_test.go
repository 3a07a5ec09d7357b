package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage/memory"
)

func newTestIdentity(t *testing.T, opts ...Option) (*Identity, *ledger.Store, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	kv := memory.New()

	l, err := ledger.Open(ctx, kv)
	require.NoError(t, err)
	id, err := Open(ctx, kv, newTestAuthenticator(t), l, opts...)
	require.NoError(t, err)
	return id, l, kv
}

// authAttempts reads the auth attempt counter for op and result from reg.
func authAttempts(t *testing.T, reg *prometheus.Registry, op, result string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != "splitledger_auth_attempts_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["op"] == op && labels["result"] == result {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	id, l, _ := newTestIdentity(t)

	require.NoError(t, id.SignIn(ctx, "John@example.com", "password123"))

	st := id.Status()
	assert.True(t, st.IsAuthenticated)
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
	require.NotNil(t, st.User)
	assert.Equal(t, "user-1", st.User.ID)

	cu := l.CurrentUser()
	require.NotNil(t, cu)
	assert.Equal(t, *st.User, *cu)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	id, l, _ := newTestIdentity(t)

	err := id.SignIn(ctx, "john@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	st := id.Status()
	assert.False(t, st.IsAuthenticated)
	assert.False(t, st.IsLoading)
	assert.Equal(t, "invalid email or password", st.Error)
	assert.Nil(t, l.CurrentUser())

	id.ClearError()
	assert.Empty(t, id.Status().Error)
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()
	id, l, _ := newTestIdentity(t)

	require.NoError(t, id.SignUp(ctx, "Sam", "sam@example.com", "secret"))
	st := id.Status()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "Sam", st.User.Name)
	assert.Equal(t, st.User.ID, l.CurrentUser().ID)

	require.NoError(t, id.SignOut(ctx))
	require.NoError(t, id.SignIn(ctx, "sam@example.com", "secret"))

	err := id.SignUp(ctx, "Dup", "SAM@example.com", "other")
	assert.ErrorIs(t, err, ErrEmailInUse)
	assert.Equal(t, "email already in use", id.Status().Error)
	assert.True(t, id.Status().IsAuthenticated, "failed sign-up keeps the existing session")
}

func TestSignOut_KeepsLedger(t *testing.T) {
	ctx := context.Background()
	id, l, _ := newTestIdentity(t)
	require.NoError(t, id.SignIn(ctx, "jane@example.com", "password123"))

	me := *l.CurrentUser()
	gid, err := l.AddGroup(ctx, ledger.GroupInput{Name: "Flat", Members: []models.User{me}, CreatedBy: me.ID})
	require.NoError(t, err)

	require.NoError(t, id.SignOut(ctx))
	assert.False(t, id.Status().IsAuthenticated)
	assert.Nil(t, id.Status().User)
	assert.Nil(t, l.CurrentUser())

	_, ok := l.GetGroupByID(gid)
	assert.True(t, ok)
}

func TestIdentity_Hydrates(t *testing.T) {
	ctx := context.Background()
	id, l, kv := newTestIdentity(t)
	require.NoError(t, id.SignIn(ctx, "jane@example.com", "password123"))

	reopened, err := Open(ctx, kv, newTestAuthenticator(t), l)
	require.NoError(t, err)
	st := reopened.Status()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "user-2", st.User.ID)

	relL, err := ledger.Open(ctx, kv)
	require.NoError(t, err)
	require.NotNil(t, relL.CurrentUser())
	assert.Equal(t, "user-2", relL.CurrentUser().ID)
}

func TestIdentity_LatencyAndLoading(t *testing.T) {
	id, _, _ := newTestIdentity(t, WithLatency(50*time.Millisecond))

	done := make(chan error, 1)
	go func() {
		done <- id.SignIn(context.Background(), "john@example.com", "password123")
	}()

	require.Eventually(t, func() bool { return id.Status().IsLoading }, time.Second, time.Millisecond)
	require.NoError(t, <-done)
	assert.False(t, id.Status().IsLoading)
}

func TestIdentity_Cancelled(t *testing.T) {
	id, _, _ := newTestIdentity(t, WithLatency(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := id.SignIn(ctx, "john@example.com", "password123")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, id.Status().IsLoading)
	assert.False(t, id.Status().IsAuthenticated)
}

func TestIdentity_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	id, l, kv := newTestIdentity(t, WithMetrics(metrics.New(reg)))

	boom := errors.New("storage unavailable")
	kv.FailWrites(boom)

	err := id.SignIn(ctx, "john@example.com", "password123")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ledger.ErrPersistence)

	st := id.Status()
	assert.NotEmpty(t, st.Error)
	assert.False(t, st.IsLoading)
	require.True(t, st.IsAuthenticated)
	require.NotNil(t, l.CurrentUser(), "ledger must follow the in-memory identity")
	assert.Equal(t, st.User.ID, l.CurrentUser().ID)
	assert.Equal(t, 1.0, authAttempts(t, reg, "sign_in", "error"))
}

func TestSignOut_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	id, l, kv := newTestIdentity(t)
	require.NoError(t, id.SignIn(ctx, "john@example.com", "password123"))

	boom := errors.New("storage unavailable")
	kv.FailWrites(boom)

	err := id.SignOut(ctx)
	assert.ErrorIs(t, err, boom)

	st := id.Status()
	assert.False(t, st.IsAuthenticated)
	assert.Nil(t, st.User)
	assert.Nil(t, l.CurrentUser(), "ledger must follow the in-memory identity")
}

func TestSignUp_PasswordTooLong(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	id, l, _ := newTestIdentity(t, WithMetrics(metrics.New(reg)))

	err := id.SignUp(ctx, "Long", "long@example.com", strings.Repeat("p", 80))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.False(t, id.Status().IsAuthenticated)
	assert.Nil(t, l.CurrentUser())
	assert.Equal(t, 1.0, authAttempts(t, reg, "sign_up", "rejected"))
}

func TestIdentity_OverlappingRequests(t *testing.T) {
	id, l, _ := newTestIdentity(t, WithLatency(20*time.Millisecond))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = id.SignIn(ctx, "john@example.com", "password123")
	}()
	go func() {
		defer wg.Done()
		errs[1] = id.SignIn(ctx, "jane@example.com", "wrong")
	}()
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], ErrInvalidCredentials)

	st := id.Status()
	assert.False(t, st.IsLoading)
	require.True(t, st.IsAuthenticated)
	assert.Equal(t, "user-1", st.User.ID)
	require.NotNil(t, l.CurrentUser())
	assert.Equal(t, "user-1", l.CurrentUser().ID)
}
