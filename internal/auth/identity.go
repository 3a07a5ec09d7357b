// Package auth implements the identity store: sign-in, sign-up and sign-out
// against a credential table, with the authenticated user persisted and
// pushed into the ledger as its current user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/persist"
	"github.com/mmynk/splitledger/internal/storage"
)

// SchemaVersion is the version of the persisted identity state.
const SchemaVersion = 0

// CurrentUserSetter receives identity changes. The ledger store implements it.
type CurrentUserSetter interface {
	SetCurrentUser(ctx context.Context, user *models.User) error
}

// State is the persisted identity state.
type State struct {
	User            *models.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Status is a point-in-time view of the identity store for UI collaborators.
type Status struct {
	User            *models.User
	IsAuthenticated bool
	IsLoading       bool

	// Error is the human-readable message of the last failed request.
	// It stays set until ClearError or the next request.
	Error string
}

// Identity is the identity store.
//
// Requests are not serialized: a second SignIn or SignUp issued while one is
// pending runs concurrently and the last one to finish wins the shared
// loading and error fields. Callers are expected to avoid overlapping
// requests, using IsLoading.
type Identity struct {
	mu      sync.Mutex
	state   State
	loading bool
	errMsg  string

	auth    Authenticator
	ledger  CurrentUserSetter
	snap    *persist.Snapshotter[State]
	latency time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures an Identity.
type Option func(*Identity)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Identity) { i.logger = logger }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(i *Identity) { i.metrics = m }
}

// WithLatency delays every sign-in and sign-up by d, as a remote identity
// provider would. The delay honors context cancellation.
func WithLatency(d time.Duration) Option {
	return func(i *Identity) { i.latency = d }
}

// Open creates the identity store and hydrates it from the identity namespace.
func Open(ctx context.Context, kv storage.Store, authenticator Authenticator, ledger CurrentUserSetter, opts ...Option) (*Identity, error) {
	i := &Identity{
		auth:   authenticator,
		ledger: ledger,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.snap = persist.New[State](kv, persist.IdentityNamespace, persist.Schema{Version: SchemaVersion}, i.metrics, i.logger)

	state, found, err := i.snap.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate identity: %w", err)
	}
	i.state = state

	i.logger.Info("Identity hydrated", "found", found, "authenticated", state.IsAuthenticated)
	return i, nil
}

// SignIn authenticates against the credential table. On failure the error is
// also recorded on the Error field of Status.
func (i *Identity) SignIn(ctx context.Context, email, password string) error {
	i.begin()

	if err := i.wait(ctx); err != nil {
		return i.fail("sign_in", err)
	}
	user, err := i.auth.Authenticate(ctx, email, password)
	if err != nil {
		i.logger.Warn("Sign-in failed", "email", email, "error", err)
		return i.fail("sign_in", err)
	}
	return i.complete(ctx, "sign_in", user)
}

// SignUp registers a new credential and signs the new user in.
func (i *Identity) SignUp(ctx context.Context, name, email, password string) error {
	i.begin()

	if err := i.wait(ctx); err != nil {
		return i.fail("sign_up", err)
	}
	user, err := i.auth.Register(ctx, name, email, password)
	if err != nil {
		i.logger.Warn("Sign-up failed", "email", email, "error", err)
		return i.fail("sign_up", err)
	}
	return i.complete(ctx, "sign_up", user)
}

// SignOut clears the authenticated user here and in the ledger. Groups and
// expenses are left as they are. The ledger is cleared even when persisting
// the signed-out state fails, so both stores agree in memory.
func (i *Identity) SignOut(ctx context.Context) error {
	i.mu.Lock()
	i.state = State{}
	saveErr := i.snap.Save(ctx, i.state)
	i.mu.Unlock()

	if err := i.propagate(ctx, nil, saveErr); err != nil {
		return err
	}
	i.logger.Info("Signed out")
	return nil
}

// ClearError resets the error message.
func (i *Identity) ClearError() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.errMsg = ""
}

// Status returns a snapshot of the identity store.
func (i *Identity) Status() Status {
	i.mu.Lock()
	defer i.mu.Unlock()

	st := Status{
		IsAuthenticated: i.state.IsAuthenticated,
		IsLoading:       i.loading,
		Error:           i.errMsg,
	}
	if i.state.User != nil {
		u := *i.state.User
		st.User = &u
	}
	return st
}

func (i *Identity) begin() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.loading = true
	i.errMsg = ""
}

func (i *Identity) wait(ctx context.Context) error {
	if i.latency <= 0 {
		return nil
	}
	t := time.NewTimer(i.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (i *Identity) fail(op string, err error) error {
	i.mu.Lock()
	i.loading = false
	i.errMsg = err.Error()
	i.mu.Unlock()

	result := "error"
	if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrEmailInUse) || errors.Is(err, ErrPasswordTooLong) {
		result = "rejected"
	}
	i.metrics.AuthAttempt(op, result)
	return err
}

// complete stores the authenticated user and propagates it to the ledger.
func (i *Identity) complete(ctx context.Context, op string, user *models.User) error {
	i.mu.Lock()
	i.state = State{User: user, IsAuthenticated: true}
	i.loading = false
	saveErr := i.snap.Save(ctx, i.state)
	i.mu.Unlock()

	if err := i.propagate(ctx, user, saveErr); err != nil {
		return i.fail(op, err)
	}

	i.metrics.AuthAttempt(op, "ok")
	i.logger.Info("Authenticated", "op", op, "user_id", user.ID)
	return nil
}

// propagate pushes user into the ledger regardless of saveErr and returns
// both failures joined.
func (i *Identity) propagate(ctx context.Context, user *models.User, saveErr error) error {
	if saveErr != nil {
		saveErr = fmt.Errorf("failed to persist identity: %w", saveErr)
		i.logger.Error("Identity snapshot not persisted", "error", saveErr)
	}
	var ledgerErr error
	if err := i.ledger.SetCurrentUser(ctx, user); err != nil {
		ledgerErr = fmt.Errorf("failed to set current user: %w", err)
	}
	return errors.Join(saveErr, ledgerErr)
}
