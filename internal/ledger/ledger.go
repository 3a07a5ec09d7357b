// Package ledger owns the mutable groups and expenses of the shared-expense
// ledger and the current-user pointer used to frame balances.
//
// Store is the only mutation path: every mutator updates the in-memory
// collections and then rewrites the full snapshot through the persistence
// adapter before returning. Balances are derived on read by the calculator
// package and never stored.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/persist"
	"github.com/mmynk/splitledger/internal/storage"
)

// SchemaVersion is the version of the persisted ledger state.
const SchemaVersion = 0

// ErrPersistence wraps a failed snapshot write. The in-memory mutation has
// already been applied when it is returned, so durable state is now behind.
var ErrPersistence = errors.New("ledger snapshot not persisted")

// State is the persisted ledger state.
type State struct {
	CurrentUser *models.User     `json:"currentUser"`
	Groups      []models.Group   `json:"groups"`
	Expenses    []models.Expense `json:"expenses"`
}

// Store is the ledger service object.
type Store struct {
	mu    sync.RWMutex
	state State

	// version increments on every mutation and keys the balance cache.
	version uint64
	cache   balanceCache

	snap    *persist.Snapshotter[State]
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithClock overrides the time source used for createdAt and date stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the id generator for groups and expenses.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Open creates a Store backed by kv and hydrates it from the ledger namespace.
// A missing namespace starts an empty ledger.
func Open(ctx context.Context, kv storage.Store, opts ...Option) (*Store, error) {
	s := &Store{
		logger: slog.Default(),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snap = persist.New[State](kv, persist.LedgerNamespace, persist.Schema{Version: SchemaVersion}, s.metrics, s.logger)

	state, found, err := s.snap.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate ledger: %w", err)
	}
	s.state = state

	s.logger.Info("Ledger hydrated",
		"found", found,
		"groups", len(state.Groups),
		"expenses", len(state.Expenses),
		"has_current_user", state.CurrentUser != nil,
	)
	return s, nil
}

// commit records a mutation and rewrites the snapshot. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, op string) error {
	s.version++
	s.metrics.Mutation(op)

	if err := s.snap.Save(ctx, s.state); err != nil {
		s.logger.Error("Failed to persist ledger", "op", op, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// SetCurrentUser replaces the current-user pointer. nil clears it.
func (s *Store) SetCurrentUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user != nil {
		u := *user
		s.state.CurrentUser = &u
		s.logger.Info("Current user set", "user_id", u.ID)
	} else {
		s.state.CurrentUser = nil
		s.logger.Info("Current user cleared")
	}
	return s.commit(ctx, "set_current_user")
}

// CurrentUser returns the current user, or nil when nobody is signed in.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.CurrentUser == nil {
		return nil
	}
	u := *s.state.CurrentUser
	return &u
}

// Groups returns a copy of every group, in creation order.
func (s *Store) Groups() []models.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneGroups(s.state.Groups)
}

// Expenses returns a copy of every expense, in creation order.
func (s *Store) Expenses() []models.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneExpenses(s.state.Expenses)
}

func cloneGroups(groups []models.Group) []models.Group {
	out := make([]models.Group, len(groups))
	for i, g := range groups {
		out[i] = g.Clone()
	}
	return out
}

func cloneExpenses(expenses []models.Expense) []models.Expense {
	out := make([]models.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = e.Clone()
	}
	return out
}
