package ledger

import (
	"sync"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// balanceCache memoizes per-group balances for one ledger version.
type balanceCache struct {
	mu      sync.Mutex
	version uint64
	groups  map[string][]models.Balance
}

func (c *balanceCache) get(version uint64, groupID string) ([]models.Balance, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.groups == nil || c.version != version {
		return nil, false
	}
	b, ok := c.groups[groupID]
	return b, ok
}

func (c *balanceCache) put(version uint64, groupID string, balances []models.Balance) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.groups == nil || c.version != version {
		c.groups = make(map[string][]models.Balance)
		c.version = version
	}
	c.groups[groupID] = balances
}

// GetGroupBalance returns the net balance of every current member of the
// group. Unknown groups yield nil.
func (s *Store) GetGroupBalance(groupID string) []models.Balance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g := s.group(groupID)
	if g == nil {
		return nil
	}
	return append([]models.Balance(nil), s.groupBalance(*g)...)
}

// groupBalance reads through the cache. Callers hold s.mu.
func (s *Store) groupBalance(g models.Group) []models.Balance {
	if cached, ok := s.cache.get(s.version, g.ID); ok {
		return cached
	}
	balances := calculator.GroupBalance(g, s.state.Expenses)
	s.cache.put(s.version, g.ID, balances)
	return balances
}

// GetOverallBalance sums each user's balance across every group, reading
// per-group balances through the cache.
func (s *Store) GetOverallBalance() []models.Balance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perGroup := make([][]models.Balance, 0, len(s.state.Groups))
	for _, g := range s.state.Groups {
		perGroup = append(perGroup, s.groupBalance(g))
	}
	return calculator.SumBalances(perGroup...)
}

// CategoryTotals sums expense amounts per category across all groups.
func (s *Store) CategoryTotals() []calculator.CategoryTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return calculator.CategoryTotals(s.state.Expenses)
}

// GroupTotals sums expense amounts per group.
func (s *Store) GroupTotals() []calculator.GroupTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return calculator.GroupTotals(s.state.Groups, s.state.Expenses)
}

// UserGroupBalances returns userID's balance in each group, 0 where absent.
func (s *Store) UserGroupBalances(userID string) []calculator.UserGroupBalance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return calculator.UserGroupBalances(userID, s.state.Groups, s.state.Expenses)
}
