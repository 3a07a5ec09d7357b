package ledger

import "github.com/mmynk/splitledger/internal/models"

// GetGroupByID returns a copy of the group.
func (s *Store) GetGroupByID(groupID string) (models.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if g := s.group(groupID); g != nil {
		return g.Clone(), true
	}
	return models.Group{}, false
}

// GetExpenseByID returns a copy of the expense.
func (s *Store) GetExpenseByID(expenseID string) (models.Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e := s.expense(expenseID); e != nil {
		return e.Clone(), true
	}
	return models.Expense{}, false
}

// GetGroupExpenses returns every expense recorded against groupID.
func (s *Store) GetGroupExpenses(groupID string) []models.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groupExpenses(groupID)
}

func (s *Store) groupExpenses(groupID string) []models.Expense {
	var out []models.Expense
	for _, e := range s.state.Expenses {
		if e.GroupID == groupID {
			out = append(out, e.Clone())
		}
	}
	return out
}

// GetUserByID resolves a user from group member lists first, then from the
// current user.
func (s *Store) GetUserByID(userID string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.state.Groups {
		for _, m := range g.Members {
			if m.ID == userID {
				return m, true
			}
		}
	}
	if cu := s.state.CurrentUser; cu != nil && cu.ID == userID {
		return *cu, true
	}
	return models.User{}, false
}
