package ledger

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// ExpenseInput holds the caller-supplied fields of a new expense.
// The caller is responsible for building consistent splits; see
// calculator.EqualSplits and calculator.CustomSplits.
type ExpenseInput struct {
	GroupID     string
	Title       string
	Description string
	Amount      float64
	Category    models.Category
	PaidBy      string
	Splits      []models.Split
}

// ExpensePatch lists the fields to overwrite on an expense. Nil fields are
// left unchanged. ID, GroupID and Date cannot be patched.
type ExpensePatch struct {
	Title       *string
	Description *string
	Amount      *float64
	Category    *models.Category
	PaidBy      *string
	Splits      []models.Split
}

// AddExpense records an expense with a fresh id and date and returns the id.
// No validation is performed here.
func (s *Store) AddExpense(ctx context.Context, in ExpenseInput) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expense := models.Expense{
		ID:          s.newID(),
		GroupID:     in.GroupID,
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		PaidBy:      in.PaidBy,
		Date:        s.now().UTC(),
		Splits:      append([]models.Split(nil), in.Splits...),
	}
	s.state.Expenses = append(s.state.Expenses, expense)

	s.logger.Info("Expense added",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"amount", expense.Amount,
		"splits_count", len(expense.Splits),
	)
	return expense.ID, s.commit(ctx, "add_expense")
}

// UpdateExpense merges patch into the matching expense. Unknown ids are a no-op.
func (s *Store) UpdateExpense(ctx context.Context, expenseID string, patch ExpensePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.expense(expenseID); e != nil {
		if patch.Title != nil {
			e.Title = *patch.Title
		}
		if patch.Description != nil {
			e.Description = *patch.Description
		}
		if patch.Amount != nil {
			e.Amount = *patch.Amount
		}
		if patch.Category != nil {
			e.Category = *patch.Category
		}
		if patch.PaidBy != nil {
			e.PaidBy = *patch.PaidBy
		}
		if patch.Splits != nil {
			e.Splits = append([]models.Split(nil), patch.Splits...)
		}
		s.logger.Info("Expense updated", "expense_id", expenseID)
	} else {
		s.logger.Warn("UpdateExpense: unknown expense", "expense_id", expenseID)
	}
	return s.commit(ctx, "update_expense")
}

// DeleteExpense removes the expense.
func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses := s.state.Expenses[:0]
	for _, e := range s.state.Expenses {
		if e.ID != expenseID {
			expenses = append(expenses, e)
		}
	}
	s.state.Expenses = expenses

	s.logger.Info("Expense deleted", "expense_id", expenseID)
	return s.commit(ctx, "delete_expense")
}

// MarkExpensePaid settles userID's split on the expense. Unknown ids are a
// no-op and repeating the call changes nothing.
func (s *Store) MarkExpensePaid(ctx context.Context, expenseID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.expense(expenseID); e != nil {
		for i := range e.Splits {
			if e.Splits[i].UserID == userID {
				e.Splits[i].Paid = true
			}
		}
		s.logger.Info("Split marked paid", "expense_id", expenseID, "user_id", userID)
	}
	return s.commit(ctx, "mark_paid")
}

// expense returns a pointer into the expense collection. Callers hold s.mu.
func (s *Store) expense(expenseID string) *models.Expense {
	for i := range s.state.Expenses {
		if s.state.Expenses[i].ID == expenseID {
			return &s.state.Expenses[i]
		}
	}
	return nil
}
