// Package calculator implements the pure balance computations of the ledger.
//
// Every function here is deterministic and side-effect free: given the same
// groups and expenses it always returns the same balances. Money is
// accumulated in decimal to avoid binary floating point drift and rounded
// half away from zero to two places at the edges.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Round rounds amount to two decimal places, halves away from zero.
func Round(amount float64) float64 {
	return roundDecimal(decimal.NewFromFloat(amount))
}

func roundDecimal(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// GroupBalance computes the net balance of every current member of group.
// Positive = member owes money into the group, negative = member is owed money.
//
// Algorithm, for every expense of the group:
//   - the payer is credited the full amount
//   - the payer is always charged their own split, whatever its paid flag
//   - every other member is charged their split while it is unpaid
//
// Only current members appear in the result, in member order. Payers and
// split owners who have since left the group are ignored.
func GroupBalance(group models.Group, expenses []models.Expense) []models.Balance {
	acc := make(map[string]decimal.Decimal, len(group.Members))
	order := make([]string, 0, len(group.Members))
	for _, m := range group.Members {
		if _, seen := acc[m.ID]; seen {
			continue
		}
		acc[m.ID] = decimal.Zero
		order = append(order, m.ID)
	}

	for _, expense := range expenses {
		if expense.GroupID != group.ID {
			continue
		}

		if bal, ok := acc[expense.PaidBy]; ok {
			acc[expense.PaidBy] = bal.Sub(decimal.NewFromFloat(expense.Amount))
		}

		for _, split := range expense.Splits {
			bal, ok := acc[split.UserID]
			if !ok {
				continue
			}
			if split.Paid && split.UserID != expense.PaidBy {
				continue
			}
			acc[split.UserID] = bal.Add(decimal.NewFromFloat(split.Amount))
		}
	}

	balances := make([]models.Balance, 0, len(order))
	for _, userID := range order {
		balances = append(balances, models.Balance{
			UserID: userID,
			Amount: roundDecimal(acc[userID]),
		})
	}
	return balances
}

// OverallBalance sums every user's per-group balance across all groups.
// Users who are members of no group are absent from the result. Entries are
// ordered by first appearance, walking groups in order.
func OverallBalance(groups []models.Group, expenses []models.Expense) []models.Balance {
	perGroup := make([][]models.Balance, 0, len(groups))
	for _, group := range groups {
		perGroup = append(perGroup, GroupBalance(group, expenses))
	}
	return SumBalances(perGroup...)
}

// SumBalances adds per-group balances user by user, ordered by first
// appearance.
func SumBalances(perGroup ...[]models.Balance) []models.Balance {
	totals := make(map[string]decimal.Decimal)
	var order []string

	for _, group := range perGroup {
		for _, bal := range group {
			sum, seen := totals[bal.UserID]
			if !seen {
				order = append(order, bal.UserID)
			}
			totals[bal.UserID] = sum.Add(decimal.NewFromFloat(bal.Amount))
		}
	}

	balances := make([]models.Balance, 0, len(order))
	for _, userID := range order {
		balances = append(balances, models.Balance{
			UserID: userID,
			Amount: roundDecimal(totals[userID]),
		})
	}
	return balances
}

// BalanceOf returns the amount for userID in balances, or 0 if absent.
func BalanceOf(balances []models.Balance, userID string) float64 {
	for _, b := range balances {
		if b.UserID == userID {
			return b.Amount
		}
	}
	return 0
}
