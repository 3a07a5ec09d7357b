package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category models.Category
	Amount   float64
}

// GroupTotal is the amount spent in one group.
type GroupTotal struct {
	GroupID   string
	GroupName string
	Amount    float64
}

// UserGroupBalance is one user's balance within one group.
type UserGroupBalance struct {
	GroupID   string
	GroupName string
	Amount    float64 // Positive = owes, negative = is owed
}

// CategoryTotals sums expense amounts per category. Categories without any
// expense are omitted; known categories come first in their display order.
func CategoryTotals(expenses []models.Expense) []CategoryTotal {
	sums := make(map[models.Category]decimal.Decimal)
	var extra []models.Category
	for _, e := range expenses {
		if _, seen := sums[e.Category]; !seen && !e.Category.Valid() {
			extra = append(extra, e.Category)
		}
		sums[e.Category] = sums[e.Category].Add(decimal.NewFromFloat(e.Amount))
	}

	var totals []CategoryTotal
	for _, c := range append(append([]models.Category(nil), models.Categories...), extra...) {
		sum, ok := sums[c]
		if !ok {
			continue
		}
		totals = append(totals, CategoryTotal{Category: c, Amount: roundDecimal(sum)})
	}
	return totals
}

// GroupTotals sums expense amounts per group, in group order. Groups without
// expenses are omitted, as are expenses of groups that no longer exist.
func GroupTotals(groups []models.Group, expenses []models.Expense) []GroupTotal {
	sums := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		sums[e.GroupID] = sums[e.GroupID].Add(decimal.NewFromFloat(e.Amount))
	}

	var totals []GroupTotal
	for _, g := range groups {
		sum, ok := sums[g.ID]
		if !ok {
			continue
		}
		totals = append(totals, GroupTotal{GroupID: g.ID, GroupName: g.Name, Amount: roundDecimal(sum)})
	}
	return totals
}

// UserGroupBalances returns userID's balance in every group, 0 where the user
// is not a member.
func UserGroupBalances(userID string, groups []models.Group, expenses []models.Expense) []UserGroupBalance {
	out := make([]UserGroupBalance, len(groups))
	for i, g := range groups {
		out[i] = UserGroupBalance{
			GroupID:   g.ID,
			GroupName: g.Name,
			Amount:    BalanceOf(GroupBalance(g, expenses), userID),
		}
	}
	return out
}

// Totals splits per-group balances into what the user owes (sum of positive
// balances) and what the user is owed (sum of magnitudes of negative ones).
func Totals(balances []UserGroupBalance) (owing, owed float64) {
	o, d := decimal.Zero, decimal.Zero
	for _, b := range balances {
		amount := decimal.NewFromFloat(b.Amount)
		if amount.IsPositive() {
			o = o.Add(amount)
		} else {
			d = d.Add(amount.Abs())
		}
	}
	return roundDecimal(o), roundDecimal(d)
}
