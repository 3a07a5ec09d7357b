package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrValidation is returned by the caller-side checks that must pass before an
// expense is handed to the ledger.
var ErrValidation = errors.New("validation failed")

// splitTolerance is the largest accepted gap between an expense amount and the
// sum of its custom shares.
var splitTolerance = decimal.New(1, -2)

// EqualShare divides amount evenly between members people, rounding the share
// to two places. The rounding remainder is not redistributed, so 100 between
// 3 members gives 33.33 each.
func EqualShare(amount float64, members int) float64 {
	if members <= 0 || amount == 0 {
		return 0
	}
	return roundDecimal(decimal.NewFromFloat(amount).Div(decimal.NewFromInt(int64(members))))
}

// EqualSplits builds one split per member with an equal share of amount.
// The payer's split starts out paid.
func EqualSplits(amount float64, members []models.User, paidBy string) []models.Split {
	share := EqualShare(amount, len(members))
	splits := make([]models.Split, len(members))
	for i, m := range members {
		splits[i] = models.Split{
			UserID: m.ID,
			Amount: share,
			Paid:   m.ID == paidBy,
		}
	}
	return splits
}

// ValidateCustomSplit checks that the shares of the given members add up to
// amount within 0.01. Members without an entry in shares count as 0.
func ValidateCustomSplit(amount float64, shares map[string]float64, members []models.User) error {
	sum := decimal.Zero
	for _, m := range members {
		sum = sum.Add(decimal.NewFromFloat(shares[m.ID]))
	}

	diff := decimal.NewFromFloat(amount).Sub(sum).Abs()
	if diff.GreaterThanOrEqual(splitTolerance) {
		return fmt.Errorf("%w: splits total %s, expense amount %s",
			ErrValidation, sum.StringFixed(2), decimal.NewFromFloat(amount).StringFixed(2))
	}
	return nil
}

// CustomSplits validates shares against amount and builds one split per member.
// The payer's split starts out paid.
func CustomSplits(amount float64, shares map[string]float64, members []models.User, paidBy string) ([]models.Split, error) {
	for userID, share := range shares {
		if share < 0 {
			return nil, fmt.Errorf("%w: negative share for %s", ErrValidation, userID)
		}
	}
	if err := ValidateCustomSplit(amount, shares, members); err != nil {
		return nil, err
	}

	splits := make([]models.Split, len(members))
	for i, m := range members {
		splits[i] = models.Split{
			UserID: m.ID,
			Amount: shares[m.ID],
			Paid:   m.ID == paidBy,
		}
	}
	return splits, nil
}

// ValidateExpense runs the field checks done before an expense is recorded.
func ValidateExpense(title string, amount float64) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title required", ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	return nil
}
