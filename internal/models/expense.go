package models

import "time"

// Category classifies an expense.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryRent          Category = "rent"
	CategoryTransport     Category = "transport"
	CategoryUtilities     Category = "utilities"
	CategoryEntertainment Category = "entertainment"
	CategoryOther         Category = "other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryFood,
	CategoryRent,
	CategoryTransport,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Expense represents a single payment made by one member on behalf of a group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `json:"groupId"`

	// Title is the short human-readable name (e.g., "Groceries").
	Title string `json:"title"`

	// Description is an optional longer note.
	Description string `json:"description,omitempty"`

	// Amount is the total paid. Always positive when created through the
	// validated path.
	Amount float64 `json:"amount"`

	// Category classifies the expense.
	Category Category `json:"category"`

	// PaidBy is the user ID of the member who paid.
	PaidBy string `json:"paidBy"`

	// Date is when the expense was recorded. Set by the ledger, not the caller.
	Date time.Time `json:"date"`

	// Splits holds one share per group member at the time of creation.
	Splits []Split `json:"splits"`
}

// Clone returns a deep copy of the expense.
func (e Expense) Clone() Expense {
	e.Splits = append([]Split(nil), e.Splits...)
	return e
}

// Split is one member's share of an expense.
type Split struct {
	// UserID is the member who owns this share.
	UserID string `json:"userId"`

	// Amount is the share (>= 0).
	Amount float64 `json:"amount"`

	// Paid is true once the share is settled, either because the member is
	// the payer or because they marked it paid.
	Paid bool `json:"paid"`
}

// Balance is a derived net amount for one user.
// Positive means the user owes money; negative means the user is owed money.
type Balance struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
}
