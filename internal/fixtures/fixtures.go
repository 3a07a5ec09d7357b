// Package fixtures holds the demo data set: five users across three groups
// with seven expenses, plus the two demo login credentials.
package fixtures

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/persist"
	"github.com/mmynk/splitledger/internal/storage"
)

const avatarURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// DemoPassword is the password of both demo credentials.
const DemoPassword = "password123"

// Users returns the sample users. The first one is the "You" user.
func Users() []models.User {
	return []models.User{
		{ID: "user1", Name: "You", Email: "you@example.com", Avatar: avatarURL + "Felix"},
		{ID: "user2", Name: "Alex Johnson", Email: "alex@example.com", Avatar: avatarURL + "Alex"},
		{ID: "user3", Name: "Taylor Smith", Email: "taylor@example.com", Avatar: avatarURL + "Taylor"},
		{ID: "user4", Name: "Jordan Lee", Email: "jordan@example.com", Avatar: avatarURL + "Jordan"},
		{ID: "user5", Name: "Sam Rodriguez", Email: "sam@example.com", Avatar: avatarURL + "Sam"},
	}
}

// Groups returns the sample groups.
func Groups() []models.Group {
	u := Users()
	return []models.Group{
		{
			ID:          "group1",
			Name:        "Apartment 4B",
			Description: "Expenses for our shared apartment",
			Members:     []models.User{u[0], u[1], u[2]},
			CreatedBy:   "user1",
			CreatedAt:   ts("2023-04-01T12:00:00Z"),
		},
		{
			ID:          "group2",
			Name:        "Road Trip",
			Description: "Spring break road trip expenses",
			Members:     []models.User{u[0], u[2], u[3], u[4]},
			CreatedBy:   "user3",
			CreatedAt:   ts("2023-03-15T09:30:00Z"),
		},
		{
			ID:          "group3",
			Name:        "Office Lunch",
			Description: "Weekly office lunch rotation",
			Members:     []models.User{u[0], u[1], u[4]},
			CreatedBy:   "user1",
			CreatedAt:   ts("2023-04-05T14:20:00Z"),
		},
	}
}

// Expenses returns the sample expenses.
func Expenses() []models.Expense {
	return []models.Expense{
		expense("exp1", "group1", "Rent - April", "Monthly rent payment", 1500, models.CategoryRent, "user1", "2023-04-01T09:00:00Z",
			split("user1", 500, true), split("user2", 500, false), split("user3", 500, true)),
		expense("exp2", "group1", "Groceries", "Weekly grocery shopping", 120, models.CategoryFood, "user2", "2023-04-03T16:30:00Z",
			split("user1", 40, false), split("user2", 40, true), split("user3", 40, false)),
		expense("exp3", "group1", "Utilities", "Electricity and water", 210, models.CategoryUtilities, "user3", "2023-04-05T11:15:00Z",
			split("user1", 70, true), split("user2", 70, true), split("user3", 70, true)),
		expense("exp4", "group2", "Gas", "First gas refill", 60, models.CategoryTransport, "user3", "2023-03-16T10:00:00Z",
			split("user1", 15, true), split("user3", 15, true), split("user4", 15, false), split("user5", 15, true)),
		expense("exp5", "group2", "Hotel", "Two nights stay", 320, models.CategoryOther, "user1", "2023-03-17T14:00:00Z",
			split("user1", 80, true), split("user3", 80, true), split("user4", 80, true), split("user5", 80, false)),
		expense("exp6", "group2", "Dinner", "Steakhouse", 180, models.CategoryFood, "user4", "2023-03-18T19:30:00Z",
			split("user1", 45, false), split("user3", 45, true), split("user4", 45, true), split("user5", 45, false)),
		expense("exp7", "group3", "Pizza Day", "Friday lunch pizzas", 45, models.CategoryFood, "user1", "2023-04-07T12:30:00Z",
			split("user1", 15, true), split("user2", 15, true), split("user5", 15, false)),
	}
}

// State returns the full sample ledger with no current user.
func State() ledger.State {
	return ledger.State{Groups: Groups(), Expenses: Expenses()}
}

// Credentials returns the demo login credentials.
func Credentials() []auth.SeedCredential {
	return []auth.SeedCredential{
		{ID: "user-1", Name: "John Doe", Email: "john@example.com", Password: DemoPassword, Avatar: avatarURL + "John"},
		{ID: "user-2", Name: "Jane Smith", Email: "jane@example.com", Password: DemoPassword, Avatar: avatarURL + "Jane"},
	}
}

// Seed writes the sample ledger into kv unless the ledger namespace already
// holds a snapshot. It reports whether anything was written.
func Seed(ctx context.Context, kv storage.Store, logger *slog.Logger) (bool, error) {
	snap := persist.New[ledger.State](kv, persist.LedgerNamespace, persist.Schema{Version: ledger.SchemaVersion}, nil, logger)

	_, found, err := snap.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check ledger snapshot: %w", err)
	}
	if found {
		return false, nil
	}
	if err := snap.Save(ctx, State()); err != nil {
		return false, fmt.Errorf("failed to seed ledger: %w", err)
	}
	return true, nil
}

func expense(id, groupID, title, description string, amount float64, category models.Category, paidBy, date string, splits ...models.Split) models.Expense {
	return models.Expense{
		ID:          id,
		GroupID:     groupID,
		Title:       title,
		Description: description,
		Amount:      amount,
		Category:    category,
		PaidBy:      paidBy,
		Date:        ts(date),
		Splits:      splits,
	}
}

func split(userID string, amount float64, paid bool) models.Split {
	return models.Split{UserID: userID, Amount: amount, Paid: paid}
}

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(fmt.Sprintf("fixtures: bad timestamp %q: %v", value, err))
	}
	return t
}
