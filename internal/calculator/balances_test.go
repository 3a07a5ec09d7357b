package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func balanceMap(balances []models.Balance) map[string]float64 {
	m := make(map[string]float64, len(balances))
	for _, b := range balances {
		m[b.UserID] = b.Amount
	}
	return m
}

func TestGroupBalance(t *testing.T) {
	group := models.Group{ID: "g1", Members: members("alice", "bob")}

	tests := []struct {
		name     string
		group    models.Group
		expenses []models.Expense
		want     map[string]float64
	}{
		{
			name:  "no expenses",
			group: group,
			want:  map[string]float64{"alice": 0, "bob": 0},
		},
		{
			name:  "payer credited, other member owes",
			group: group,
			expenses: []models.Expense{{
				GroupID: "g1", Amount: 50, PaidBy: "alice",
				Splits: []models.Split{{UserID: "alice", Amount: 25}, {UserID: "bob", Amount: 25}},
			}},
			want: map[string]float64{"alice": -25, "bob": 25},
		},
		{
			name:  "paid share settles the debtor only",
			group: group,
			expenses: []models.Expense{{
				GroupID: "g1", Amount: 50, PaidBy: "alice",
				Splits: []models.Split{{UserID: "alice", Amount: 25}, {UserID: "bob", Amount: 25, Paid: true}},
			}},
			want: map[string]float64{"alice": -25, "bob": 0},
		},
		{
			name:  "payer split paid flag is irrelevant",
			group: group,
			expenses: []models.Expense{{
				GroupID: "g1", Amount: 50, PaidBy: "alice",
				Splits: []models.Split{{UserID: "alice", Amount: 25, Paid: true}, {UserID: "bob", Amount: 25}},
			}},
			want: map[string]float64{"alice": -25, "bob": 25},
		},
		{
			name:  "other groups ignored",
			group: group,
			expenses: []models.Expense{{
				GroupID: "g2", Amount: 50, PaidBy: "alice",
				Splits: []models.Split{{UserID: "bob", Amount: 50}},
			}},
			want: map[string]float64{"alice": 0, "bob": 0},
		},
		{
			name:  "former members excluded",
			group: models.Group{ID: "g1", Members: members("alice")},
			expenses: []models.Expense{{
				GroupID: "g1", Amount: 30, PaidBy: "bob",
				Splits: []models.Split{{UserID: "alice", Amount: 15}, {UserID: "bob", Amount: 15}},
			}},
			want: map[string]float64{"alice": 15},
		},
		{
			name:  "rounded to cents",
			group: models.Group{ID: "g1", Members: members("a", "b", "c")},
			expenses: []models.Expense{{
				GroupID: "g1", Amount: 100, PaidBy: "a",
				Splits: []models.Split{{UserID: "a", Amount: 33.333}, {UserID: "b", Amount: 33.333}, {UserID: "c", Amount: 33.334}},
			}},
			want: map[string]float64{"a": -66.67, "b": 33.33, "c": 33.33},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := balanceMap(GroupBalance(tt.group, tt.expenses))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d balances, want %d: %v", len(got), len(tt.want), got)
			}
			for userID, want := range tt.want {
				amount, ok := got[userID]
				if !ok {
					t.Errorf("missing balance for %s", userID)
					continue
				}
				if math.Abs(amount-want) > 0.001 {
					t.Errorf("%s = %v, want %v", userID, amount, want)
				}
			}
		})
	}
}

func TestGroupBalance_ConservesMoney(t *testing.T) {
	group := models.Group{ID: "g1", Members: members("a", "b", "c")}
	expenses := []models.Expense{
		{GroupID: "g1", Amount: 99, PaidBy: "a", Splits: EqualSplits(99, group.Members, "a")},
		{GroupID: "g1", Amount: 42.5, PaidBy: "b", Splits: []models.Split{
			{UserID: "a", Amount: 10}, {UserID: "b", Amount: 20.5}, {UserID: "c", Amount: 12},
		}},
	}

	var sum float64
	for _, b := range GroupBalance(group, expenses) {
		sum += b.Amount
	}
	if math.Abs(sum) > 0.01 {
		t.Errorf("sum of balances = %v, want 0 within 0.01", sum)
	}
}

func TestGroupBalance_DuplicateMembers(t *testing.T) {
	group := models.Group{ID: "g1", Members: members("a", "a", "b")}
	if got := GroupBalance(group, nil); len(got) != 2 {
		t.Errorf("expected one entry per distinct member, got %v", got)
	}
}

func TestOverallBalance(t *testing.T) {
	groups := []models.Group{
		{ID: "g1", Members: members("u", "x")},
		{ID: "g2", Members: members("u", "y")},
		{ID: "g3", Members: members("z")},
	}
	expenses := []models.Expense{
		// u owes 10 in g1
		{GroupID: "g1", Amount: 20, PaidBy: "x", Splits: []models.Split{{UserID: "u", Amount: 10}, {UserID: "x", Amount: 10}}},
		// u is owed 4 in g2
		{GroupID: "g2", Amount: 8, PaidBy: "u", Splits: []models.Split{{UserID: "u", Amount: 4}, {UserID: "y", Amount: 4}}},
	}

	overall := OverallBalance(groups, expenses)
	got := balanceMap(overall)

	if math.Abs(got["u"]-6) > 0.001 {
		t.Errorf("u = %v, want 6", got["u"])
	}

	// Sum of per-group entries must match.
	for userID, total := range got {
		var sum float64
		for _, g := range groups {
			sum += BalanceOf(GroupBalance(g, expenses), userID)
		}
		if math.Abs(sum-total) > 0.001 {
			t.Errorf("%s overall = %v, sum over groups = %v", userID, total, sum)
		}
	}

	if _, ok := got["nobody"]; ok {
		t.Error("user absent from all groups must not appear")
	}
	if overall[0].UserID != "u" {
		t.Errorf("expected first-appearance order, got %v", overall)
	}
}

func TestSumBalances(t *testing.T) {
	got := SumBalances(
		[]models.Balance{{UserID: "u", Amount: 0.1}, {UserID: "x", Amount: -0.1}},
		nil,
		[]models.Balance{{UserID: "y", Amount: 5}, {UserID: "u", Amount: 0.2}},
	)

	want := []models.Balance{{UserID: "u", Amount: 0.3}, {UserID: "x", Amount: -0.1}, {UserID: "y", Amount: 5}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.005, 1.01},
		{-1.005, -1.01},
		{2.344, 2.34},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
