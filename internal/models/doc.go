// Package models defines the core domain models for the shared-expense ledger.
//
// # Models
//
//   - User: a person who can be the current user or a member of a group
//   - Group: a named set of members sharing expenses
//   - Expense: one payment by one member, split among the group's members
//   - Split: one member's share of an expense and whether it is settled
//   - Balance: a derived net amount per user (never persisted)
//
// # Design Principles
//
// 1. **No global user table**: a user is known only as the current user or as a group member
// 2. **IDs, not pointers**: expenses reference groups and users by ID string
// 3. **Wire-compatible JSON**: field tags match the persisted snapshot format (camelCase)
// 4. **Values, not handles**: accessors hand out copies so the ledger stays the single writer
package models
