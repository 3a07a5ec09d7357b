package models

// User represents a person taking part in the ledger.
//
// A user is either the current (signed-in) user or a member referenced from a
// group's member list. There is no global user table.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`

	// Name is the display name of the user. Never empty.
	Name string `json:"name"`

	// Email is the user's email address, if known.
	Email string `json:"email,omitempty"`

	// Avatar is an image URL for the user, if any.
	Avatar string `json:"avatar,omitempty"`
}
