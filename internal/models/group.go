package models

import "time"

// Group represents a named collection of members sharing expenses.
// Deleting a group deletes every expense recorded against it.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	// Assigned at creation and never changed afterwards.
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Apartment 4B", "Road Trip").
	Name string `json:"name"`

	// Description is an optional free-form note about the group.
	Description string `json:"description,omitempty"`

	// Members is the current member list. No two members share an ID.
	Members []User `json:"members"`

	// CreatedBy is the user ID of the member who created the group.
	// Validated only at creation time; later membership edits may remove them.
	CreatedBy string `json:"createdBy"`

	// CreatedAt is when the group was created.
	CreatedAt time.Time `json:"createdAt"`
}

// HasMember reports whether userID is a current member of the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	g.Members = append([]User(nil), g.Members...)
	return g
}
