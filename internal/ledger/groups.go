package ledger

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// GroupInput holds the caller-supplied fields of a new group.
type GroupInput struct {
	Name        string
	Description string
	Members     []models.User
	CreatedBy   string
}

// GroupPatch lists the fields to overwrite on a group. Nil fields are left
// unchanged. ID and CreatedAt cannot be patched.
type GroupPatch struct {
	Name        *string
	Description *string
	Members     []models.User
	CreatedBy   *string
}

// AddGroup creates a group with a fresh id and creation time and returns the id.
// Duplicate members (by id) are collapsed to their first occurrence.
func (s *Store) AddGroup(ctx context.Context, in GroupInput) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group := models.Group{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		Members:     dedupeMembers(in.Members),
		CreatedBy:   in.CreatedBy,
		CreatedAt:   s.now().UTC(),
	}
	s.state.Groups = append(s.state.Groups, group)

	s.logger.Info("Group created", "group_id", group.ID, "name", group.Name, "members_count", len(group.Members))
	return group.ID, s.commit(ctx, "add_group")
}

// UpdateGroup merges patch into the matching group. Unknown ids are a no-op.
func (s *Store) UpdateGroup(ctx context.Context, groupID string, patch GroupPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g := s.group(groupID); g != nil {
		if patch.Name != nil {
			g.Name = *patch.Name
		}
		if patch.Description != nil {
			g.Description = *patch.Description
		}
		if patch.Members != nil {
			g.Members = dedupeMembers(patch.Members)
		}
		if patch.CreatedBy != nil {
			g.CreatedBy = *patch.CreatedBy
		}
		s.logger.Info("Group updated", "group_id", groupID)
	} else {
		s.logger.Warn("UpdateGroup: unknown group", "group_id", groupID)
	}
	return s.commit(ctx, "update_group")
}

// DeleteGroup removes the group and every expense recorded against it.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := s.state.Groups[:0]
	for _, g := range s.state.Groups {
		if g.ID != groupID {
			groups = append(groups, g)
		}
	}
	s.state.Groups = groups

	removed := 0
	expenses := s.state.Expenses[:0]
	for _, e := range s.state.Expenses {
		if e.GroupID == groupID {
			removed++
			continue
		}
		expenses = append(expenses, e)
	}
	s.state.Expenses = expenses

	s.logger.Info("Group deleted", "group_id", groupID, "expenses_removed", removed)
	return s.commit(ctx, "delete_group")
}

// AddMemberToGroup appends user to the group's members unless a member with
// the same id is already present.
func (s *Store) AddMemberToGroup(ctx context.Context, groupID string, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g := s.group(groupID); g != nil && !g.HasMember(user.ID) {
		g.Members = append(g.Members, user)
		s.logger.Info("Member added", "group_id", groupID, "user_id", user.ID)
	}
	return s.commit(ctx, "add_member")
}

// RemoveMemberFromGroup drops the member from the group. Existing expense
// splits that reference the member are left untouched.
func (s *Store) RemoveMemberFromGroup(ctx context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g := s.group(groupID); g != nil {
		members := make([]models.User, 0, len(g.Members))
		for _, m := range g.Members {
			if m.ID != userID {
				members = append(members, m)
			}
		}
		g.Members = members
		s.logger.Info("Member removed", "group_id", groupID, "user_id", userID)
	}
	return s.commit(ctx, "remove_member")
}

// group returns a pointer into the group collection. Callers hold s.mu.
func (s *Store) group(groupID string) *models.Group {
	for i := range s.state.Groups {
		if s.state.Groups[i].ID == groupID {
			return &s.state.Groups[i]
		}
	}
	return nil
}

func dedupeMembers(members []models.User) []models.User {
	seen := make(map[string]bool, len(members))
	out := make([]models.User, 0, len(members))
	for _, m := range members {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}
