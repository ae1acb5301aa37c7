package models

// Group represents a set of users who share expenses.
//
// A group starts with only its creator as a member. Everyone else joins
// through the GROUP_INVITE notification flow; members are never appended
// directly at creation time.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// CreatorID is the user who created the group. Immutable.
	CreatorID string

	// Members is the set of member user IDs. Order carries no meaning.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID is in the member set.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
