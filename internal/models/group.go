package models

// Group represents a shared expense group as returned by the store.
type Group struct {
	// ID is the store-assigned identifier for the group.
	ID string `json:"_id"`

	// Name is the display name of the group (e.g. "Roommates", "Goa Trip").
	Name string `json:"name"`

	// MembersEmail is the list of member email identifiers. Order is only
	// relevant for stable listing, never for correctness.
	MembersEmail []string `json:"membersEmail"`
}

// HasMember reports whether email is a member of the group.
func (g *Group) HasMember(email string) bool {
	for _, m := range g.MembersEmail {
		if m == email {
			return true
		}
	}
	return false
}
