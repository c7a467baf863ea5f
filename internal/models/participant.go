package models

// Participant represents one member of a meal system.
//
// The identity key is the email when non-empty, otherwise the name
// (case-sensitive, exact match). The key must be unique within a meal
// system; the registry enforces this at build time.
type Participant struct {
	// ID is the stable identity key: Email if non-empty, else Name.
	// Computed once by the registry and carried through every record.
	ID string `json:"id"`

	// Name is the display name of the participant.
	Name string `json:"name"`

	// Email is optional. When present it takes precedence for matching.
	Email string `json:"email"`
}

// IdentityKey returns the identity key for p regardless of whether ID has
// been populated yet.
func (p Participant) IdentityKey() string {
	if p.Email != "" {
		return p.Email
	}
	return p.Name
}

// Display returns the participant's name, falling back to the email.
func (p Participant) Display() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}
