// Package registry resolves loose participant references (name or email)
// against the canonical participant list of one meal system.
//
// Identity is computed once at build time: the key is the email when
// non-empty, else the name. Matching is exact and case-sensitive, email
// field first, then name. Unmatched references resolve to a transient
// participant instead of failing, so the "Other: enter name or email"
// entry path never blocks on registry gaps.
package registry

import (
	"regexp"
	"strings"

	"github.com/messmate/messmate/internal/models"
)

// emailRe recognizes the local@domain shape for display/auto-naming only;
// the registry does not otherwise validate email syntax.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Registry is the canonical participant set for one meal system.
type Registry struct {
	byEmail map[string]models.Participant
	byName  map[string]models.Participant
	ordered []models.Participant
}

// Build constructs a registry from the system's participant list. Each
// participant gets its stable ID (email if non-empty, else name). A
// duplicate identity key or an empty participant is rejected.
func Build(participants []models.Participant) (*Registry, error) {
	r := &Registry{
		byEmail: make(map[string]models.Participant, len(participants)),
		byName:  make(map[string]models.Participant, len(participants)),
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		key := p.IdentityKey()
		if key == "" {
			return nil, models.Validationf("participant must have a name or an email")
		}
		if seen[key] {
			return nil, models.Conflictf("duplicate participant identity %q", key)
		}
		seen[key] = true

		p.ID = key
		if p.Email != "" {
			r.byEmail[p.Email] = p
		}
		if p.Name != "" {
			r.byName[p.Name] = p
		}
		r.ordered = append(r.ordered, p)
	}
	return r, nil
}

// Participants returns the canonical list in registration order, with IDs
// populated.
func (r *Registry) Participants() []models.Participant {
	out := make([]models.Participant, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Resolve matches a loose string reference: email field first, then name.
// Unknown references synthesize a transient participant.
func (r *Registry) Resolve(ref string) models.Participant {
	ref = strings.TrimSpace(ref)
	if p, ok := r.byEmail[ref]; ok {
		return p
	}
	if p, ok := r.byName[ref]; ok {
		return p
	}
	return ParseReference(ref)
}

// ResolveParticipant matches a loose {name, email} pair against the
// registry, preferring the email. Unknown pairs come back as transient
// participants with their ID computed from the pair itself.
func (r *Registry) ResolveParticipant(p models.Participant) models.Participant {
	if p.Email != "" {
		if m, ok := r.byEmail[p.Email]; ok {
			return m
		}
	}
	if p.Name != "" {
		if m, ok := r.byName[p.Name]; ok {
			return m
		}
	}
	if p.Email == "" && p.Name != "" {
		return ParseReference(p.Name)
	}
	p.ID = p.IdentityKey()
	return p
}

// ParseReference turns a free-text reference into a transient participant.
// Email-shaped references get an auto-generated name from the capitalized
// local part ("alice@x.com" -> "Alice"); anything else is taken as a name.
func ParseReference(ref string) models.Participant {
	ref = strings.TrimSpace(ref)
	if emailRe.MatchString(ref) {
		local := ref[:strings.Index(ref, "@")]
		name := strings.ToUpper(local[:1]) + local[1:]
		return models.Participant{ID: ref, Name: name, Email: ref}
	}
	return models.Participant{ID: ref, Name: ref}
}
