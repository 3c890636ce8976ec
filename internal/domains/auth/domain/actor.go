package domain

import "errors"

// ActorKind tags the authenticated caller type.
type ActorKind string

const (
	KindDonor     ActorKind = "donor"
	KindHospital  ActorKind = "hospital"
	KindBloodBank ActorKind = "bank"
)

var ErrUnknownActorKind = errors.New("unknown actor kind")

// Actor identifies an authenticated caller. It is resolved once by the
// session middleware and passed explicitly down the call chain; handlers
// never re-derive identity from request parameters.
type Actor struct {
	Kind ActorKind
	ID   int64
}

// IsInstitution reports whether the actor is a hospital or blood bank.
func (a Actor) IsInstitution() bool {
	return a.Kind == KindHospital || a.Kind == KindBloodBank
}

// ParseActorKind validates a stored kind tag.
func ParseActorKind(raw string) (ActorKind, error) {
	switch ActorKind(raw) {
	case KindDonor, KindHospital, KindBloodBank:
		return ActorKind(raw), nil
	default:
		return "", ErrUnknownActorKind
	}
}
