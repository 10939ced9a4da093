package learning

import (
	types "github.com/studyloop/studyloop-backend/internal/domain"
)

// Actor identifies the caller of every usecase.
type Actor struct {
	ID   string
	Role types.Role
}

func (a Actor) IsAdmin() bool { return a.Role.IsAdmin() }

// Action is what the actor wants to do with a curriculum subtree.
// Summary and feedback permissions derive from the parent curriculum:
// reading either requires ActionRead on the curriculum, creating or
// deleting either requires ActionMutate.
type Action string

const (
	ActionRead   Action = "read"
	ActionMutate Action = "mutate"
)

// Decision carries the verdict and a stable reason for logs.
type Decision struct {
	Allow  bool
	Reason string
}

func allow(reason string) Decision { return Decision{Allow: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allow: false, Reason: reason} }

// Authorize is the single decision point for curriculum access. Every
// usecase goes through it; none re-implements the rules.
func Authorize(actor Actor, curriculum *types.Curriculum, action Action) Decision {
	if curriculum == nil {
		return deny("resource missing")
	}
	if actor.IsAdmin() {
		return allow("admin")
	}
	if curriculum.OwnerID == actor.ID {
		return allow("owner")
	}
	if action == ActionRead && curriculum.Visibility == types.VisibilityPublic {
		return allow("public visibility")
	}
	return deny("not owner")
}
