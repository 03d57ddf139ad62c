// Package policy decides which notes a requester may read and which note
// types it may create.
//
// Each role maps to a capability set. Plain users read through the
// owner-scoped query, every other role through the broad one. The two
// queries are kept as separate shapes even though, with today's two
// visibility values, they select the same rows.
package policy

import (
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// ReadMode selects the query shape used for listing notes.
type ReadMode int

const (
	// OwnerScoped: visibility = ADMIN_ONLY OR owner = requester.
	OwnerScoped ReadMode = iota + 1
	// Broad: visibility <> PRIVATE OR (owner = requester AND visibility = PRIVATE).
	Broad
)

func (m ReadMode) String() string {
	switch m {
	case OwnerScoped:
		return "owner-scoped"
	case Broad:
		return "broad"
	default:
		return fmt.Sprintf("ReadMode(%d)", int(m))
	}
}

// Scope is a read query bound to one requester.
type Scope struct {
	Mode        ReadMode
	RequesterID string
}

func OwnerScope(requester models.Identity) Scope {
	return Scope{Mode: OwnerScoped, RequesterID: requester.ID}
}

func BroadScope(requester models.Identity) Scope {
	return Scope{Mode: Broad, RequesterID: requester.ID}
}

// Allows evaluates the scope predicate against a single note. It must agree
// with the SQL the note repository builds for the same scope.
func (s Scope) Allows(n *models.Note) bool {
	if n == nil {
		return false
	}
	owned := s.RequesterID != "" && n.OwnerID == s.RequesterID

	switch s.Mode {
	case OwnerScoped:
		return n.Visibility == models.VisibilityAdminOnly || owned
	case Broad:
		return n.Visibility != models.VisibilityPrivate || (owned && n.Visibility == models.VisibilityPrivate)
	default:
		return false
	}
}

// Capabilities is what a role is allowed to do with notes.
type Capabilities interface {
	// Read returns the listing scope for requester.
	Read(requester models.Identity) Scope
	// MayCreate reports whether the role may author notes of type t.
	MayCreate(t models.NoteType) bool
}

// For returns the capability set of role. Any role other than "user" gets
// the administrator set.
func For(role models.Role) Capabilities {
	if role == models.RoleUser {
		return member{}
	}
	return administrator{}
}

type member struct{}

func (member) Read(requester models.Identity) Scope { return OwnerScope(requester) }

func (member) MayCreate(t models.NoteType) bool { return t != models.NoteTypeAdminOrders }

type administrator struct{}

func (administrator) Read(requester models.Identity) Scope { return BroadScope(requester) }

func (administrator) MayCreate(models.NoteType) bool { return true }
