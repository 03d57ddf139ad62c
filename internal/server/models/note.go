package models

import (
	"strings"
	"time"
)

// Visibility controls who besides the owner can read a note.
type Visibility string

const (
	// VisibilityPrivate notes are readable by their owner only.
	VisibilityPrivate Visibility = "PRIVATE"
	// VisibilityAdminOnly marks content authored for every user to read.
	// The name describes the author, not the audience.
	VisibilityAdminOnly Visibility = "ADMIN_ONLY"
)

// ParseVisibility validates a visibility value. Empty input yields
// VisibilityPrivate.
func ParseVisibility(s string) (Visibility, bool) {
	switch Visibility(strings.TrimSpace(s)) {
	case "":
		return VisibilityPrivate, true
	case VisibilityPrivate:
		return VisibilityPrivate, true
	case VisibilityAdminOnly:
		return VisibilityAdminOnly, true
	}
	return "", false
}

// NoteType is a free-form category. It plays no part in read access.
type NoteType string

const (
	NoteTypeNone        NoteType = ""
	NoteTypePersonal    NoteType = "personal"
	NoteTypePermissions NoteType = "permissions"
	NoteTypeReports     NoteType = "reports"
	NoteTypeAdminOrders NoteType = "adminOrders"
)

var noteTypes = []NoteType{NoteTypePersonal, NoteTypePermissions, NoteTypeReports, NoteTypeAdminOrders}

// ParseNoteType matches s case-insensitively against the known types and
// returns the canonical spelling. Empty input yields NoteTypeNone.
func ParseNoteType(s string) (NoteType, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoteTypeNone, true
	}
	for _, t := range noteTypes {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

type Note struct {
	ID         string
	Subject    string
	Content    string
	Visibility Visibility
	OwnerID    string
	Type       NoteType
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NoteFilter narrows a note listing. Zero values mean "no restriction".
type NoteFilter struct {
	Type   NoteType
	Search string
}
