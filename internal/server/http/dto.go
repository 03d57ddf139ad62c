package http

import (
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// createNoteRequest has no owner field on purpose: a client-sent "owner"
// is dropped during decoding.
type createNoteRequest struct {
	Subject    string `json:"subject"`
	Content    string `json:"content"`
	Visibility string `json:"visibility"`
	Type       string `json:"type"`
}

type userResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type sessionResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// noteResponse keeps the field names the web client already reads.
type noteResponse struct {
	ID         string            `json:"_id"`
	Subject    string            `json:"subject"`
	Content    string            `json:"content"`
	Visibility models.Visibility `json:"visibility"`
	Owner      string            `json:"owner"`
	Type       models.NoteType   `json:"type,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

func toUserResponse(id models.Identity) userResponse {
	return userResponse{ID: id.ID, Name: id.Name, Email: id.Email, Role: id.Role}
}

func toNoteResponse(n *models.Note) noteResponse {
	return noteResponse{
		ID:         n.ID,
		Subject:    n.Subject,
		Content:    n.Content,
		Visibility: n.Visibility,
		Owner:      n.OwnerID,
		Type:       n.Type,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

func toNoteResponses(notes []*models.Note) []noteResponse {
	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	return out
}
