package http

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) createNote(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		s.writeError(c, common.ErrorUnauthorized, msgUnauthorized, msgServerError)
		return
	}

	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, common.ErrorValidation, msgInvalidNote, msgServerError)
		return
	}

	note, err := s.notes.Create(c.Request.Context(), id, services.NoteInput{
		Subject:    req.Subject,
		Content:    req.Content,
		Visibility: req.Visibility,
		Type:       req.Type,
	})
	if err != nil {
		s.writeError(c, err, msgInvalidNote, msgServerError)
		return
	}

	c.JSON(http.StatusCreated, toNoteResponse(note))
}

type listFunc func(ctx context.Context, requester models.Identity, filter models.NoteFilter) ([]*models.Note, error)

func (s *HTTPServer) listNotes(c *gin.Context)       { s.respondNotes(c, s.notes.List) }
func (s *HTTPServer) listOwnerScoped(c *gin.Context) { s.respondNotes(c, s.notes.ListOwnerScoped) }
func (s *HTTPServer) listBroad(c *gin.Context)       { s.respondNotes(c, s.notes.ListBroad) }

func (s *HTTPServer) respondNotes(c *gin.Context, list listFunc) {
	id, ok := identity(c)
	if !ok {
		s.writeError(c, common.ErrorUnauthorized, msgUnauthorized, msgServerError)
		return
	}

	filter, err := services.ParseFilter(c.Query("type"), c.Query("q"))
	if err != nil {
		s.writeError(c, err, msgInvalidFilter, msgFetchNotesFailed)
		return
	}

	notes, err := list(c.Request.Context(), id, filter)
	if err != nil {
		s.writeError(c, err, msgInvalidFilter, msgFetchNotesFailed)
		return
	}

	c.JSON(http.StatusOK, toNoteResponses(notes))
}
