package notes

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/policy"
)

type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	List(ctx context.Context, scope policy.Scope, filter models.NoteFilter) ([]*models.Note, error)
}
