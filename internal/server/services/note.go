package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/events"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/policy"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// NoteInput is the raw, unvalidated body of a create request. There is no
// owner field: the owner is always the requester.
type NoteInput struct {
	Subject    string
	Content    string
	Visibility string
	Type       string
}

type NoteService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	publisher    events.Publisher
	log          logging.Logger
	enforceTypes bool
	now          func() time.Time
}

// NewNoteService builds the service. With enforceTypes set, Create rejects
// note types the requester's role may not author.
func NewNoteService(db *sql.DB, m repomanager.RepositoryManager, publisher events.Publisher,
	log logging.Logger, enforceTypes bool) *NoteService {
	return &NoteService{
		db:           db,
		repomanager:  m,
		publisher:    publisher,
		log:          log.With("module", "notes"),
		enforceTypes: enforceTypes,
		now:          time.Now,
	}
}

// ParseFilter turns the raw "type" and "q" query values into a NoteFilter.
func ParseFilter(noteType, search string) (models.NoteFilter, error) {
	t, ok := models.ParseNoteType(noteType)
	if !ok {
		return models.NoteFilter{}, fmt.Errorf("%w: unknown note type %q", common.ErrorValidation, noteType)
	}
	return models.NoteFilter{Type: t, Search: strings.TrimSpace(search)}, nil
}

// Create stores a note owned by requester.
func (s *NoteService) Create(ctx context.Context, requester models.Identity, in NoteInput) (note *models.Note, err error) {
	ctx, span := startSpan(ctx, "NoteService.Create")
	defer func() { endSpan(span, err) }()

	note, err = s.validate(requester, in)
	if err != nil {
		return nil, err
	}

	created, err := s.repomanager.Notes(s.db).Create(ctx, note)
	if err != nil {
		s.log.Error(ctx, "note create failed", "owner", requester.ID, "error", err)
		return nil, common.ErrorInternal
	}
	span.SetAttributes(attribute.String("note.id", created.ID))

	publish(ctx, s.publisher, s.log, events.KeyNoteCreated, events.NoteCreated{
		NoteID:     created.ID,
		OwnerID:    created.OwnerID,
		Visibility: string(created.Visibility),
		Type:       string(created.Type),
		OccurredAt: s.now().UTC(),
	})

	return created, nil
}

func (s *NoteService) validate(requester models.Identity, in NoteInput) (*models.Note, error) {
	subject := strings.TrimSpace(in.Subject)
	if subject == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: subject and content are required", common.ErrorValidation)
	}

	visibility, ok := models.ParseVisibility(in.Visibility)
	if !ok {
		return nil, fmt.Errorf("%w: unknown visibility %q", common.ErrorValidation, in.Visibility)
	}

	noteType, ok := models.ParseNoteType(in.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unknown note type %q", common.ErrorValidation, in.Type)
	}

	if s.enforceTypes && !policy.For(requester.Role).MayCreate(noteType) {
		return nil, fmt.Errorf("%w: role %q may not create %q notes", common.ErrorForbidden, requester.Role, noteType)
	}

	return &models.Note{
		ID:         uuid.NewString(),
		Subject:    subject,
		Content:    in.Content,
		Visibility: visibility,
		OwnerID:    requester.ID,
		Type:       noteType,
	}, nil
}

// List returns the notes requester may read, using the read mode of its role.
func (s *NoteService) List(ctx context.Context, requester models.Identity, filter models.NoteFilter) ([]*models.Note, error) {
	return s.list(ctx, "NoteService.List", policy.For(requester.Role).Read(requester), filter)
}

// ListOwnerScoped always uses the owner-scoped read mode.
func (s *NoteService) ListOwnerScoped(ctx context.Context, requester models.Identity, filter models.NoteFilter) ([]*models.Note, error) {
	return s.list(ctx, "NoteService.ListOwnerScoped", policy.OwnerScope(requester), filter)
}

// ListBroad always uses the broad read mode.
func (s *NoteService) ListBroad(ctx context.Context, requester models.Identity, filter models.NoteFilter) ([]*models.Note, error) {
	return s.list(ctx, "NoteService.ListBroad", policy.BroadScope(requester), filter)
}

func (s *NoteService) list(ctx context.Context, op string, scope policy.Scope, filter models.NoteFilter) (out []*models.Note, err error) {
	ctx, span := startSpan(ctx, op)
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("notes.read_mode", scope.Mode.String()))

	if scope.RequesterID == "" {
		return nil, common.ErrorUnauthorized
	}

	rows, err := s.repomanager.Notes(s.db).List(ctx, scope, filter)
	if err != nil {
		s.log.Error(ctx, "note list failed", "mode", scope.Mode.String(), "error", err)
		return nil, common.ErrorInternal
	}

	out = make([]*models.Note, 0, len(rows))
	for _, n := range rows {
		if !scope.Allows(n) {
			s.log.Warn(ctx, "store returned a note outside the read scope", "note_id", n.ID, "mode", scope.Mode.String())
			continue
		}
		out = append(out, n)
	}
	span.SetAttributes(attribute.Int("notes.count", len(out)))

	return out, nil
}

// IsClientError reports whether err should be shown to the caller as a
// request problem rather than a server fault.
func IsClientError(err error) bool {
	return errors.Is(err, common.ErrorValidation) ||
		errors.Is(err, common.ErrorForbidden) ||
		errors.Is(err, common.ErrorUnauthorized) ||
		errors.Is(err, common.ErrorDuplicateEmail) ||
		errors.Is(err, common.ErrorInvalidCredentials)
}
