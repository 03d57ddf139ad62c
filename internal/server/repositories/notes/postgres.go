// Package notes is the PostgreSQL-backed note store. Listing queries are
// built from a policy.Scope so the visibility rules live in one place.
package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/policy"
	"github.com/jackc/pgx/v5/pgconn"
)

// foreignKeyViolation is the PostgreSQL SQLSTATE raised when owner_id does
// not reference an existing user.
const foreignKeyViolation = "23503"

// PostgresRepository implements note storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts note and fills in the server-assigned timestamps.
// An unknown owner yields common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {

	query :=
		`INSERT INTO notes (id, subject, content, visibility, owner_id, type)
		VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		note.ID, note.Subject, note.Content, string(note.Visibility), note.OwnerID, string(note.Type),
	).Scan(&note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, fmt.Errorf("owner %s: %w", note.OwnerID, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

// List returns the notes visible through scope, newest first.
func (r *PostgresRepository) List(ctx context.Context, scope policy.Scope, filter models.NoteFilter) ([]*models.Note, error) {
	query, args, err := buildListQuery(scope, filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Note, 0)
	for rows.Next() {
		var (
			item             models.Note
			visibility, kind string
		)
		if err := rows.Scan(
			&item.ID, &item.Subject, &item.Content, &visibility, &item.OwnerID, &kind,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		item.Visibility = models.Visibility(visibility)
		item.Type = models.NoteType(kind)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

const selectNotes = `SELECT id, subject, content, visibility, owner_id, type, created_at, updated_at FROM notes`

// buildListQuery renders the WHERE clause for scope and filter. Each read
// mode keeps its own predicate shape; see policy.Scope.Allows.
func buildListQuery(scope policy.Scope, filter models.NoteFilter) (string, []any, error) {
	var (
		sb   strings.Builder
		args []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sb.WriteString(selectNotes)
	sb.WriteString(" WHERE ")

	switch scope.Mode {
	case policy.OwnerScoped:
		fmt.Fprintf(&sb, "(visibility = %s OR owner_id = %s)",
			arg(string(models.VisibilityAdminOnly)), arg(scope.RequesterID))
	case policy.Broad:
		private := arg(string(models.VisibilityPrivate))
		fmt.Fprintf(&sb, "(visibility <> %s OR (owner_id = %s AND visibility = %s))",
			private, arg(scope.RequesterID), private)
	default:
		return "", nil, fmt.Errorf("unsupported read mode: %s", scope.Mode)
	}

	if filter.Type != models.NoteTypeNone {
		fmt.Fprintf(&sb, " AND type = %s", arg(string(filter.Type)))
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		p := arg("%" + escapeLike(q) + "%")
		fmt.Fprintf(&sb, " AND (subject ILIKE %s OR content ILIKE %s)", p, p)
	}

	sb.WriteString(" ORDER BY created_at DESC, id DESC")

	return sb.String(), args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
