package http

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/policy"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
)

// memStore backs both repositories so handler tests run the real services.
type memStore struct {
	mu      sync.Mutex
	users   map[string]*models.User
	notes   []*models.Note
	clock   time.Time
	failAll error
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*models.User{},
		clock: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memStore) Users(dbx.DBTX) users.Repository            { return (*memUsers)(m) }
func (m *memStore) Notes(dbx.DBTX) notes.Repository            { return (*memNotes)(m) }

type memUsers memStore

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	if _, ok := r.users[u.Email]; ok {
		return nil, common.ErrorDuplicateEmail
	}
	u.CreatedAt = r.clock
	r.users[u.Email] = u
	return u, nil
}

func (r *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) UpdateRole(_ context.Context, id string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u.Role = role
			return nil
		}
	}
	return common.ErrorNotFound
}

type memNotes memStore

func (r *memNotes) Create(_ context.Context, n *models.Note) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	r.clock = r.clock.Add(time.Minute)
	n.CreatedAt, n.UpdatedAt = r.clock, r.clock
	r.notes = append(r.notes, n)
	return n, nil
}

func (r *memNotes) List(_ context.Context, scope policy.Scope, filter models.NoteFilter) ([]*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	out := make([]*models.Note, 0)
	for i := len(r.notes) - 1; i >= 0; i-- {
		n := r.notes[i]
		if !scope.Allows(n) {
			continue
		}
		if filter.Type != models.NoteTypeNone && n.Type != filter.Type {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
