package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/policy"
	notesrepo "github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	usersrepo "github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

type fakeUsersRepo struct {
	byEmail   map[string]*models.User
	getErr    error
	createErr error
	created   []*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorDuplicateEmail
	}
	f.byEmail[u.Email] = u
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdateRole(context.Context, string, models.Role) error { return nil }

// fakeNotesRepo keeps notes in memory and applies the scope predicate, so
// services can be tested end to end without SQL.
type fakeNotesRepo struct {
	notes      []*models.Note
	createErr  error
	listErr    error
	lastScope  policy.Scope
	lastFilter models.NoteFilter
	raw        bool // return every note, ignoring the scope
}

func (f *fakeNotesRepo) Create(_ context.Context, n *models.Note) (*models.Note, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.notes = append(f.notes, n)
	return n, nil
}

func (f *fakeNotesRepo) List(_ context.Context, scope policy.Scope, filter models.NoteFilter) ([]*models.Note, error) {
	f.lastScope, f.lastFilter = scope, filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Note, 0)
	for i := len(f.notes) - 1; i >= 0; i-- {
		if f.raw || scope.Allows(f.notes[i]) {
			out = append(out, f.notes[i])
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	n *fakeNotesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository         { return m.u }
func (m *fakeRepoManager) Notes(dbx.DBTX) notesrepo.Repository         { return m.n }

type fakeHasher struct {
	hashErr  error
	compared []string // hashes passed to Compare
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *fakeHasher) Compare(hash, password string) bool {
	h.compared = append(h.compared, hash)
	return hash != "" && hash == "hashed:"+password
}

type fakeIssuer struct {
	err error
}

func (i *fakeIssuer) Issue(id models.Identity) (string, error) {
	if i.err != nil {
		return "", i.err
	}
	return "token-for-" + id.ID, nil
}

type published struct {
	key string
	v   any
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{key: key, v: v})
	return p.err
}

func (p *fakePublisher) Close() error { return nil }
