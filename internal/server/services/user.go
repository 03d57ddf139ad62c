// Package services contains server-side business logic. This file implements
// UserService, which handles sign-up and login and mints session tokens.
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
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/events"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// PasswordHasher is satisfied by *auth.BcryptHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare must take about as long for an empty hash as for a real one.
	Compare(hash, password string) bool
}

// TokenIssuer is satisfied by *auth.Issuer.
type TokenIssuer interface {
	Issue(id models.Identity) (string, error)
}

// Session is the outcome of a successful sign-up or login.
type Session struct {
	User  models.Identity
	Token string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	issuer      TokenIssuer
	publisher   events.Publisher
	log         logging.Logger
	now         func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher,
	issuer TokenIssuer, publisher events.Publisher, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		issuer:      issuer,
		publisher:   publisher,
		log:         log.With("module", "users"),
		now:         time.Now,
	}
}

// NormalizeEmail is applied to every email before it reaches the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new user with role "user" and opens a session for it.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (sess *Session, err error) {
	ctx, span := startSpan(ctx, "UserService.Signup")
	defer func() { endSpan(span, err) }()

	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)

	_, err = repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrorDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		s.log.Error(ctx, "lookup by email failed", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is too long", common.ErrorValidation)
		}
		s.log.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	user, err := repo.Create(ctx, &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		// lost a race with a concurrent sign-up for the same email
		if errors.Is(err, common.ErrorDuplicateEmail) {
			return nil, common.ErrorDuplicateEmail
		}
		s.log.Error(ctx, "user create failed", "error", err)
		return nil, common.ErrorInternal
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	sess, err = s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.log, events.KeyUserSignedUp, events.UserSignedUp{
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		OccurredAt: s.now().UTC(),
	})
	s.log.Info(ctx, "user signed up", "user_id", user.ID)

	return sess, nil
}

// Login checks the credentials and opens a session. Unknown email, missing
// input and wrong password all yield common.ErrorInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (sess *Session, err error) {
	ctx, span := startSpan(ctx, "UserService.Login")
	defer func() { endSpan(span, err) }()

	email = NormalizeEmail(email)

	var user *models.User
	if email != "" {
		user, err = s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "lookup by email failed", "error", err)
			return nil, common.ErrorInternal
		}
	}

	hash := ""
	if user != nil {
		hash = user.PasswordHash
	}
	// Compare runs even without a user so both failure paths cost the same.
	if !s.hasher.Compare(hash, password) || user == nil {
		return nil, common.ErrorInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// Whoami projects the session identity. The store is not consulted, so the
// values are those captured when the token was issued.
func (s *UserService) Whoami(id models.Identity) models.Identity {
	return id
}

func (s *UserService) openSession(ctx context.Context, user *models.User) (*Session, error) {
	identity := user.Identity()
	token, err := s.issuer.Issue(identity)
	if err != nil {
		s.log.Error(ctx, "token issue failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	return &Session{User: identity, Token: token}, nil
}

// publish is fire-and-forget: a broker outage never fails the request.
func publish(ctx context.Context, p events.Publisher, log logging.Logger, key string, v any) {
	if err := p.Publish(ctx, key, v); err != nil {
		log.Warn(ctx, "event publish failed", "key", key, "error", err)
	}
}
