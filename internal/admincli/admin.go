// Package admincli implements the admin bootstrap command. Sign-up always
// creates plain users, so this is how the first administrator appears:
// either an existing account is promoted, or a new admin account is created
// with a password typed at the terminal.
package admincli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/flagx"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/google/uuid"
)

var (
	ErrEmptyPassword    = errors.New("password must not be empty")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrMissingEmail     = errors.New("-email is required")
)

// Outcome tells what Bootstrap did.
type Outcome int

const (
	Created Outcome = iota + 1
	Promoted
	AlreadyAdmin
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Promoted:
		return "promoted"
	case AlreadyAdmin:
		return "already admin"
	}
	return "unknown"
}

type Bootstrapper struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      services.PasswordHasher
	in          *bufio.Reader
	out         io.Writer
	logger      logging.Logger
}

func NewBootstrapper(db *sql.DB, m repomanager.RepositoryManager, hasher services.PasswordHasher,
	in io.Reader, out io.Writer, l logging.Logger) *Bootstrapper {
	return &Bootstrapper{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		in:          bufio.NewReader(in),
		out:         out,
		logger:      l.With("module", "admincli"),
	}
}

// Options are the command-line arguments of the admin command.
type Options struct {
	Email string
	Name  string
}

// ParseOptions reads -email and -name from args, ignoring everything else
// (server flags such as -d are handled by the config package).
func ParseOptions(args []string) (Options, error) {
	var o Options

	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.Email, "email", "", "email of the account to create or promote")
	fs.StringVar(&o.Name, "name", "", "display name for a new account")

	filtered := flagx.FilterArgs(args, []string{"-email", "--email", "-name", "--name"})
	if err := fs.Parse(filtered); err != nil {
		return o, err
	}

	o.Email = services.NormalizeEmail(o.Email)
	if o.Email == "" {
		return o, ErrMissingEmail
	}
	return o, nil
}

// Bootstrap makes the account behind o.Email an administrator, creating it
// when it does not exist. The lookup and the write share one transaction.
func (b *Bootstrapper) Bootstrap(ctx context.Context, o Options) (*models.User, Outcome, error) {
	var (
		user    *models.User
		outcome Outcome
	)

	err := dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := b.repomanager.Users(tx)

		existing, err := repo.GetUserByEmail(ctx, o.Email)
		switch {
		case err == nil:
			user = existing
			if existing.Role == models.RoleAdmin {
				outcome = AlreadyAdmin
				return nil
			}
			if err := repo.UpdateRole(ctx, existing.ID, models.RoleAdmin); err != nil {
				return fmt.Errorf("promote %s: %w", o.Email, err)
			}
			existing.Role = models.RoleAdmin
			outcome = Promoted
			return nil
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("lookup %s: %w", o.Email, err)
		}

		name := o.Name
		if name == "" {
			if name, err = GetSimpleText(b.in, "Display name", b.out); err != nil {
				return err
			}
			if name == "" {
				return fmt.Errorf("%w: name is required", common.ErrorValidation)
			}
		}

		password, err := GetNewPassword(b.out)
		if err != nil {
			return err
		}
		hash, err := b.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		user, err = repo.Create(ctx, &models.User{
			ID:           uuid.NewString(),
			Name:         name,
			Email:        o.Email,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", o.Email, err)
		}
		outcome = Created
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	b.logger.Info(ctx, "admin bootstrap", "user_id", user.ID, "outcome", outcome.String())
	return user, outcome, nil
}
