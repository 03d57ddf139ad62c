// Package http exposes the notes API over HTTP using gin.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UserService is satisfied by *services.UserService.
type UserService interface {
	Signup(ctx context.Context, name, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Whoami(id models.Identity) models.Identity
}

// NoteService is satisfied by *services.NoteService.
type NoteService interface {
	Create(ctx context.Context, requester models.Identity, in services.NoteInput) (*models.Note, error)
	List(ctx context.Context, requester models.Identity, filter models.NoteFilter) ([]*models.Note, error)
	ListOwnerScoped(ctx context.Context, requester models.Identity, filter models.NoteFilter) ([]*models.Note, error)
	ListBroad(ctx context.Context, requester models.Identity, filter models.NoteFilter) ([]*models.Note, error)
}

// Sessions is satisfied by *auth.Issuer.
type Sessions interface {
	Verify(token string) (models.Identity, error)
	Cookie(name, token string, secure bool) *http.Cookie
}

// Options tune the transport.
type Options struct {
	CookieName string
	// CookieSecure forces the Secure attribute even on plain HTTP requests.
	CookieSecure bool
	CORSOrigins  []string
}

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address  string
	logger   logging.Logger
	users    UserService
	notes    NoteService
	sessions Sessions
	opts     Options
	now      func() time.Time
}

func NewHTTPServer(a string, l logging.Logger, us UserService, ns NoteService, ss Sessions, opts Options) *HTTPServer {
	return &HTTPServer{
		address:  a,
		logger:   l.With("module", "http_server"),
		users:    us,
		notes:    ns,
		sessions: ss,
		opts:     opts,
		now:      time.Now,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Handler builds the gin engine with all routes and middleware.
func (s *HTTPServer) Handler() *gin.Engine {
	return s.newRouter()
}
