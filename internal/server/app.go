// Package server wires configuration, storage, services and transports
// into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/events"
	"github.com/dmitrijs2005/notekeeper/internal/server/health"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/dmitrijs2005/notekeeper/internal/server/tracing"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	hs "github.com/dmitrijs2005/notekeeper/internal/server/http"
)

const (
	healthProbeInterval = 5 * time.Second
	closeTimeout        = 5 * time.Second
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	issuer          *auth.Issuer
	publisher       events.Publisher
	shutdownTracing tracing.ShutdownFunc
	userService     *services.UserService
	noteService     *services.NoteService
}

// NewApp validates c, opens the database, applies migrations and builds
// the services. A missing signing key is fatal here, before anything listens.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, c.LogLevel).With("service", common.ServiceName)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	issuer, err := auth.NewIssuer(c.SecretKey, c.SessionDuration)
	if err != nil {
		return nil, fmt.Errorf("session issuer: %w", err)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migrate error: %w", err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if c.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(c.AMQPURL, c.AMQPExchange)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("events init error: %w", err)
		}
		publisher = p
	}

	shutdownTracing, err := tracing.Init(ctx, c.OTLPEndpoint, common.ServiceName, common.Version)
	if err != nil {
		_ = publisher.Close()
		_ = db.Close()
		return nil, fmt.Errorf("tracing init error: %w", err)
	}

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)

	return &App{
		config:          c,
		logger:          logger,
		db:              db,
		issuer:          issuer,
		publisher:       publisher,
		shutdownTracing: shutdownTracing,
		userService:     services.NewUserService(db, rm, hasher, issuer, publisher, logger),
		noteService:     services.NewNoteService(db, rm, publisher, logger, c.EnforceNoteTypeRoles),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	gin.SetMode(gin.ReleaseMode)

	s := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.noteService, app.issuer, hs.Options{
		CookieName:   app.config.CookieName,
		CookieSecure: app.config.CookieSecure,
		CORSOrigins:  app.config.CORSOrigins,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startHealthServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := health.NewServer(app.config.EndpointAddrHealth, app.logger, app.db, healthProbeInterval)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "health server failed", "error", err)
		cancelFunc()
	}
}

// Run serves until a signal arrives or a server fails, then releases
// the database, the event publisher and the tracer.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "version", common.Version)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHealthServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := app.shutdownTracing(ctx); err != nil {
		app.logger.Warn(ctx, "tracer shutdown", "error", err)
	}
	if err := app.publisher.Close(); err != nil {
		app.logger.Warn(ctx, "publisher close", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close", "error", err)
	}
}
