// Package server wires configuration, storage, the auth core and the
// transports together and runs them until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/weekend/internal/logging"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
	"github.com/dmitrijs2005/weekend/internal/server/config"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/weekend/internal/server/rest"
	"github.com/dmitrijs2005/weekend/internal/server/revocation"
	"github.com/dmitrijs2005/weekend/internal/server/services"

	gs "github.com/dmitrijs2005/weekend/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	registry    revocation.Registry
	// sweeper is set only for the in-memory registry
	sweeper     *revocation.Memory
	redisClient redis.UniversalClient
	guard       *auth.Guard
	userService *services.UserService
	services    rest.Services
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(c, os.Stdout)
}

func newApp(c *config.Config, logOut io.Writer) (*App, error) {

	logger, err := logging.New(c.LogFormat, c.LogLevel, logOut)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db, repomanager: repomanager.NewPostgresRepositoryManager()}

	if err := app.initRegistry(); err != nil {
		_ = db.Close()
		return nil, err
	}

	// a fresh secret per process: restarting invalidates every token
	secret, err := auth.GenerateSecret()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("secret init error: %w", err)
	}

	hasher := auth.NewBcryptHasher(auth.WithCost(c.BcryptCost))
	codec := auth.NewCodec()

	authenticator := auth.NewAuthenticator(services.NewUserLookup(db, app.repomanager), hasher, codec, secret, logger,
		auth.WithValidity(c.TokenValidityDuration),
		auth.WithAdmission(services.RejectBanned),
	)
	app.guard = auth.NewGuard(codec, secret, app.registry, logger)

	app.userService = services.NewUserService(db, app.repomanager, hasher, authenticator, app.registry, logger)
	app.services = rest.Services{
		Users:       app.userService,
		Forums:      services.NewForumService(db, app.repomanager, logger),
		Threads:     services.NewThreadService(db, app.repomanager, logger),
		Posts:       services.NewPostService(db, app.repomanager, logger),
		Attachments: services.NewAttachmentService(db, app.repomanager, c, logger),
		Articles:    services.NewArticleService(db, app.repomanager, logger),
		Questions:   services.NewQuestionService(db, app.repomanager, logger),
		Chats:       services.NewChatService(db, app.repomanager, logger),
	}

	return app, nil
}

func (app *App) initRegistry() error {
	switch app.config.RevocationBackend {
	case config.RevocationMemory, "":
		m := revocation.NewMemory(app.logger)
		app.registry = m
		app.sweeper = m
	case config.RevocationRedis:
		app.redisClient = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{app.config.RedisAddr},
			Password: app.config.RedisPassword,
		})
		app.registry = revocation.NewRedis(app.redisClient)
	default:
		return fmt.Errorf("unknown revocation backend %q", app.config.RevocationBackend)
	}
	return nil
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.guard, app.userService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.guard, app.services, rest.Options{
		Login: rest.RateLimit{
			PerMinute: app.config.LoginRatePerMinute,
			Burst:     app.config.LoginBurst,
		},
		TrustedProxies: app.config.TrustedProxies,
	})
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run migrates the database and serves until a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()

	app.logger.Info(ctx, "Starting app...", "revocation", app.config.RevocationBackend)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.sweeper != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.sweeper.Run(ctx, app.config.RevocationSweepInterval)
		}()
	}

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")

	return nil
}

func (app *App) close() {
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close", "error", err)
	}
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error(context.Background(), "redis close", "error", err)
		}
	}
}
