// Package server initializes and runs the control-plane application: it
// opens the metadata database, runs migrations, builds the object-store
// gateway and the token blacklist, wires the services into the HTTP server,
// and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/avagyans/filegate/internal/logging"
	"github.com/avagyans/filegate/internal/server/blacklist"
	"github.com/avagyans/filegate/internal/server/config"
	"github.com/avagyans/filegate/internal/server/repositories/repomanager"
	"github.com/avagyans/filegate/internal/server/services"
	"github.com/avagyans/filegate/internal/server/storage/s3gw"
	"github.com/avagyans/filegate/internal/server/web"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	revoked *blacklist.RedisStore
	server  *web.Server

	userService *services.UserService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := s3gw.New(ctx, s3gw.Config{
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	revoked := blacklist.NewRedisStore(cfg.RedisAddr)

	us := services.NewUserService(db, repos, cfg)
	svc := &web.Services{
		Users:       us,
		Roles:       services.NewRoleService(db, repos),
		Listing:     services.NewListingService(db, repos, store),
		Files:       services.NewFileService(db, repos, store),
		Shares:      services.NewShareService(db, repos, store),
		Assignments: services.NewAssignmentService(db, repos),
	}

	srv := web.NewServer(cfg, svc, revoked, logger)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		revoked:     revoked,
		server:      srv,
		userService: us,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.userService.EnsureAdmin(ctx, app.config.AdminUsername, app.config.AdminPassword); err != nil {
		app.logger.Error(ctx, "admin bootstrap failed", "error", err)
		return
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(); err != nil {
			app.logger.Error(ctx, "http server failed", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	if err := app.server.Shutdown(context.Background()); err != nil {
		app.logger.Error(ctx, "shutdown error", "error", err)
	}

	wg.Wait()

	if err := app.revoked.Close(); err != nil {
		app.logger.Error(ctx, "redis close error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
