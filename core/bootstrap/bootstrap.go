package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/calcbot/core/config"
	coredatabase "github.com/m3rciful/calcbot/core/database"
	"github.com/m3rciful/calcbot/core/history"
	"github.com/m3rciful/calcbot/core/logger"
)

// Options control the bootstrap pipeline. Nil hooks fall back to the real implementations.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(context.Context, coreconfig.DatabaseConfig) (*sqlx.DB, error)
	Migrate    func(context.Context, coreconfig.DatabaseConfig) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	// DB is nil when database.enabled is false.
	DB      *sqlx.DB
	History history.Store
}

// Close releases the database connection, if any.
func (r *Result) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

// Run initializes the logger and the calculation history backend.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}
	cfg := opts.Config

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(cfg); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	if !cfg.Database.Enabled {
		logger.Info(ctx, "app", "history.backend",
			slog.String("mode", "memory"),
			slog.Int("count", cfg.Calc.HistorySize),
		)
		return &Result{History: history.NewMemoryStore(cfg.Calc.HistorySize)}, nil
	}

	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	db, err := connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	migrate := opts.Migrate
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}
	if err := migrate(ctx, cfg.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}

	logger.Info(ctx, "app", "history.backend", slog.String("mode", "postgres"))
	return &Result{DB: db, History: history.NewPostgresStore(db)}, nil
}
