// Package database manages the PostgreSQL connection pool and schema migrations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Shubham-NM01/doc-uploader/pkg/lifecycle"
)

// ErrNotReady is returned when the database is used before Start completes.
var ErrNotReady = errors.New("database not ready")

// System owns the connection pool.
type System interface {
	Connection() *sql.DB
	Start(lc *lifecycle.Coordinator) error
	Ping(ctx context.Context) error
}

// Option customizes a database System.
type Option func(*database)

// WithMigrations applies the SQL migrations found in dir of fsys during Start.
func WithMigrations(fsys fs.FS, dir string) Option {
	return func(d *database) {
		d.migrations = fsys
		d.migrationsDir = dir
	}
}

type database struct {
	conn          *sql.DB
	cfg           *Config
	logger        *slog.Logger
	migrations    fs.FS
	migrationsDir string
	ready         atomic.Bool
}

// New opens a connection pool. No connection is made until Start.
func New(cfg *Config, logger *slog.Logger, opts ...Option) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	d := &database{
		conn:   db,
		cfg:    cfg,
		logger: logger.With("system", "database"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Ping(ctx context.Context) error {
	if !d.ready.Load() {
		return ErrNotReady
	}
	return d.conn.PingContext(ctx)
}

// Start verifies connectivity, applies pending migrations, and registers
// the pool for closing on shutdown.
func (d *database) Start(lc *lifecycle.Coordinator) error {
	ctx, cancel := context.WithTimeout(lc.Context(), d.cfg.ConnTimeoutDuration())
	defer cancel()

	if err := d.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if d.migrations != nil {
		if err := d.migrate(); err != nil {
			return err
		}
	}

	lc.OnStartup(func() {
		d.ready.Store(true)
		d.logger.Info("database connected", "host", d.cfg.Host, "name", d.cfg.Name)
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.ready.Store(false)
		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database connection closed")
	})

	return nil
}

func (d *database) migrate() error {
	src, err := iofs.New(d.migrations, d.migrationsDir)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := migratepgx.WithInstance(d.conn, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	d.logger.Info("migrations applied", "version", version, "dirty", dirty)
	return nil
}
