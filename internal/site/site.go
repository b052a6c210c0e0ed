// Package site establishes and owns the management connection: the opaque
// handle through which every check queries the site. The runner and the
// probes treat it as a black box exposing narrow per-backend capabilities.
package site

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/mhollis/sitereport/internal/errors"

	_ "github.com/lib/pq"
)

// DatabaseConfig describes the site database backend.
type DatabaseConfig struct {
	// DSN is the Postgres connection string.
	DSN string

	// MaxOpenConns bounds the pool. Zero means the driver default.
	MaxOpenConns int

	// MaxIdleConns bounds idle connections. Zero means the driver default.
	MaxIdleConns int

	// ConnMaxLifetime recycles connections older than this.
	ConnMaxLifetime time.Duration
}

// CacheConfig describes the cache tier backend.
type CacheConfig struct {
	Addr     string
	Password string
	DB       int
}

// BusConfig describes the notification bus backend.
type BusConfig struct {
	URL string
}

// Endpoint is a named HTTP endpoint: a component service health URL or a
// distribution point status URL.
type Endpoint struct {
	Name string
	URL  string
}

// Config is the site inventory handed to Dial. Backends with zero values
// are simply absent; checks that need them report Unknown.
type Config struct {
	// Target identifies the site in the report header (e.g. a site code).
	Target string

	// DialTimeout bounds the initial connection attempts.
	DialTimeout time.Duration

	Database           DatabaseConfig
	Cache              CacheConfig
	Bus                BusConfig
	Services           []Endpoint
	DistributionPoints []Endpoint
}

// configured reports whether the inventory names at least one backend.
func (c Config) configured() bool {
	return c.Database.DSN != "" ||
		c.Cache.Addr != "" ||
		c.Bus.URL != "" ||
		len(c.Services) > 0 ||
		len(c.DistributionPoints) > 0
}

// Connection is the live management connection. Obtain one with Dial and
// release it with Close.
type Connection struct {
	target   string
	db       *sql.DB
	cache    *redis.Client
	bus      *nats.Conn
	http     *http.Client
	services []Endpoint
	dps      []Endpoint
}

// Dial opens the management connection described by cfg.
//
// The site database is the backbone of the management connection: when a
// DSN is configured, a failed ping is fatal and nothing can be reported.
// The cache tier and notification bus connect lazily; an unreachable one
// surfaces as a Critical row in its own check rather than aborting the run.
func Dial(ctx context.Context, cfg Config, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.configured() {
		return nil, errors.Wrap(errors.ErrConnectionFailed, "site inventory names no backends")
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}

	conn := &Connection{
		target:   cfg.Target,
		services: cfg.Services,
		dps:      cfg.DistributionPoints,
		http: &http.Client{
			Timeout: dialTimeout,
		},
	}

	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, errors.Wrap(errors.ErrConnectionFailed, err.Error())
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

		pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			db.Close()
			return nil, errors.Wrapf(errors.ErrConnectionFailed, "pinging site database: %v", err)
		}

		conn.db = db
		logger.Info("site database connected", "target", cfg.Target)
	}

	if cfg.Cache.Addr != "" {
		conn.cache = redis.NewClient(&redis.Options{
			Addr:        cfg.Cache.Addr,
			Password:    cfg.Cache.Password,
			DB:          cfg.Cache.DB,
			DialTimeout: dialTimeout,
			MaxRetries:  0, // each check runs at most once
		})
		logger.Debug("cache tier client created", "addr", cfg.Cache.Addr)
	}

	if cfg.Bus.URL != "" {
		nc, err := nats.Connect(cfg.Bus.URL,
			nats.RetryOnFailedConnect(true),
			nats.MaxReconnects(1),
			nats.Timeout(dialTimeout),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if err != nil {
					logger.Warn("notification bus disconnected", "error", err.Error())
				}
			}),
		)
		if err != nil {
			// Connection state is reported by the bus check itself.
			logger.Warn("notification bus unavailable", "error", err.Error())
		} else {
			conn.bus = nc
			logger.Debug("notification bus client created", "url", cfg.Bus.URL)
		}
	}

	return conn, nil
}

// Target returns the site identifier.
func (c *Connection) Target() string {
	return c.target
}

// DB returns the site database handle, or ErrNotConfigured when the
// inventory has no database.
func (c *Connection) DB() (*sql.DB, error) {
	if c.db == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "site database")
	}
	return c.db, nil
}

// Cache returns the cache tier client, or ErrNotConfigured when the
// inventory has no cache.
func (c *Connection) Cache() (*redis.Client, error) {
	if c.cache == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "cache tier")
	}
	return c.cache, nil
}

// Bus returns the notification bus connection, or ErrNotConfigured when
// the inventory has no bus or the initial connect never succeeded.
func (c *Connection) Bus() (*nats.Conn, error) {
	if c.bus == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "notification bus")
	}
	return c.bus, nil
}

// HTTP returns the shared HTTP client used for endpoint probes.
func (c *Connection) HTTP() *http.Client {
	return c.http
}

// Services returns the configured component service endpoints.
func (c *Connection) Services() []Endpoint {
	return c.services
}

// DistributionPoints returns the configured distribution point endpoints.
func (c *Connection) DistributionPoints() []Endpoint {
	return c.dps
}

// Close releases every backend handle. Safe to call on a partially
// populated connection.
func (c *Connection) Close() error {
	var firstErr error
	if c.db != nil {
		if err := c.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.cache != nil {
		if err := c.cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.bus != nil {
		c.bus.Close()
	}
	return firstErr
}
