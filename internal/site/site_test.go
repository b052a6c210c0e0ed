package site

import (
	"context"
	"testing"
	"time"

	"github.com/mhollis/sitereport/internal/errors"
	"github.com/mhollis/sitereport/internal/logging"
)

func TestDial_EmptyInventory(t *testing.T) {
	_, err := Dial(context.Background(), Config{Target: "PS1"}, logging.ForTest(t))
	if !errors.Is(err, errors.ErrConnectionFailed) {
		t.Errorf("Dial with empty inventory: error = %v, want ErrConnectionFailed", err)
	}
}

func TestDial_UnreachableDatabaseIsFatal(t *testing.T) {
	cfg := Config{
		Target:      "PS1",
		DialTimeout: 100 * time.Millisecond,
		Database: DatabaseConfig{
			// Reserved TEST-NET address, nothing listens there.
			DSN: "postgres://reader:x@192.0.2.1:5432/cm?connect_timeout=1&sslmode=disable",
		},
	}

	_, err := Dial(context.Background(), cfg, logging.ForTest(t))
	if !errors.Is(err, errors.ErrConnectionFailed) {
		t.Errorf("Dial with unreachable database: error = %v, want ErrConnectionFailed", err)
	}
}

func TestDial_CacheOnlyInventory(t *testing.T) {
	// The cache client connects lazily, so an inventory with only a cache
	// address dials fine; reachability is the cache check's concern.
	cfg := Config{
		Target:      "PS1",
		DialTimeout: 100 * time.Millisecond,
		Cache:       CacheConfig{Addr: "192.0.2.1:6379"},
	}

	conn, err := Dial(context.Background(), cfg, logging.ForTest(t))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if conn.Target() != "PS1" {
		t.Errorf("Target() = %q, want %q", conn.Target(), "PS1")
	}
	if _, err := conn.Cache(); err != nil {
		t.Errorf("Cache() should be available: %v", err)
	}
}

func TestConnection_UnconfiguredBackends(t *testing.T) {
	cfg := Config{
		Target:      "PS1",
		DialTimeout: 100 * time.Millisecond,
		Services:    []Endpoint{{Name: "mp01", URL: "http://mp01/health"}},
	}

	conn, err := Dial(context.Background(), cfg, logging.ForTest(t))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if _, err := conn.DB(); !errors.Is(err, errors.ErrNotConfigured) {
		t.Errorf("DB() error = %v, want ErrNotConfigured", err)
	}
	if _, err := conn.Cache(); !errors.Is(err, errors.ErrNotConfigured) {
		t.Errorf("Cache() error = %v, want ErrNotConfigured", err)
	}
	if _, err := conn.Bus(); !errors.Is(err, errors.ErrNotConfigured) {
		t.Errorf("Bus() error = %v, want ErrNotConfigured", err)
	}
	if conn.HTTP() == nil {
		t.Error("HTTP() should always be available")
	}
	if len(conn.Services()) != 1 {
		t.Errorf("Services() = %d endpoints, want 1", len(conn.Services()))
	}
}

func TestConnection_CloseIsSafeWhenPartial(t *testing.T) {
	conn := &Connection{}
	if err := conn.Close(); err != nil {
		t.Errorf("Close() on empty connection error = %v", err)
	}
}
