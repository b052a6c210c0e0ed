package config

import (
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mhollis/sitereport/internal/errors"
	"github.com/mhollis/sitereport/internal/site"
	"github.com/mhollis/sitereport/pkg/fileutil"
)

// Inventory is the on-disk shape of a site inventory (site.toml). It
// lists the backends a run dials and the endpoints it probes.
type Inventory struct {
	Target string `toml:"target"`

	Database struct {
		DSN             string        `toml:"dsn"`
		MaxOpenConns    int           `toml:"max_open_conns"`
		MaxIdleConns    int           `toml:"max_idle_conns"`
		ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	} `toml:"database"`

	Cache struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
	} `toml:"cache"`

	Bus struct {
		URL string `toml:"url"`
	} `toml:"bus"`

	Services           []InventoryEndpoint `toml:"services"`
	DistributionPoints []InventoryEndpoint `toml:"distribution_points"`
}

// InventoryEndpoint is a named HTTP endpoint entry.
type InventoryEndpoint struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// LoadInventory reads and validates a site inventory file.
func LoadInventory(path string, dialTimeout time.Duration) (site.Config, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return site.Config{}, errors.Wrapf(err, "reading inventory %s", path)
	}

	var inv Inventory
	if err := toml.Unmarshal(data, &inv); err != nil {
		return site.Config{}, errors.Wrapf(err, "parsing inventory %s", path)
	}

	return inv.siteConfig(dialTimeout)
}

func (inv *Inventory) siteConfig(dialTimeout time.Duration) (site.Config, error) {
	if inv.Target == "" {
		return site.Config{}, errors.Wrap(errors.ErrInvalidConfig, "inventory: target is empty")
	}

	cfg := site.Config{
		Target:      inv.Target,
		DialTimeout: dialTimeout,
	}

	cfg.Database.DSN = inv.Database.DSN
	cfg.Database.MaxOpenConns = inv.Database.MaxOpenConns
	cfg.Database.MaxIdleConns = inv.Database.MaxIdleConns
	cfg.Database.ConnMaxLifetime = inv.Database.ConnMaxLifetime

	cfg.Cache.Addr = inv.Cache.Addr
	cfg.Cache.Password = inv.Cache.Password
	cfg.Cache.DB = inv.Cache.DB

	cfg.Bus.URL = inv.Bus.URL

	var err error
	if cfg.Services, err = endpoints("services", inv.Services); err != nil {
		return site.Config{}, err
	}
	if cfg.DistributionPoints, err = endpoints("distribution_points", inv.DistributionPoints); err != nil {
		return site.Config{}, err
	}

	return cfg, nil
}

func endpoints(section string, entries []InventoryEndpoint) ([]site.Endpoint, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	out := make([]site.Endpoint, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "inventory: %s[%d]: name is empty", section, i)
		}
		if e.URL == "" {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "inventory: %s[%d] (%s): url is empty", section, i, e.Name)
		}
		if seen[e.Name] {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "inventory: %s: duplicate name %q", section, e.Name)
		}
		seen[e.Name] = true
		out = append(out, site.Endpoint{Name: e.Name, URL: e.URL})
	}
	return out, nil
}

// SampleInventory returns a starter inventory with placeholder entries,
// written by the init command for the operator to fill in.
func SampleInventory() Inventory {
	inv := Inventory{Target: "PS1"}
	inv.Database.DSN = "postgres://sitereport@db.example.com/site_health?sslmode=verify-full"
	inv.Cache.Addr = "cache.example.com:6379"
	inv.Bus.URL = "nats://bus.example.com:4222"
	inv.Services = []InventoryEndpoint{
		{Name: "management-point", URL: "https://mp01.example.com/healthz"},
	}
	inv.DistributionPoints = []InventoryEndpoint{
		{Name: "dp01", URL: "https://dp01.example.com/status"},
	}
	return inv
}
