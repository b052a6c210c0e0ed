package probe

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/mhollis/sitereport/internal/check"
	"github.com/mhollis/sitereport/internal/errors"
	"github.com/mhollis/sitereport/internal/site"
)

// cacheLatency measures the cache tier round trip with a single PING.
func cacheLatency(conn *site.Connection, th check.Thresholds) check.Definition {
	return check.Definition{
		Section: SectionCache,
		Name:    "latency",
		Kind:    check.KindAuto,
		Probe: func(ctx context.Context) (check.Metric, error) {
			client, err := conn.Cache()
			if err != nil {
				return check.Metric{}, err
			}
			start := time.Now()
			if err := client.Ping(ctx).Err(); err != nil {
				return check.Metric{}, errors.Wrap(err, "pinging cache tier")
			}
			elapsed := float64(time.Since(start).Microseconds()) / 1000.0
			return check.Metric{Value: elapsed, Unit: "ms"}, nil
		},
		Classify: check.Ceiling(th.BusRTTMillis, "cache round trip"),
	}
}

// cacheHitRate reads the keyspace hit rate from the cache's stats section.
func cacheHitRate(conn *site.Connection, th check.Thresholds) check.Definition {
	return check.Definition{
		Section: SectionCache,
		Name:    "hit-rate",
		Kind:    check.KindAuto,
		Probe: func(ctx context.Context) (check.Metric, error) {
			client, err := conn.Cache()
			if err != nil {
				return check.Metric{}, err
			}
			info, err := client.Info(ctx, "stats").Result()
			if err != nil {
				return check.Metric{}, errors.Wrap(err, "reading cache stats")
			}
			hits, misses, err := parseKeyspaceStats(info)
			if err != nil {
				return check.Metric{}, err
			}
			total := hits + misses
			if total == 0 {
				// A cold cache has no hit rate to judge.
				return check.Metric{Value: 100, Unit: "%", Detail: "no lookups recorded"}, nil
			}
			return check.Metric{Value: float64(hits) / float64(total) * 100, Unit: "%"}, nil
		},
		Classify: check.Floor(th.CacheHitPercent, "cache hit rate"),
	}
}

// parseKeyspaceStats extracts keyspace_hits and keyspace_misses from an
// INFO stats block.
func parseKeyspaceStats(info string) (hits, misses int64, err error) {
	var haveHits, haveMisses bool

	scanner := bufio.NewScanner(strings.NewReader(info))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		switch key {
		case "keyspace_hits":
			hits, err = strconv.ParseInt(value, 10, 64)
			haveHits = err == nil
		case "keyspace_misses":
			misses, err = strconv.ParseInt(value, 10, 64)
			haveMisses = err == nil
		}
	}

	if !haveHits || !haveMisses {
		return 0, 0, errors.New("cache stats missing keyspace counters")
	}
	return hits, misses, nil
}
