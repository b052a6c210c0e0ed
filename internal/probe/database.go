package probe

import (
	"context"

	"github.com/mhollis/sitereport/internal/check"
	"github.com/mhollis/sitereport/internal/errors"
	"github.com/mhollis/sitereport/internal/site"
)

// The site database exposes its operational signals through the
// site_health schema, maintained by the site's own maintenance jobs.
const (
	queryVersion      = `SELECT version()`
	queryFreeSpace    = `SELECT free_percent FROM site_health.database_space ORDER BY measured_at DESC LIMIT 1`
	queryEvalTime     = `SELECT max_seconds FROM site_health.collection_eval ORDER BY measured_at DESC LIMIT 1`
	queryActiveShare  = `SELECT active_percent FROM site_health.client_activity ORDER BY measured_at DESC LIMIT 1`
	queryLastBackupAge = `
		SELECT EXTRACT(EPOCH FROM (now() - completed_at)) / 3600.0
		FROM site_health.backup_history
		WHERE succeeded
		ORDER BY completed_at DESC
		LIMIT 1`
)

// databaseConnectivity asserts the site database answers at all.
func databaseConnectivity(conn *site.Connection) check.Definition {
	return check.Definition{
		Section: SectionDatabase,
		Name:    "connectivity",
		Kind:    check.KindAuto,
		Probe: func(ctx context.Context) (check.Metric, error) {
			db, err := conn.DB()
			if err != nil {
				return check.Metric{}, err
			}
			var version string
			if err := db.QueryRowContext(ctx, queryVersion).Scan(&version); err != nil {
				return check.Metric{}, errors.Wrap(err, "querying database version")
			}
			return check.Metric{Value: 1, Detail: truncate(version, 60)}, nil
		},
		Classify: func(m check.Metric) (check.Status, string) {
			return check.StatusHealthy, "reachable, " + m.Detail
		},
	}
}

// databaseFreeSpace measures free space in the site database.
func databaseFreeSpace(conn *site.Connection, th check.Thresholds) check.Definition {
	return check.Definition{
		Section: SectionDatabase,
		Name:    "free-space",
		Kind:    check.KindAuto,
		Probe:   scalarQuery(conn, queryFreeSpace, "%", "querying database free space"),
		Classify: check.Floor(th.DatabaseFreePercent, "database free space"),
	}
}

// collectionEvalTime measures the slowest recent collection evaluation.
func collectionEvalTime(conn *site.Connection, th check.Thresholds) check.Definition {
	return check.Definition{
		Section: SectionDatabase,
		Name:    "collection-eval",
		Kind:    check.KindAuto,
		Probe:   scalarQuery(conn, queryEvalTime, "s", "querying collection evaluation time"),
		Classify: check.Ceiling(th.EvalSeconds, "slowest evaluation"),
	}
}

// activeClients measures the share of clients reporting as active.
func activeClients(conn *site.Connection, th check.Thresholds) check.Definition {
	return check.Definition{
		Section: SectionClients,
		Name:    "active-share",
		Kind:    check.KindAuto,
		Probe:   scalarQuery(conn, queryActiveShare, "%", "querying client activity"),
		Classify: check.Floor(th.ActiveClientPercent, "active clients"),
	}
}

// backupAge measures hours since the last successful site backup.
func backupAge(conn *site.Connection, th check.Thresholds) check.Definition {
	return check.Definition{
		Section: SectionBackup,
		Name:    "last-backup-age",
		Kind:    check.KindAuto,
		Probe:   scalarQuery(conn, queryLastBackupAge, "h", "querying backup history"),
		Classify: check.Ceiling(th.BackupAgeHours, "last successful backup"),
	}
}

// scalarQuery builds a probe that runs a single-value query against the
// site database.
func scalarQuery(conn *site.Connection, query, unit, action string) check.Probe {
	return func(ctx context.Context) (check.Metric, error) {
		db, err := conn.DB()
		if err != nil {
			return check.Metric{}, err
		}
		var value float64
		if err := db.QueryRowContext(ctx, query).Scan(&value); err != nil {
			return check.Metric{}, errors.Wrap(err, action)
		}
		return check.Metric{Value: value, Unit: unit}, nil
	}
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
