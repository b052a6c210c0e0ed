package check

import (
	"fmt"

	"github.com/mhollis/sitereport/internal/errors"
)

// Thresholds holds the named numeric boundaries used by the threshold
// classifiers. All values are configuration inputs; nothing in the probes
// hardcodes a boundary.
type Thresholds struct {
	// CPUPercent is the ceiling for site server CPU load.
	CPUPercent float64 `mapstructure:"cpu_percent" yaml:"cpu_percent"`

	// MemoryPercent is the ceiling for site server memory use.
	MemoryPercent float64 `mapstructure:"memory_percent" yaml:"memory_percent"`

	// DiskFreePercent is the floor for free disk space on the site server
	// and on distribution point content libraries.
	DiskFreePercent float64 `mapstructure:"disk_free_percent" yaml:"disk_free_percent"`

	// DatabaseFreePercent is the floor for free space in the site database.
	DatabaseFreePercent float64 `mapstructure:"database_free_percent" yaml:"database_free_percent"`

	// EvalSeconds is the ceiling for collection evaluation time.
	EvalSeconds float64 `mapstructure:"eval_seconds" yaml:"eval_seconds"`

	// ActiveClientPercent is the floor for the share of clients reporting
	// as active.
	ActiveClientPercent float64 `mapstructure:"active_client_percent" yaml:"active_client_percent"`

	// CacheHitPercent is the floor for the cache tier hit rate.
	CacheHitPercent float64 `mapstructure:"cache_hit_percent" yaml:"cache_hit_percent"`

	// BackupAgeHours is the ceiling for the age of the last successful
	// site backup.
	BackupAgeHours float64 `mapstructure:"backup_age_hours" yaml:"backup_age_hours"`

	// BusRTTMillis is the ceiling for the notification bus round trip.
	BusRTTMillis float64 `mapstructure:"bus_rtt_millis" yaml:"bus_rtt_millis"`
}

// DefaultThresholds returns the deployment-overridable defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPUPercent:          80,
		MemoryPercent:       85,
		DiskFreePercent:     10,
		DatabaseFreePercent: 15,
		EvalSeconds:         30,
		ActiveClientPercent: 90,
		CacheHitPercent:     75,
		BackupAgeHours:      26,
		BusRTTMillis:        250,
	}
}

// Validate checks that every threshold is positive and that percentage
// thresholds do not exceed 100.
func (t Thresholds) Validate() error {
	percents := map[string]float64{
		"cpu_percent":           t.CPUPercent,
		"memory_percent":        t.MemoryPercent,
		"disk_free_percent":     t.DiskFreePercent,
		"database_free_percent": t.DatabaseFreePercent,
		"active_client_percent": t.ActiveClientPercent,
		"cache_hit_percent":     t.CacheHitPercent,
	}
	for name, v := range percents {
		if v <= 0 || v > 100 {
			return errors.Wrapf(errors.ErrInvalidConfig, "%s must be in (0, 100], got %g", name, v)
		}
	}

	others := map[string]float64{
		"eval_seconds":     t.EvalSeconds,
		"backup_age_hours": t.BackupAgeHours,
		"bus_rtt_millis":   t.BusRTTMillis,
	}
	for name, v := range others {
		if v <= 0 {
			return errors.Wrapf(errors.ErrInvalidConfig, "%s must be positive, got %g", name, v)
		}
	}

	return nil
}

// Ceiling returns a classifier that reports Warning when the metric value
// is strictly above limit. A value exactly at the limit is Healthy.
func Ceiling(limit float64, label string) Classifier {
	return func(m Metric) (Status, string) {
		note := fmt.Sprintf("%s %s (warn above %s)", label, formatValue(m.Value, m.Unit), formatValue(limit, m.Unit))
		if m.Detail != "" {
			note += ", " + m.Detail
		}
		if m.Value > limit {
			return StatusWarning, note
		}
		return StatusHealthy, note
	}
}

// Floor returns a classifier that reports Warning when the metric value is
// strictly below limit. A value exactly at the limit is Healthy.
func Floor(limit float64, label string) Classifier {
	return func(m Metric) (Status, string) {
		note := fmt.Sprintf("%s %s (warn below %s)", label, formatValue(m.Value, m.Unit), formatValue(limit, m.Unit))
		if m.Detail != "" {
			note += ", " + m.Detail
		}
		if m.Value < limit {
			return StatusWarning, note
		}
		return StatusHealthy, note
	}
}

// formatValue renders a metric value with its unit, trimming the noise on
// whole numbers.
func formatValue(v float64, unit string) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d%s", int64(v), unit)
	}
	return fmt.Sprintf("%.1f%s", v, unit)
}
