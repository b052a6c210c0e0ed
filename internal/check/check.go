// Package check defines the health-check model for sitereport: check
// definitions, their classified results, and the runner that executes a
// registry of checks against a management connection.
package check

import (
	"context"

	"github.com/mhollis/sitereport/internal/errors"
)

// Status is the classified outcome of a single check.
type Status int

const (
	// StatusHealthy indicates the measured value is within its threshold.
	StatusHealthy Status = iota

	// StatusWarning indicates the measured value breached its threshold.
	StatusWarning

	// StatusCritical indicates the subsystem is unreachable or the query
	// itself failed.
	StatusCritical

	// StatusManual indicates automation cannot assert this; a human must
	// verify. It is not a failure state.
	StatusManual

	// StatusUnknown indicates the check could not be evaluated, typically
	// because the backend it needs is absent from the site inventory.
	StatusUnknown
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusWarning:
		return "warning"
	case StatusCritical:
		return "critical"
	case StatusManual:
		return "manual"
	case StatusUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// MarshalText implements encoding.TextMarshaler so statuses serialize as
// their names rather than bare integers.
func (s Status) MarshalText() ([]byte, error) {
	if s < StatusHealthy || s > StatusUnknown {
		return nil, errors.Newf("invalid status value %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "healthy":
		*s = StatusHealthy
	case "warning":
		*s = StatusWarning
	case "critical":
		*s = StatusCritical
	case "manual":
		*s = StatusManual
	case "unknown":
		*s = StatusUnknown
	default:
		return errors.Newf("unknown status %q", string(text))
	}
	return nil
}

// Kind distinguishes automated checks from manual placeholders.
type Kind string

const (
	// KindAuto marks a check whose probe queries the site.
	KindAuto Kind = "auto"

	// KindManual marks a check that always classifies as StatusManual.
	KindManual Kind = "manual"
)

// Metric is the raw value a probe fetched from the site, before
// classification.
type Metric struct {
	// Value is the measured quantity.
	Value float64

	// Unit is the display unit ("%", "s", "ms", "h").
	Unit string

	// Detail is optional free-form context appended to the note
	// (mount point, database name, endpoint).
	Detail string
}

// Probe fetches one raw metric. The management connection is bound when
// the definition is built; the runner only supplies the context, which
// carries the per-check deadline.
type Probe func(ctx context.Context) (Metric, error)

// Classifier turns a fetched metric into a status and a human-readable note.
// Classifiers must be pure: same metric in, same status out.
type Classifier func(Metric) (Status, string)

// Definition describes one registered check. Immutable once registered.
type Definition struct {
	// Section is the report grouping this check belongs to.
	Section string

	// Name identifies the check within its section.
	Name string

	// Kind is KindAuto or KindManual.
	Kind Kind

	// Probe fetches the raw metric. Never nil for registered definitions.
	Probe Probe

	// Classify maps the fetched metric to a status. Never nil for
	// registered definitions.
	Classify Classifier
}

// Result is the outcome of running one definition. Created exactly once
// per run, never mutated afterwards.
type Result struct {
	// Section is the report grouping, copied from the definition.
	Section string `json:"section"`

	// Name identifies the check, copied from the definition.
	Name string `json:"name"`

	// Status is the classified outcome.
	Status Status `json:"status"`

	// Note describes the outcome for the reader.
	Note string `json:"note"`

	// Err carries the human-readable cause when the probe itself failed.
	// Empty for checks whose probe succeeded.
	Err string `json:"error,omitempty"`
}

// Manual returns a classifier that ignores its input and always reports
// StatusManual with the given note. Manual checks exist to make the
// report's section coverage complete, not to assert a verified state.
func Manual(note string) Classifier {
	return func(Metric) (Status, string) {
		return StatusManual, note
	}
}

// ManualDefinition builds a definition whose probe is a no-op and whose
// classifier always reports StatusManual.
func ManualDefinition(section, name, note string) Definition {
	return Definition{
		Section: section,
		Name:    name,
		Kind:    KindManual,
		Probe: func(context.Context) (Metric, error) {
			return Metric{}, nil
		},
		Classify: Manual(note),
	}
}
