package check

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mhollis/sitereport/internal/errors"
)

// DefaultProbeTimeout bounds a single probe when the runner is built
// without an explicit timeout.
const DefaultProbeTimeout = 15 * time.Second

// Runner executes a registry of checks sequentially and aggregates their
// results into a report. Checks run at most once per report; the report is
// a point-in-time snapshot, not a monitoring loop, so nothing is retried.
type Runner struct {
	registry *Registry
	target   string
	timeout  time.Duration
	logger   *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithProbeTimeout sets the per-probe deadline.
func WithProbeTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner over the given registry. The target is the
// site identifier stamped into the report header.
func NewRunner(registry *Registry, target string, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: registry,
		target:   target,
		timeout:  DefaultProbeTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every registered definition in registration order and
// returns the report. Every definition produces exactly one result, even
// when its probe fails or panics; a missing row would be indistinguishable
// from "not yet checked".
func (r *Runner) Run(ctx context.Context) *Report {
	report := &Report{
		ID:          uuid.New().String(),
		Target:      r.target,
		GeneratedAt: time.Now().UTC(),
	}

	for _, def := range r.registry.Definitions() {
		result := r.runOne(ctx, def)

		r.logger.Debug("check finished",
			"section", result.Section,
			"check", result.Name,
			"status", result.Status.String(),
		)

		report.append(result)
	}

	return report
}

// runOne executes a single definition under its own deadline and converts
// every failure mode into a result.
func (r *Runner) runOne(ctx context.Context, def Definition) (result Result) {
	result = Result{
		Section: def.Section,
		Name:    def.Name,
	}

	// A panicking probe must still yield a row.
	defer func() {
		if rec := recover(); rec != nil {
			result.Status = StatusCritical
			result.Note = fmt.Sprintf("querying %s/%s did not complete", def.Section, def.Name)
			result.Err = fmt.Sprintf("probe panicked: %v", rec)
		}
	}()

	probeCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	metric, err := def.Probe(probeCtx)
	if err != nil {
		return r.failedResult(def, err)
	}

	result.Status, result.Note = def.Classify(metric)
	return result
}

// failedResult synthesizes the result for a probe failure. An absent
// backend is Unknown; everything else, including a timed-out probe, is
// Critical.
func (r *Runner) failedResult(def Definition, err error) Result {
	status := StatusCritical
	if errors.Is(err, errors.ErrNotConfigured) {
		status = StatusUnknown
	}

	return Result{
		Section: def.Section,
		Name:    def.Name,
		Status:  status,
		Note:    fmt.Sprintf("querying %s/%s failed", def.Section, def.Name),
		Err:     err.Error(),
	}
}

// Report aggregates all check results for one run.
type Report struct {
	// ID uniquely identifies this run.
	ID string `json:"id"`

	// Target identifies the site the checks ran against.
	Target string `json:"target"`

	// GeneratedAt is when the run started, in UTC.
	GeneratedAt time.Time `json:"generated_at"`

	// Sections holds the results grouped by section, in registration order.
	Sections []Section `json:"sections"`

	// Summary contains counts by status.
	Summary Summary `json:"summary"`
}

// Section is a named group of results.
type Section struct {
	// Name is the section heading.
	Name string `json:"name"`

	// Results are the rows in this section, in registration order.
	Results []Result `json:"results"`
}

// Summary aggregates result counts by status.
type Summary struct {
	// Healthy is the count of StatusHealthy rows.
	Healthy int `json:"healthy"`

	// Warning is the count of StatusWarning rows.
	Warning int `json:"warning"`

	// Critical is the count of StatusCritical rows.
	Critical int `json:"critical"`

	// Manual is the count of StatusManual rows.
	Manual int `json:"manual"`

	// Unknown is the count of StatusUnknown rows.
	Unknown int `json:"unknown"`
}

// append adds a result to its section, creating the section when the
// result is the first row for it, and updates the summary counts.
func (r *Report) append(result Result) {
	switch result.Status {
	case StatusHealthy:
		r.Summary.Healthy++
	case StatusWarning:
		r.Summary.Warning++
	case StatusCritical:
		r.Summary.Critical++
	case StatusManual:
		r.Summary.Manual++
	case StatusUnknown:
		r.Summary.Unknown++
	}

	for i := range r.Sections {
		if r.Sections[i].Name == result.Section {
			r.Sections[i].Results = append(r.Sections[i].Results, result)
			return
		}
	}
	r.Sections = append(r.Sections, Section{
		Name:    result.Section,
		Results: []Result{result},
	})
}

// Rows returns the total number of results across all sections.
func (r *Report) Rows() int {
	n := 0
	for _, s := range r.Sections {
		n += len(s.Results)
	}
	return n
}

// HasCritical returns true if any row is StatusCritical.
func (r *Report) HasCritical() bool {
	return r.Summary.Critical > 0
}

// HasWarnings returns true if any row is StatusWarning.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warning > 0
}
