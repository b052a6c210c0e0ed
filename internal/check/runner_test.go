package check

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mhollis/sitereport/internal/errors"
	"github.com/mhollis/sitereport/internal/logging"
)

func TestRunner_OneResultPerDefinition(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterAll(
		autoDef("Site Server", "cpu-load"),
		autoDef("Site Server", "memory-use"),
		Definition{
			Section: "Site Database",
			Name:    "connectivity",
			Kind:    KindAuto,
			Probe: func(context.Context) (Metric, error) {
				return Metric{}, errors.New("connection refused")
			},
			Classify: Ceiling(1, "v"),
		},
		ManualDefinition("Log Review", "smsexec-log", "inspect the component log"),
	); err != nil {
		t.Fatal(err)
	}

	report := NewRunner(r, "PS1", WithLogger(logging.ForTest(t))).Run(context.Background())

	if report.Rows() != r.Len() {
		t.Errorf("Rows() = %d, want %d (exactly one result per definition)", report.Rows(), r.Len())
	}
	if report.ID == "" {
		t.Error("report ID should be set")
	}
	if report.Target != "PS1" {
		t.Errorf("Target = %q, want %q", report.Target, "PS1")
	}
	if report.GeneratedAt.IsZero() {
		t.Error("GeneratedAt should be set")
	}
}

func TestRunner_SectionOrderPreserved(t *testing.T) {
	r := NewRegistry()
	sections := []string{"Site Server", "Site Database", "Cache Tier"}
	for _, s := range sections {
		if err := r.Register(autoDef(s, "probe")); err != nil {
			t.Fatal(err)
		}
	}

	report := NewRunner(r, "PS1").Run(context.Background())

	if len(report.Sections) != len(sections) {
		t.Fatalf("got %d sections, want %d", len(report.Sections), len(sections))
	}
	for i, want := range sections {
		if report.Sections[i].Name != want {
			t.Errorf("Sections[%d].Name = %q, want %q", i, report.Sections[i].Name, want)
		}
	}
}

func TestRunner_ProbeFailure(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{
		Section: "Site Database",
		Name:    "connectivity",
		Kind:    KindAuto,
		Probe: func(context.Context) (Metric, error) {
			return Metric{}, errors.New("dial tcp: connection refused")
		},
		Classify: Ceiling(1, "v"),
	}); err != nil {
		t.Fatal(err)
	}

	report := NewRunner(r, "PS1").Run(context.Background())

	result := report.Sections[0].Results[0]
	if result.Status != StatusCritical {
		t.Errorf("Status = %v, want StatusCritical", result.Status)
	}
	if result.Err == "" {
		t.Error("Err must be populated on probe failure")
	}
	if !strings.Contains(result.Note, "Site Database/connectivity") {
		t.Errorf("Note should name the failed call, got %q", result.Note)
	}
	if !report.HasCritical() {
		t.Error("HasCritical() should be true")
	}
}

func TestRunner_UnconfiguredBackend(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{
		Section: "Cache Tier",
		Name:    "latency",
		Kind:    KindAuto,
		Probe: func(context.Context) (Metric, error) {
			return Metric{}, errors.Wrap(errors.ErrNotConfigured, "cache tier")
		},
		Classify: Ceiling(1, "v"),
	}); err != nil {
		t.Fatal(err)
	}

	report := NewRunner(r, "PS1").Run(context.Background())

	result := report.Sections[0].Results[0]
	if result.Status != StatusUnknown {
		t.Errorf("Status = %v, want StatusUnknown for an unconfigured backend", result.Status)
	}
	if result.Err == "" {
		t.Error("Err must still be populated")
	}
}

func TestRunner_ProbePanic(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterAll(
		Definition{
			Section: "Component Services",
			Name:    "smsexec",
			Kind:    KindAuto,
			Probe: func(context.Context) (Metric, error) {
				panic("unexpected shape")
			},
			Classify: Ceiling(1, "v"),
		},
		autoDef("Component Services", "sitecomp"),
	); err != nil {
		t.Fatal(err)
	}

	report := NewRunner(r, "PS1").Run(context.Background())

	if report.Rows() != 2 {
		t.Fatalf("a panicking probe must not drop rows: got %d rows", report.Rows())
	}
	result := report.Sections[0].Results[0]
	if result.Status != StatusCritical {
		t.Errorf("Status = %v, want StatusCritical", result.Status)
	}
	if !strings.Contains(result.Err, "unexpected shape") {
		t.Errorf("Err should carry the panic value, got %q", result.Err)
	}
}

func TestRunner_ProbeTimeout(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{
		Section: "Distribution Points",
		Name:    "dp01",
		Kind:    KindAuto,
		Probe: func(ctx context.Context) (Metric, error) {
			select {
			case <-ctx.Done():
				return Metric{}, ctx.Err()
			case <-time.After(5 * time.Second):
				return Metric{Value: 1}, nil
			}
		},
		Classify: Ceiling(1, "v"),
	}); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(r, "PS1", WithProbeTimeout(10*time.Millisecond))
	report := runner.Run(context.Background())

	result := report.Sections[0].Results[0]
	if result.Status != StatusCritical {
		t.Errorf("Status = %v, want StatusCritical on timeout", result.Status)
	}
	if result.Err == "" {
		t.Error("Err must describe the timeout")
	}
}

func TestRunner_SuccessHasNoError(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterAll(
		autoDef("Site Server", "cpu-load"),
		ManualDefinition("Log Review", "smsexec-log", "inspect the component log"),
	); err != nil {
		t.Fatal(err)
	}

	report := NewRunner(r, "PS1").Run(context.Background())

	for _, section := range report.Sections {
		for _, result := range section.Results {
			switch result.Status {
			case StatusHealthy, StatusWarning, StatusManual:
				if result.Err != "" {
					t.Errorf("%s/%s: successful probe must have empty Err, got %q",
						result.Section, result.Name, result.Err)
				}
			default:
				t.Errorf("%s/%s: unexpected status %v", result.Section, result.Name, result.Status)
			}
		}
	}
}

func TestReport_Summary(t *testing.T) {
	report := &Report{}
	report.append(Result{Section: "a", Name: "1", Status: StatusHealthy})
	report.append(Result{Section: "a", Name: "2", Status: StatusHealthy})
	report.append(Result{Section: "b", Name: "3", Status: StatusWarning})
	report.append(Result{Section: "b", Name: "4", Status: StatusCritical})
	report.append(Result{Section: "c", Name: "5", Status: StatusManual})
	report.append(Result{Section: "c", Name: "6", Status: StatusUnknown})

	want := Summary{Healthy: 2, Warning: 1, Critical: 1, Manual: 1, Unknown: 1}
	if report.Summary != want {
		t.Errorf("Summary = %+v, want %+v", report.Summary, want)
	}
	if !report.HasCritical() || !report.HasWarnings() {
		t.Error("HasCritical/HasWarnings should both be true")
	}
	if report.Rows() != 6 {
		t.Errorf("Rows() = %d, want 6", report.Rows())
	}
}
