package check

import (
	"context"
	"testing"

	"github.com/mhollis/sitereport/internal/errors"
)

func autoDef(section, name string) Definition {
	return Definition{
		Section: section,
		Name:    name,
		Kind:    KindAuto,
		Probe: func(context.Context) (Metric, error) {
			return Metric{Value: 1}, nil
		},
		Classify: Ceiling(10, "value"),
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(autoDef("Site Server", "cpu-load")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
	}{
		{"empty section", autoDef("", "cpu-load")},
		{"empty name", autoDef("Site Server", "")},
		{
			"nil probe",
			Definition{Section: "a", Name: "b", Classify: Ceiling(1, "v")},
		},
		{
			"nil classifier",
			Definition{Section: "a", Name: "b", Probe: func(context.Context) (Metric, error) { return Metric{}, nil }},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if err := r.Register(tt.def); err == nil {
				t.Error("Register() should reject the definition")
			}
		})
	}
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(autoDef("Site Server", "cpu-load")); err != nil {
		t.Fatal(err)
	}

	err := r.Register(autoDef("Site Server", "cpu-load"))
	if !errors.Is(err, errors.ErrDuplicateCheck) {
		t.Errorf("duplicate registration error = %v, want ErrDuplicateCheck", err)
	}

	// Same name in a different section is fine
	if err := r.Register(autoDef("Site Database", "cpu-load")); err != nil {
		t.Errorf("same name in another section should register: %v", err)
	}
}

func TestRegistry_OrderPreserved(t *testing.T) {
	r := NewRegistry()
	names := []string{"third", "first", "second"}
	for _, n := range names {
		if err := r.Register(autoDef("s", n)); err != nil {
			t.Fatal(err)
		}
	}

	defs := r.Definitions()
	for i, want := range names {
		if defs[i].Name != want {
			t.Errorf("Definitions()[%d].Name = %q, want %q", i, defs[i].Name, want)
		}
	}
}

func TestRegistry_Sections(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterAll(
		autoDef("Site Server", "cpu-load"),
		autoDef("Site Server", "memory-use"),
		autoDef("Site Database", "connectivity"),
		autoDef("Site Server", "disk-free"),
	); err != nil {
		t.Fatal(err)
	}

	got := r.Sections()
	want := []string{"Site Server", "Site Database"}
	if len(got) != len(want) {
		t.Fatalf("Sections() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sections()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_Filter(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterAll(
		autoDef("Site Server", "cpu-load"),
		autoDef("Site Database", "connectivity"),
		autoDef("Cache Tier", "latency"),
	); err != nil {
		t.Fatal(err)
	}

	filtered := r.Filter([]string{"Cache Tier"})
	if filtered.Len() != 1 {
		t.Fatalf("filtered Len() = %d, want 1", filtered.Len())
	}
	if filtered.Definitions()[0].Section != "Cache Tier" {
		t.Error("filter kept the wrong section")
	}

	// Empty filter keeps everything
	if r.Filter(nil).Len() != 3 {
		t.Error("empty filter should keep all definitions")
	}
}
