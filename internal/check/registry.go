package check

import (
	"github.com/mhollis/sitereport/internal/errors"
)

// Registry holds an ordered collection of check definitions. Registration
// order is the report order; it is meaningful to the reader and never
// resorted.
type Registry struct {
	defs []Definition
	seen map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		seen: make(map[string]struct{}),
	}
}

// Register appends a definition. It rejects definitions with an empty
// section or name, a nil probe or classifier, or a section/name pair that
// is already registered.
func (r *Registry) Register(def Definition) error {
	if def.Section == "" || def.Name == "" {
		return errors.Newf("definition needs section and name, got %q/%q", def.Section, def.Name)
	}
	if def.Probe == nil {
		return errors.Newf("check %s/%s has no probe", def.Section, def.Name)
	}
	if def.Classify == nil {
		return errors.Newf("check %s/%s has no classifier", def.Section, def.Name)
	}

	key := def.Section + "/" + def.Name
	if _, dup := r.seen[key]; dup {
		return errors.Wrapf(errors.ErrDuplicateCheck, "%s", key)
	}

	r.seen[key] = struct{}{}
	r.defs = append(r.defs, def)
	return nil
}

// RegisterAll registers definitions in order, stopping at the first error.
func (r *Registry) RegisterAll(defs ...Definition) error {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Definitions returns the registered definitions in registration order.
// The returned slice is a copy; the registry itself stays immutable.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Sections returns the distinct section names in first-registration order.
func (r *Registry) Sections() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, def := range r.defs {
		if _, ok := seen[def.Section]; ok {
			continue
		}
		seen[def.Section] = struct{}{}
		out = append(out, def.Section)
	}
	return out
}

// Filter returns a new registry containing only definitions whose section
// is in keep, preserving order. An empty keep list returns the registry
// unchanged.
func (r *Registry) Filter(keep []string) *Registry {
	if len(keep) == 0 {
		return r
	}

	want := make(map[string]struct{}, len(keep))
	for _, s := range keep {
		want[s] = struct{}{}
	}

	filtered := NewRegistry()
	for _, def := range r.defs {
		if _, ok := want[def.Section]; ok {
			// Definitions were already validated on first registration.
			_ = filtered.Register(def)
		}
	}
	return filtered
}
