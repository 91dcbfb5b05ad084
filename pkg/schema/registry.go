package schema

import (
	"sort"
	"sync"

	"github.com/specmint/syndata/pkg/synerr"
)

// Registry is the process-wide name->schema mapping (spec.md 4.1). Reads are
// frequent and read-biased; writes (Register) are rare, so a sync.RWMutex is
// sufficient — matching the "lock-free or read-biased" guidance of
// spec.md section 5 closely enough without hand-rolling atomics.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry creates a registry seeded with the built-in entity schemas.
func NewRegistry() *Registry {
	r := &Registry{schemas: make(map[string]*Schema)}
	for _, s := range builtinSchemas() {
		r.schemas[s.Name] = s
	}
	return r
}

// Get looks up a schema by name.
func (r *Registry) Get(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// List returns schemas ordered by name, optionally filtered by domain.
func (r *Registry) List(domain string) []*Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		if domain != "" && s.Domain != domain {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Register validates and inserts a new schema. Duplicate names fail with
// AlreadyExists; structurally invalid schemas fail with InvalidSchema
// (spec.md 4.1).
func (r *Registry) Register(s *Schema) error {
	if err := validateSchemaShape(s); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[s.Name]; exists {
		return synerr.Newf(synerr.AlreadyExists, "schema %q already registered", s.Name)
	}
	r.schemas[s.Name] = s
	return nil
}

// Info returns the flattened registry-facing view of a schema.
func (r *Registry) Info(name string) (*Info, bool) {
	s, ok := r.Get(name)
	if !ok {
		return nil, false
	}
	return s.ToInfo(), true
}

func validateSchemaShape(s *Schema) error {
	if s == nil {
		return synerr.New(synerr.InvalidSchema, "schema is nil")
	}
	if s.Name == "" {
		return synerr.New(synerr.InvalidSchema, "schema name is required")
	}
	if s.Domain == "" {
		return synerr.New(synerr.InvalidSchema, "schema domain is required")
	}
	if s.Description == "" {
		return synerr.New(synerr.InvalidSchema, "schema description is required")
	}
	if s.Fields == nil {
		return synerr.New(synerr.InvalidSchema, "schema fields must be a mapping")
	}
	return nil
}
