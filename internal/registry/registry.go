// Package registry holds the canonical catalog of callable operations.
// Both protocol surfaces (REST and MCP) and the OpenAPI generator operate
// on this one catalog, so a tool registered here is exposed identically
// everywhere.
package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bobmcallan/opsgate/internal/schema"
)

// Handler is the fixed calling convention every tool implements: validated
// parameters plus an execution context in, a result or error out. Failure is
// signalled through the error return, never encoded in a success payload.
type Handler func(ctx context.Context, params map[string]any, rc *RequestContext) (any, error)

// Definition describes one tool. Definitions are immutable once registered.
type Definition struct {
	Name        string
	Description string
	Parameters  schema.Params
	Handler     Handler
	Category    string
	Tags        []string
}

// DuplicateError is returned when a registration reuses an existing name.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// Filter restricts List results. Zero-value fields are ignored; set fields
// compose with AND semantics.
type Filter struct {
	Category string // exact match
	Tag      string // exact tag membership
	Search   string // case-insensitive substring of name or description
}

// entry pairs a definition with its translated schema, computed once at
// registration time.
type entry struct {
	def  *Definition
	wire *schema.JSONSchema
}

// Registry is the in-memory tool catalog. Registration happens during
// startup wiring; afterwards the catalog is effectively read-only, so a
// RWMutex is all the synchronization reads need.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
	}
}

// Register stores a definition and its translated schema. It fails with
// DuplicateError if the name is taken, and with the translator's error if
// the parameter schema contains an unrecognized field kind. Either failure
// leaves the registry unchanged.
func (r *Registry) Register(def *Definition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("tool definition requires a name")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q has no handler", def.Name)
	}

	wire, err := schema.ToWire(def.Parameters)
	if err != nil {
		return fmt.Errorf("tool %q: %w", def.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[def.Name]; exists {
		return &DuplicateError{Name: def.Name}
	}

	r.entries[def.Name] = &entry{def: def, wire: wire}
	r.order = append(r.order, def.Name)
	return nil
}

// Get returns the definition for name, or false if absent.
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.def, true
}

// WireSchema returns the translated JSON schema for name, computed once at
// registration.
func (r *Registry) WireSchema(name string) (*schema.JSONSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.wire, true
}

// List returns definitions matching the filter in registration order.
// A nil filter returns everything.
func (r *Registry) List(filter *Filter) []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Definition, 0, len(r.order))
	for _, name := range r.order {
		def := r.entries[name].def
		if filter != nil && !matches(def, filter) {
			continue
		}
		out = append(out, def)
	}
	return out
}

// matches reports whether def passes every set field of the filter.
func matches(def *Definition, filter *Filter) bool {
	if filter.Category != "" && def.Category != filter.Category {
		return false
	}
	if filter.Tag != "" {
		found := false
		for _, tag := range def.Tags {
			if tag == filter.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(def.Name), needle) &&
			!strings.Contains(strings.ToLower(def.Description), needle) {
			return false
		}
	}
	return true
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Names returns all tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Categories returns the distinct non-empty categories in registration order.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, name := range r.order {
		cat := r.entries[name].def.Category
		if cat == "" || seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out
}

// Clear empties the registry. Test isolation only; correcting a live tool
// requires clearing and re-registering, never update-in-place.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[string]*entry)
	r.order = nil
}
