package schema

import (
	"fmt"
	"sync"
)

// UnknownSectionError is returned for a section id that was never registered.
type UnknownSectionError struct {
	ID string
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("unknown section %q", e.ID)
}

// Registry maps section ids to descriptors. Descriptors are copied in and out, so
// callers can never mutate a registered section.
type Registry struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: map[string]Descriptor{}}
}

// Register adds a section.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byID[d.ID]; dup {
		return fmt.Errorf("schema: section %q already registered", d.ID)
	}
	r.byID[d.ID] = clone(d)
	r.order = append(r.order, d.ID)
	return nil
}

// MustRegister is Register for static tables.
func (r *Registry) MustRegister(ds ...Descriptor) *Registry {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

// Describe returns the descriptor of a section.
func (r *Registry) Describe(id string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	if !ok {
		return Descriptor{}, &UnknownSectionError{ID: id}
	}
	return clone(d), nil
}

// IDs returns section ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func clone(d Descriptor) Descriptor {
	d.Fields = append([]Field(nil), d.Fields...)
	d.RequiredFields = append([]string(nil), d.RequiredFields...)
	d.DisplayColumns = append([]string(nil), d.DisplayColumns...)
	d.SearchableFields = append([]string(nil), d.SearchableFields...)
	d.Grammar.Fields = append([]string(nil), d.Grammar.Fields...)
	return d
}
