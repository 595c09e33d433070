// Package netstate keeps the in-memory view of every managed switch.
package netstate

import (
	"slices"
	"sync"

	"tsn-cnc/internal/models"
)

// Registry stores switches by identifier in insertion order. Switch values
// are immutable, so the copies it hands out never alias its own state.
type Registry struct {
	mu       sync.Mutex
	order    []string
	switches map[string]models.Switch
}

func NewRegistry() *Registry {
	return &Registry{switches: make(map[string]models.Switch)}
}

func (r *Registry) All() []models.Switch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(models.Switch) bool { return true })
}

func (r *Registry) Get(id string) (models.Switch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.switches[id]
	return s, ok
}

func (r *Registry) Identifiers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

func (r *Registry) Reachable() []models.Switch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(models.Switch.Reachable)
}

func (r *Registry) Unreachable() []models.Switch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(s models.Switch) bool { return !s.Reachable() })
}

func (r *Registry) filter(keep func(models.Switch) bool) []models.Switch {
	out := make([]models.Switch, 0, len(r.order))
	for _, id := range r.order {
		if s := r.switches[id]; keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// Add stores s. It reports false and changes nothing if the identifier is taken.
func (r *Registry) Add(s models.Switch) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.switches[s.ID()]; ok {
		return false
	}
	r.order = append(r.order, s.ID())
	r.switches[s.ID()] = s
	return true
}

func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.switches[id]; !ok {
		return false
	}
	delete(r.switches, id)
	r.order = slices.DeleteFunc(r.order, func(o string) bool { return o == id })
	return true
}

// Replace swaps in s for the entry with the same identifier, keeping its
// position. It never inserts.
func (r *Registry) Replace(s models.Switch) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.switches[s.ID()]; !ok {
		return false
	}
	r.switches[s.ID()] = s
	return true
}

// ReplaceAll swaps the whole content for list. If list repeats an identifier
// the registry is left untouched and false is returned.
func (r *Registry) ReplaceAll(list []models.Switch) bool {
	order := make([]string, 0, len(list))
	switches := make(map[string]models.Switch, len(list))
	for _, s := range list {
		if _, dup := switches[s.ID()]; dup {
			return false
		}
		order = append(order, s.ID())
		switches[s.ID()] = s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = order
	r.switches = switches
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}
