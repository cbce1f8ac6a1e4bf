package inventory

import (
	"fmt"
	"sort"
)

// Registry holds loaded item definitions indexed by ID.
type Registry struct {
	items map[string]*Item
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*Item)}
}

// NewRegistryFrom registers every item in items.
//
// Postcondition: returns an error on the first duplicate ID.
func NewRegistryFrom(items []*Item) (*Registry, error) {
	r := NewRegistry()
	for _, it := range items {
		if err := r.Register(it); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds it to the registry.
//
// Precondition: it must not be nil.
// Postcondition: Item(it.ID) returns (it, true); returns error if it.ID already registered.
func (r *Registry) Register(it *Item) error {
	if _, exists := r.items[it.ID]; exists {
		return fmt.Errorf("inventory: Registry.Register: item ID %q already registered", it.ID)
	}
	r.items[it.ID] = it
	return nil
}

// Item returns the Item for the given id and whether it was found.
func (r *Registry) Item(id string) (*Item, bool) {
	it, ok := r.items[id]
	return it, ok
}

// All returns all registered items sorted by ID.
func (r *Registry) All() []*Item {
	out := make([]*Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
