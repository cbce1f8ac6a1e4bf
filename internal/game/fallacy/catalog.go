package fallacy

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog is a read-only registry of fallacies keyed by ID. It is never
// mutated after construction and is safe to share across goroutines.
type Catalog struct {
	byID map[string]*Fallacy
	ids  []string // sorted
}

// NewCatalog validates entries and builds a Catalog.
//
// Postcondition: returns an error on the first invalid entry or duplicate ID.
func NewCatalog(entries []Fallacy) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Fallacy, len(entries))}
	for i := range entries {
		f := entries[i]
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[f.ID]; dup {
			return nil, fmt.Errorf("fallacy %q registered twice", f.ID)
		}
		c.byID[f.ID] = f.Clone()
		c.ids = append(c.ids, f.ID)
	}
	slices.Sort(c.ids)
	return c, nil
}

// Parse decodes a YAML sequence of fallacies strictly and builds a Catalog.
func Parse(data []byte) (*Catalog, error) {
	var entries []Fallacy
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("parsing fallacy catalog: %w", err)
	}
	return NewCatalog(entries)
}

// LoadDirectory reads every *.yaml file in dir and builds one Catalog from
// all entries.
//
// Precondition: dir must be a readable directory.
func LoadDirectory(dir string) (*Catalog, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading fallacy dir %q: %w", dir, err)
	}
	var all []Fallacy
	for _, e := range dirEntries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var entries []Fallacy
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		all = append(all, entries...)
	}
	return NewCatalog(all)
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic("fallacy: embedded catalog is invalid: " + err.Error())
	}
	return c
})

// DefaultCatalog returns the built-in catalog, decoded once per process.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}

// Get returns a copy of the entry for id, or (nil, false) if not found.
//
// Postcondition: mutating the result never changes the catalog.
func (c *Catalog) Get(id string) (*Fallacy, bool) {
	f, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return f.Clone(), true
}

// MustGet returns a copy of the entry for id and panics on an unknown id.
func (c *Catalog) MustGet(id string) *Fallacy {
	f, ok := c.Get(id)
	if !ok {
		panic(fmt.Sprintf("fallacy: unknown id %q", id))
	}
	return f
}

// IDs returns every id in sorted order.
func (c *Catalog) IDs() []string {
	return slices.Clone(c.ids)
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.ids) }

// Filter returns copies of the entries matching keep, in id order.
func (c *Catalog) Filter(keep func(*Fallacy) bool) []*Fallacy {
	var out []*Fallacy
	for _, id := range c.ids {
		if f := c.byID[id].Clone(); keep == nil || keep(f) {
			out = append(out, f)
		}
	}
	return out
}
