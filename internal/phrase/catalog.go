package phrase

import (
	"sort"
	"sync"
)

// Catalog holds the current phrase table for each report type. Tables are
// replaced whole; callers that need a stable view keep the *Table they got.
type Catalog struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]*Table)}
}

func (c *Catalog) Set(name string, t *Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[name] = t
}

func (c *Catalog) Table(name string) (*Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	return t, ok
}

// Resolver returns a resolver pinned to the current table for name.
func (c *Catalog) Resolver(name string) (*Resolver, bool) {
	t, ok := c.Table(name)
	if !ok {
		return nil, false
	}
	return NewResolver(t), true
}

// Names returns the loaded table names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFiles reads each path into the catalog under its mapped name.
func (c *Catalog) LoadFiles(files map[string]string) error {
	for path, name := range files {
		t, err := LoadFile(path)
		if err != nil {
			return err
		}
		c.Set(name, t)
	}
	return nil
}
