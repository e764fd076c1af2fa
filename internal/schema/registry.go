package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Registry holds the table schemas loaded for one validation run, keyed by
// table name (case-insensitive). A Registry is built once at startup and
// passed explicitly to whatever needs it; there is no package-level
// registry. After loading it is read-only and safe to share across the
// workers of a batch.
type Registry struct {
	tables map[string]*TableSchema // lowercase name -> schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*TableSchema)}
}

// Register adds a schema to the registry.
// Registering a second schema under the same table name is an error.
func (r *Registry) Register(s *TableSchema) error {
	key := strings.ToLower(s.TableName)
	if _, exists := r.tables[key]; exists {
		return fmt.Errorf("table already registered: %s", s.TableName)
	}
	r.tables[key] = s
	return nil
}

// Get returns the schema for a table name (case-insensitive).
func (r *Registry) Get(name string) (*TableSchema, bool) {
	s, ok := r.tables[strings.ToLower(name)]
	return s, ok
}

// Names returns all registered table names, sorted for stable output.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tables))
	for _, s := range r.tables {
		names = append(names, s.TableName)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tables.
func (r *Registry) Count() int {
	return len(r.tables)
}
