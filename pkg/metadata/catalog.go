package metadata

import (
	"sort"
)

// Catalog indexes extracted tables by the identifier of their struct so
// join columns can be resolved to the table they point at.
type Catalog struct {
	tables map[Ident]*TableDescriptor
}

// NewCatalog builds a catalog from a set of tables. When two tables share a
// struct identifier the later one wins.
func NewCatalog(tables ...*TableDescriptor) *Catalog {
	c := &Catalog{
		tables: make(map[Ident]*TableDescriptor, len(tables)),
	}
	for _, t := range tables {
		if t != nil {
			c.tables[t.StructIdent] = t
		}
	}
	return c
}

// Table returns the table extracted from the struct with the given identifier
func (c *Catalog) Table(ident Ident) (*TableDescriptor, bool) {
	t, ok := c.tables[ident]
	return t, ok
}

// ResolveJoin returns the table a join column refers to
func (c *Catalog) ResolveJoin(col ColumnDescriptor) (*TableDescriptor, bool) {
	ident, ok := col.JoinedStruct()
	if !ok {
		return nil, false
	}
	return c.Table(ident)
}

// Structs returns the struct identifiers in the catalog, sorted
func (c *Catalog) Structs() []Ident {
	idents := make([]Ident, 0, len(c.tables))
	for ident := range c.tables {
		idents = append(idents, ident)
	}
	sort.Slice(idents, func(i, j int) bool { return idents[i] < idents[j] })
	return idents
}

// Len returns the number of tables in the catalog
func (c *Catalog) Len() int {
	return len(c.tables)
}
