// Package query provides a small SQL builder for paged, filtered reads
// against PostgreSQL. Queries are composed from a ProjectionMap that binds
// view field names to qualified table columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view field names onto the columns of a single aliased table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns []string
	fields  map[string]string
}

// NewProjectionMap creates a projection over schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		fields: make(map[string]string),
	}
}

// Project adds column to the select list, addressable by viewName.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.alias, column)
	p.columns = append(p.columns, qualified)
	p.fields[viewName] = qualified
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the FROM target including the alias.
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column resolves a view name to its qualified column.
// Unknown names are returned unchanged.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.fields[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns the comma-separated select list in projection order.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columns, ", ")
}

// ColumnList returns a copy of the qualified columns in projection order.
func (p *ProjectionMap) ColumnList() []string {
	out := make([]string, len(p.columns))
	copy(out, p.columns)
	return out
}

// resolveSort maps a client supplied field onto a projected column, accepting
// either the view name or the bare column name. The second return is false
// when the field is not part of the projection.
func (p *ProjectionMap) resolveSort(field string) (string, bool) {
	if col, ok := p.fields[field]; ok {
		return col, true
	}
	qualified := fmt.Sprintf("%s.%s", p.alias, field)
	for _, col := range p.columns {
		if col == qualified {
			return col, true
		}
	}
	for name, col := range p.fields {
		if strings.EqualFold(name, field) {
			return col, true
		}
	}
	return "", false
}
