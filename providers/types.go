package providers

import (
	"github.com/kykrueger/dbrestrict/restrictions"
)

// Table represents the restrictions of a database table
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Column represents the restrictions of a database column
type Column struct {
	Name          string   `json:"name"`
	MaxLength     *int     `json:"max_length,omitempty"`
	NotNull       bool     `json:"not_null"`
	AllowedValues []string `json:"allowed_values,omitempty"`
}

// DescribeRestrictions flattens a restriction map into sorted tables
func DescribeRestrictions(r *restrictions.Restrictions) []Table {
	tables := make([]Table, 0, len(r.Tables()))
	for _, name := range r.Tables() {
		t := r.MustTable(name)
		table := Table{Name: name, Columns: []Column{}}
		for _, name := range t.Columns() {
			col := Column{Name: name, NotNull: t.HasNotNullConstraint(name)}
			if length, ok := t.Length(name); ok {
				col.MaxLength = &length
			}
			if values, ok := t.CheckedConstraint(name); ok {
				col.AllowedValues = values
			}
			table.Columns = append(table.Columns, col)
		}
		tables = append(tables, table)
	}
	return tables
}

// BuildRestrictions is the inverse of DescribeRestrictions
func BuildRestrictions(tables []Table, opts ...restrictions.Option) *restrictions.Restrictions {
	b := restrictions.NewBuilder()
	for _, table := range tables {
		b.AddTable(table.Name)
		for _, col := range table.Columns {
			b.AddColumn(table.Name, col.Name)
			if col.MaxLength != nil {
				b.SetLength(table.Name, col.Name, *col.MaxLength)
			}
			if col.NotNull {
				b.SetNotNull(table.Name, col.Name)
			}
			if len(col.AllowedValues) > 0 {
				b.SetAllowedValues(table.Name, col.Name, col.AllowedValues)
			}
		}
	}
	return b.Build(opts...)
}
