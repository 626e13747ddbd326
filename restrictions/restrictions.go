// Package restrictions extracts column restrictions (maximal lengths, not null
// constraints and check constraint value sets) from SQL DDL scripts and
// validates column values against them.
package restrictions

import (
	"fmt"
	"log/slog"
	"sort"
)

// Restrictions maps table names to their column restrictions. It is built
// once and safe for concurrent reads.
type Restrictions struct {
	tables map[string]*TableRestrictions
	logger *slog.Logger
}

// Option configures a restriction map.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for parse warnings and violations.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Table returns the restrictions of the named table.
func (r *Restrictions) Table(name string) (*TableRestrictions, bool) {
	t, exists := r.tables[name]
	return t, exists
}

// MustTable is like Table but panics if the table is unknown.
func (r *Restrictions) MustTable(name string) *TableRestrictions {
	t, exists := r.tables[name]
	if !exists {
		panic(fmt.Sprintf("restrictions: unknown table %s", name))
	}
	return t
}

// Tables returns the sorted table names.
func (r *Restrictions) Tables() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check validates value for table.column. A nil value stands for SQL NULL.
// The returned error is a *ViolationError. Check panics if the table is
// unknown.
func (r *Restrictions) Check(table, column string, value *string) error {
	t := r.MustTable(table)
	if err := t.check(column, value); err != nil {
		r.logger.Warn("restriction violated", "table", table, "column", column, "error", err)
		return err
	}
	return nil
}

// CheckString validates a non-null value for table.column.
func (r *Restrictions) CheckString(table, column, value string) error {
	return r.Check(table, column, &value)
}

// Builder assembles a Restrictions value. It is not safe for concurrent use.
type Builder struct {
	tables map[string]*TableRestrictions
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{tables: make(map[string]*TableRestrictions)}
}

// AddTable registers a table without columns.
func (b *Builder) AddTable(table string) *Builder {
	b.table(table)
	return b
}

// AddColumn registers column of table without restrictions.
func (b *Builder) AddColumn(table, column string) *Builder {
	b.column(table, column)
	return b
}

// SetLength sets the maximal length of table.column.
func (b *Builder) SetLength(table, column string, length int) *Builder {
	b.column(table, column).lengths[column] = length
	return b
}

// SetNotNull marks table.column as not null.
func (b *Builder) SetNotNull(table, column string) *Builder {
	b.column(table, column).notNull[column] = struct{}{}
	return b
}

// SetAllowedValues replaces the check constraint value set of table.column.
func (b *Builder) SetAllowedValues(table, column string, values []string) *Builder {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	b.column(table, column).allowed[column] = set
	return b
}

// Build returns the restriction map. The builder may keep being used
// afterwards without affecting the result.
func (b *Builder) Build(opts ...Option) *Restrictions {
	o := newOptions(opts)
	tables := make(map[string]*TableRestrictions, len(b.tables))
	for name, t := range b.tables {
		tables[name] = t.clone()
	}
	return &Restrictions{tables: tables, logger: o.logger}
}

func (b *Builder) table(name string) *TableRestrictions {
	t, exists := b.tables[name]
	if !exists {
		t = newTableRestrictions(name)
		b.tables[name] = t
	}
	return t
}

func (b *Builder) column(table, column string) *TableRestrictions {
	t := b.table(table)
	t.columns[column] = struct{}{}
	return t
}
