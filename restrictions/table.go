package restrictions

import (
	"fmt"
	"sort"
)

// TableRestrictions holds the column restrictions of a single table.
// It is read-only once built.
type TableRestrictions struct {
	name    string
	columns map[string]struct{}
	lengths map[string]int
	notNull map[string]struct{}
	allowed map[string]map[string]struct{}
}

func newTableRestrictions(name string) *TableRestrictions {
	return &TableRestrictions{
		name:    name,
		columns: make(map[string]struct{}),
		lengths: make(map[string]int),
		notNull: make(map[string]struct{}),
		allowed: make(map[string]map[string]struct{}),
	}
}

// Name returns the table name.
func (t *TableRestrictions) Name() string {
	return t.name
}

// Columns returns the sorted names of all columns known to the table.
func (t *TableRestrictions) Columns() []string {
	columns := make([]string, 0, len(t.columns))
	for column := range t.columns {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

// HasColumn reports whether the table declares column.
func (t *TableRestrictions) HasColumn(column string) bool {
	_, exists := t.columns[column]
	return exists
}

// Length returns the maximal length of column. ok is false if the column has
// no length restriction. Length panics if the column is unknown.
func (t *TableRestrictions) Length(column string) (length int, ok bool) {
	if !t.HasColumn(column) {
		panic(fmt.Sprintf("restrictions: unknown column %s.%s", t.name, column))
	}
	length, ok = t.lengths[column]
	return length, ok
}

// CheckedConstraint returns the sorted values allowed for column by a check
// constraint, if there is one.
func (t *TableRestrictions) CheckedConstraint(column string) ([]string, bool) {
	values, exists := t.allowed[column]
	if !exists {
		return nil, false
	}
	return sortedValues(values), true
}

// HasNotNullConstraint reports whether column is declared not null.
func (t *TableRestrictions) HasNotNullConstraint(column string) bool {
	_, exists := t.notNull[column]
	return exists
}

func (t *TableRestrictions) check(column string, value *string) error {
	if value == nil {
		if t.HasNotNullConstraint(column) {
			return &ViolationError{Kind: NotNull, Table: t.name, Column: column}
		}
		return nil
	}

	if values, exists := t.allowed[column]; exists {
		if _, ok := values[*value]; !ok {
			return &ViolationError{
				Kind:    NotAllowed,
				Table:   t.name,
				Column:  column,
				Value:   *value,
				Allowed: sortedValues(values),
			}
		}
	}

	if maxLength, exists := t.lengths[column]; exists && valueLength(*value) > maxLength {
		return &ViolationError{
			Kind:      TooLong,
			Table:     t.name,
			Column:    column,
			Value:     *value,
			MaxLength: maxLength,
		}
	}
	return nil
}

func (t *TableRestrictions) clone() *TableRestrictions {
	c := newTableRestrictions(t.name)
	for column := range t.columns {
		c.columns[column] = struct{}{}
	}
	for column, length := range t.lengths {
		c.lengths[column] = length
	}
	for column := range t.notNull {
		c.notNull[column] = struct{}{}
	}
	for column, values := range t.allowed {
		set := make(map[string]struct{}, len(values))
		for v := range values {
			set[v] = struct{}{}
		}
		c.allowed[column] = set
	}
	return c
}

func sortedValues(values map[string]struct{}) []string {
	sorted := make([]string, 0, len(values))
	for v := range values {
		sorted = append(sorted, v)
	}
	sort.Strings(sorted)
	return sorted
}
