package restrictions

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Action represents the type of change between two restriction maps.
type Action string

const (
	ActionAdd    Action = "ADD"
	ActionDrop   Action = "DROP"
	ActionModify Action = "MODIFY"
)

// Compared fields of a column.
const (
	FieldLength  = "length"
	FieldNotNull = "not_null"
	FieldAllowed = "allowed"
)

// Difference is a single deviation of actual from expected. Column is empty
// for table level differences and Field is empty unless Action is
// ActionModify.
type Difference struct {
	Table    string
	Column   string
	Action   Action
	Field    string
	Expected string
	Actual   string
}

func (d Difference) String() string {
	switch {
	case d.Column == "":
		return fmt.Sprintf("%s table %s", d.Action, d.Table)
	case d.Field == "":
		return fmt.Sprintf("%s column %s.%s", d.Action, d.Table, d.Column)
	default:
		return fmt.Sprintf("%s %s.%s %s: expected %s, actual %s",
			d.Action, d.Table, d.Column, d.Field, d.Expected, d.Actual)
	}
}

// Diff compares two restriction maps. Tables and columns only present in
// actual are reported as ActionAdd, those only present in expected as
// ActionDrop.
func Diff(expected, actual *Restrictions) []Difference {
	var diffs []Difference

	for _, name := range expected.Tables() {
		expectedTable := expected.tables[name]
		actualTable, exists := actual.tables[name]
		if !exists {
			diffs = append(diffs, Difference{Table: name, Action: ActionDrop})
			continue
		}
		diffs = append(diffs, compareTables(expectedTable, actualTable)...)
	}
	for _, name := range actual.Tables() {
		if _, exists := expected.tables[name]; !exists {
			diffs = append(diffs, Difference{Table: name, Action: ActionAdd})
		}
	}

	sort.SliceStable(diffs, func(i, j int) bool {
		if diffs[i].Table != diffs[j].Table {
			return diffs[i].Table < diffs[j].Table
		}
		return diffs[i].Column < diffs[j].Column
	})
	return diffs
}

func compareTables(expected, actual *TableRestrictions) []Difference {
	var diffs []Difference

	for _, column := range expected.Columns() {
		if !actual.HasColumn(column) {
			diffs = append(diffs, Difference{Table: expected.name, Column: column, Action: ActionDrop})
			continue
		}
		modify := func(field, expectedValue, actualValue string) {
			if expectedValue != actualValue {
				diffs = append(diffs, Difference{
					Table:    expected.name,
					Column:   column,
					Action:   ActionModify,
					Field:    field,
					Expected: expectedValue,
					Actual:   actualValue,
				})
			}
		}
		modify(FieldLength, lengthString(expected, column), lengthString(actual, column))
		modify(FieldNotNull, strconv.FormatBool(expected.HasNotNullConstraint(column)),
			strconv.FormatBool(actual.HasNotNullConstraint(column)))
		modify(FieldAllowed, allowedString(expected, column), allowedString(actual, column))
	}
	for _, column := range actual.Columns() {
		if !expected.HasColumn(column) {
			diffs = append(diffs, Difference{Table: expected.name, Column: column, Action: ActionAdd})
		}
	}
	return diffs
}

func lengthString(t *TableRestrictions, column string) string {
	if length, ok := t.lengths[column]; ok {
		return strconv.Itoa(length)
	}
	return "none"
}

func allowedString(t *TableRestrictions, column string) string {
	values, ok := t.CheckedConstraint(column)
	if !ok {
		return "none"
	}
	return "[" + strings.Join(values, ", ") + "]"
}
