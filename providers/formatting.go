package providers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/kykrueger/dbrestrict/restrictions"
)

var plainIdentifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// FormatRestrictions renders the restriction map in the given format
func FormatRestrictions(r *restrictions.Restrictions, format Format) (string, error) {
	switch format {
	case FormatInfo:
		return FormatRestrictionsInfo(r), nil
	case FormatJSON:
		return FormatRestrictionsJSON(r)
	case FormatSQL:
		return FormatRestrictionsSQL(r), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// FormatRestrictionsInfo formats restrictions as human-readable text
func FormatRestrictionsInfo(r *restrictions.Restrictions) string {
	var sb strings.Builder

	for _, table := range DescribeRestrictions(r) {
		sb.WriteString(fmt.Sprintf("Table: %s\n", table.Name))
		sb.WriteString("Columns:\n")

		for _, col := range table.Columns {
			length := "UNLIMITED"
			if col.MaxLength != nil {
				length = fmt.Sprintf("MAX LENGTH %d", *col.MaxLength)
			}

			nullable := "NULL"
			if col.NotNull {
				nullable = "NOT NULL"
			}

			allowed := ""
			if len(col.AllowedValues) > 0 {
				allowed = fmt.Sprintf(" IN (%s)", quoteValues(col.AllowedValues))
			}

			sb.WriteString(fmt.Sprintf("  - %s %s %s%s\n", col.Name, length, nullable, allowed))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatRestrictionsJSON formats restrictions as an indented JSON array
func FormatRestrictionsJSON(r *restrictions.Restrictions) (string, error) {
	data, err := json.MarshalIndent(DescribeRestrictions(r), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal restrictions to JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// FormatRestrictionsSQL formats restrictions as SQL DDL which parses back into
// the same restriction map. Columns without a length are declared as text.
// An allowed value ending in a backslash does not survive the round trip: the
// tokenizer reads the quote after it as escaped and the literal stays open.
func FormatRestrictionsSQL(r *restrictions.Restrictions) string {
	var sb strings.Builder

	for _, table := range DescribeRestrictions(r) {
		sb.WriteString(fmt.Sprintf("create table %s (\n", table.Name))

		var columnDefs []string
		var checks []string

		for _, col := range table.Columns {
			var colDef strings.Builder
			name := quoteIdentifier(col.Name)
			colDef.WriteString("    " + name)

			if col.MaxLength != nil {
				colDef.WriteString(fmt.Sprintf(" varchar(%d)", *col.MaxLength))
			} else {
				colDef.WriteString(" text")
			}

			if col.NotNull {
				colDef.WriteString(" not null")
			}

			columnDefs = append(columnDefs, colDef.String())

			if len(col.AllowedValues) > 0 {
				checks = append(checks, fmt.Sprintf("alter table %s add constraint %s_%s_ck check (%s in (%s));\n",
					table.Name, table.Name, strings.ReplaceAll(col.Name, " ", "_"), name, quoteValues(col.AllowedValues)))
			}
		}

		sb.WriteString(strings.Join(columnDefs, ",\n"))
		sb.WriteString("\n);\n")

		for _, check := range checks {
			sb.WriteString(check)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func quoteValues(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return strings.Join(quoted, ", ")
}

func quoteIdentifier(name string) string {
	if plainIdentifier.MatchString(name) {
		return name
	}
	return `"` + name + `"`
}
