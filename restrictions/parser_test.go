package restrictions

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchema = `
-- domains
CREATE DOMAIN CODE AS VARCHAR(60);
CREATE DOMAIN DESCRIPTION_2000 AS CHARACTER VARYING(2000);
CREATE DOMAIN TECH_ID AS BIGINT;
CREATE DOMAIN ARCHIVING_STATUS AS VARCHAR(100) CHECK (VALUE IN ('LOCKED', 'AVAILABLE', 'ARCHIVED'));

CREATE TABLE PERSONS (
    ID TECH_ID NOT NULL,
    USER_ID CODE NOT NULL,
    FIRST_NAME VARCHAR(30),
    EMAIL VARCHAR(50) DEFAULT 'nobody@localhost' NOT NULL,
    DESCRIPTION DESCRIPTION_2000,
    CONSTRAINT PERS_PK PRIMARY KEY (ID)
);

CREATE TABLE DATA_SETS (
    ID TECH_ID NOT NULL,
    CODE CODE,
    STATUS ARCHIVING_STATUS NOT NULL DEFAULT 'AVAILABLE',
    SIZE NUMERIC(20, 2),
    DATA_TYPE VARCHAR(10)
);

ALTER TABLE DATA_SETS ADD CONSTRAINT DATA_TYPE_CK CHECK (DATA_TYPE IN ('INTEGER','REAL','VARCHAR'));
`

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestParseSampleSchema(t *testing.T) {
	r := Parse(sampleSchema, WithLogger(discardLogger()))

	assert.Equal(t, []string{"data_sets", "persons"}, r.Tables())

	t.Run("persons", func(t *testing.T) {
		persons := r.MustTable("persons")
		assert.Equal(t, []string{"description", "email", "first_name", "id", "user_id"}, persons.Columns())

		length, ok := persons.Length("user_id")
		assert.True(t, ok)
		assert.Equal(t, 60, length)

		length, ok = persons.Length("description")
		assert.True(t, ok)
		assert.Equal(t, 2000, length)

		_, ok = persons.Length("id")
		assert.False(t, ok)

		assert.True(t, persons.HasNotNullConstraint("id"))
		assert.True(t, persons.HasNotNullConstraint("user_id"))
		assert.True(t, persons.HasNotNullConstraint("email"))
		assert.False(t, persons.HasNotNullConstraint("first_name"))
		assert.False(t, persons.HasColumn("constraint"))
	})

	t.Run("data_sets", func(t *testing.T) {
		dataSets := r.MustTable("data_sets")
		assert.True(t, dataSets.HasColumn("size"))
		assert.False(t, dataSets.HasColumn("2)"))

		status, ok := dataSets.CheckedConstraint("status")
		require.True(t, ok)
		assert.Equal(t, []string{"ARCHIVED", "AVAILABLE", "LOCKED"}, status)

		length, ok := dataSets.Length("status")
		assert.True(t, ok)
		assert.Equal(t, 100, length)
		assert.True(t, dataSets.HasNotNullConstraint("status"))

		dataType, ok := dataSets.CheckedConstraint("data_type")
		require.True(t, ok)
		assert.Equal(t, []string{"INTEGER", "REAL", "VARCHAR"}, dataType)

		_, ok = dataSets.CheckedConstraint("code")
		assert.False(t, ok)
	})
}

func TestParseDomainLength(t *testing.T) {
	r := Parse("create domain x as varchar(10);\ncreate table t (c1 x);", WithLogger(discardLogger()))

	length, ok := r.MustTable("t").Length("c1")
	assert.True(t, ok)
	assert.Equal(t, 10, length)
}

func TestParseDomainDefinedAfterTable(t *testing.T) {
	r := Parse("create table t (c1 x);\ncreate domain x as varchar(10);", WithLogger(discardLogger()))

	length, ok := r.MustTable("t").Length("c1")
	assert.True(t, ok)
	assert.Equal(t, 10, length)
}

func TestParseDomainWithoutAs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := Parse("create domain x varchar(10);\ncreate table t (c1 x);", WithLogger(logger))

	_, ok := r.MustTable("t").Length("c1")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "domain definition without as")
}

func TestParseColumnDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		column  string
		length  int
		limited bool
		notNull bool
	}{
		{"varchar_not_null", "create table t (c1 varchar(5) not null);", "c1", 5, true, true},
		{"character_varying", "create table t (c1 character varying(20));", "c1", 20, true, false},
		{"quoted_column", `create table t ("Name" varchar(7));`, "name", 7, true, false},
		{"quoted_column_with_space", `create table t ("full name" varchar(8) not null);`, "full name", 8, true, true},
		{"default_then_not_null", "create table t (c1 varchar(3) default 'x' not null);", "c1", 3, true, true},
		{"not_null_then_default", "create table t (c1 varchar(3) not null default 'x');", "c1", 3, true, true},
		{"not_null_in_literal", "create table t (c1 varchar(20) default 'not null');", "c1", 20, true, false},
		{"no_length", "create table t (c1 integer not null);", "c1", 0, false, true},
		{"schema_qualified", "create domain public.code as character varying(60);\ncreate table public.t (c1 public.code not null);", "c1", 60, true, true},
		{"if_not_exists", "create table if not exists t (c1 varchar(4));", "c1", 4, true, false},
		{"spaces_in_length", "create table t (c1 varchar ( 9 ));", "c1", 9, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Parse(tt.script, WithLogger(discardLogger()))
			table, ok := r.Table("t")
			require.True(t, ok)
			require.True(t, table.HasColumn(tt.column), "columns: %v", table.Columns())

			length, limited := table.Length(tt.column)
			assert.Equal(t, tt.limited, limited)
			assert.Equal(t, tt.length, length)
			assert.Equal(t, tt.notNull, table.HasNotNullConstraint(tt.column))
		})
	}
}

func TestParseNestedCommas(t *testing.T) {
	r := Parse("create table t (amount numeric(10,2) not null, code varchar(4));", WithLogger(discardLogger()))
	table := r.MustTable("t")

	assert.Equal(t, []string{"amount", "code"}, table.Columns())
	assert.True(t, table.HasNotNullConstraint("amount"))
	length, ok := table.Length("code")
	assert.True(t, ok)
	assert.Equal(t, 4, length)
}

func TestParseTableConstraintsSkipped(t *testing.T) {
	script := `create table t (
		id bigint not null,
		code varchar(10),
		constraint t_pk primary key (id),
		unique (code),
		primary key (id)
	);`
	r := Parse(script, WithLogger(discardLogger()))

	assert.Equal(t, []string{"code", "id"}, r.MustTable("t").Columns())
}

func TestParseMalformedColumnDefinition(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := Parse("create table t (justone, c2 varchar(2));", WithLogger(logger))

	assert.Equal(t, []string{"c2"}, r.MustTable("t").Columns())
	assert.Contains(t, buf.String(), "malformed column definition")
}

func TestParseCheckConstraints(t *testing.T) {
	t.Run("alter_table", func(t *testing.T) {
		r := Parse(`create table t (c1 varchar(5) not null, c2 varchar(1));
			alter table t add constraint chk check (c2 in ('A','B','C'));`, WithLogger(discardLogger()))

		values, ok := r.MustTable("t").CheckedConstraint("c2")
		require.True(t, ok)
		assert.Equal(t, []string{"A", "B", "C"}, values)
	})

	t.Run("alter_table_only_quoted_column", func(t *testing.T) {
		r := Parse(`create table t (c2 varchar(1));
			alter table only t add constraint chk check (("c2" in ('x', 'y')));`, WithLogger(discardLogger()))

		values, ok := r.MustTable("t").CheckedConstraint("c2")
		require.True(t, ok)
		assert.Equal(t, []string{"x", "y"}, values)
	})

	t.Run("inline_table_constraint", func(t *testing.T) {
		r := Parse("create table t (s varchar(1), constraint t_ck check (s in ('x','y')));", WithLogger(discardLogger()))

		values, ok := r.MustTable("t").CheckedConstraint("s")
		require.True(t, ok)
		assert.Equal(t, []string{"x", "y"}, values)
	})

	t.Run("inline_column_constraint", func(t *testing.T) {
		r := Parse("create table t (s varchar(1) not null check (s in ('x', 'y')));", WithLogger(discardLogger()))

		table := r.MustTable("t")
		values, ok := table.CheckedConstraint("s")
		require.True(t, ok)
		assert.Equal(t, []string{"x", "y"}, values)
		assert.True(t, table.HasNotNullConstraint("s"))
	})

	t.Run("values_with_commas_and_quotes", func(t *testing.T) {
		r := Parse(`create table t (c varchar(10));
			alter table t add constraint chk check (c in ('a,b', 'it''s'));`, WithLogger(discardLogger()))

		values, ok := r.MustTable("t").CheckedConstraint("c")
		require.True(t, ok)
		assert.Equal(t, []string{"a,b", "it's"}, values)
	})

	t.Run("malformed_alternative", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		r := Parse(`create table t (c2 varchar(1));
			alter table t add constraint chk check (c2 in ('A', B));`, WithLogger(logger))

		values, ok := r.MustTable("t").CheckedConstraint("c2")
		require.True(t, ok)
		assert.Equal(t, []string{"A"}, values)
		assert.Contains(t, buf.String(), "malformed check constraint alternative")
	})

	t.Run("non_membership_check_ignored", func(t *testing.T) {
		r := Parse(`create table t (c2 varchar(1));
			alter table t add constraint chk check (length(c2) > 0);`, WithLogger(discardLogger()))

		_, ok := r.MustTable("t").CheckedConstraint("c2")
		assert.False(t, ok)
	})

	t.Run("postgres_canonical_form", func(t *testing.T) {
		r := Parse(`CREATE TABLE public.t (
    status character varying(10),
    CONSTRAINT t_status_check CHECK (((status)::text = ANY ((ARRAY['A'::character varying, 'B'::character varying])::text[])))
);`, WithLogger(discardLogger()))

		values, ok := r.MustTable("t").CheckedConstraint("status")
		require.True(t, ok)
		assert.Equal(t, []string{"A", "B"}, values)
	})
}

func TestParseCheckConstraint(t *testing.T) {
	tests := []struct {
		name       string
		definition string
		column     string
		values     []string
	}{
		{"in_list", "CHECK (status IN ('A', 'B'))", "status", []string{"A", "B"}},
		{"bare_expression", "status in ('A')", "status", []string{"A"}},
		{"any_array", "CHECK (((status)::text = ANY ((ARRAY['A'::character varying, 'B'::character varying])::text[])))", "status", []string{"A", "B"}},
		{"single_equals", "CHECK (((kind)::text = 'X'::text))", "kind", []string{"X"}},
		{"domain_value", "CHECK (((VALUE)::text = ANY ((ARRAY['LOCKED'::character varying, 'AVAILABLE'::character varying])::text[])))", "value", []string{"LOCKED", "AVAILABLE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			column, values, err := ParseCheckConstraint(tt.definition)
			require.NoError(t, err)
			assert.Equal(t, tt.column, column)
			assert.Equal(t, tt.values, values)
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		_, _, err := ParseCheckConstraint("CHECK ((length(code) > 0))")
		assert.Error(t, err)
	})

	t.Run("unquoted_alternatives", func(t *testing.T) {
		_, _, err := ParseCheckConstraint("CHECK ((level = ANY (ARRAY[1, 2])))")
		assert.Error(t, err)
	})
}

func TestParseUnknownColumnPanics(t *testing.T) {
	r := Parse("create table t (c1 varchar(5));", WithLogger(discardLogger()))

	assert.Panics(t, func() {
		r.MustTable("t").Length("missing")
	})
	assert.Panics(t, func() {
		r.MustTable("missing")
	})
}

func TestParsePrimaryKeyColumnsNotNull(t *testing.T) {
	script := `create table t (id bigint primary key, c varchar(3));
		create table u (id bigint, code varchar(4), constraint u_pk primary key (id, "code"));
		create table v (id bigint, note text);
		alter table only v add constraint v_pk primary key (id);`
	r := Parse(script, WithLogger(discardLogger()))

	tests := []struct {
		table   string
		column  string
		notNull bool
	}{
		{"t", "id", true},
		{"t", "c", false},
		{"u", "id", true},
		{"u", "code", true},
		{"v", "id", true},
		{"v", "note", false},
	}
	for _, tt := range tests {
		t.Run(tt.table+"_"+tt.column, func(t *testing.T) {
			assert.Equal(t, tt.notNull, r.MustTable(tt.table).HasNotNullConstraint(tt.column))
		})
	}

	t.Run("check_rejects_null", func(t *testing.T) {
		assert.ErrorIs(t, r.Check("t", "id", nil), ErrNotNull)
		assert.ErrorIs(t, r.Check("u", "id", nil), ErrNotNull)
	})

	t.Run("columns_unchanged", func(t *testing.T) {
		assert.Equal(t, []string{"code", "id"}, r.MustTable("u").Columns())
	})
}

func TestParseTrailingCommentSwallowsColumn(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := Parse("create table t (c1 varchar(5), -- note\n c2 varchar(2));", WithLogger(logger))

	assert.Equal(t, []string{"c1"}, r.MustTable("t").Columns())
	assert.Contains(t, buf.String(), "malformed column definition")
	assert.Contains(t, buf.String(), "-- note c2 varchar(2)")
}
