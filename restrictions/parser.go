package restrictions

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const identifier = `(?:[a-z0-9_]+\.)?"?([a-z0-9_]+)"?`

var (
	createDomainPattern    = regexp.MustCompile(`^create\s+domain\s+` + identifier + `(.*)$`)
	domainTypePattern      = regexp.MustCompile(`^\s+as\s+(.+)$`)
	createTablePattern     = regexp.MustCompile(`^create\s+table\s+(?:if\s+not\s+exists\s+)?` + identifier + `\s*\(`)
	alterCheckPattern      = regexp.MustCompile(`^alter\s+table\s+(?:only\s+)?` + identifier + `\s+add\s+constraint\s+\S+\s+(check\s*\(.*)$`)
	varcharPattern         = regexp.MustCompile(`^(?:varchar|character\s+varying)\s*\(\s*(\d+)\s*\)`)
	notNullPattern         = regexp.MustCompile(`(?:^|\s)not\s+null(?:\s|$)`)
	checkKeywordPattern    = regexp.MustCompile(`(?:^|\s)check\s*\(`)
	checkPrefixPattern     = regexp.MustCompile(`^check\s*\(`)
	primaryKeyPattern      = regexp.MustCompile(`(?:^|\s)primary\s+key(?:\s|$)`)
	primaryKeyListPattern  = regexp.MustCompile(`(?:^|\s)primary\s+key\s*\(`)
	alterPrimaryKeyPattern = regexp.MustCompile(`^alter\s+table\s+(?:only\s+)?` + identifier + `\s+add\s+(?:constraint\s+\S+\s+)?primary\s+key\s*\(`)
	columnNamePattern      = regexp.MustCompile(`^[a-z0-9_$]+$`)
	tableConstraintPattern = regexp.MustCompile(`^(?:constraint\s|primary\s+key|unique[\s(]|foreign\s+key|check[\s(]|exclude[\s(])`)

	inListPattern   = regexp.MustCompile(`^(?:"([^"]+)"|([a-z0-9_]+))\s+in\s*\((.*)\)$`)
	anyArrayPattern = regexp.MustCompile(`^\(?"?([a-z0-9_]+)"?\)?(?:::[a-z ]+?)?\s*=\s*any\s*(.*)$`)
	equalsPattern   = regexp.MustCompile(`^\(?"?([a-z0-9_]+)"?\)?(?:::[a-z ]+?)?\s*=\s*('.*)$`)
	literalPattern  = regexp.MustCompile(`^'(.*)'(?:::[a-z ]+)?$`)
)

type domain struct {
	length    int
	hasLength bool
	allowed   []string
}

type parser struct {
	builder *Builder
	domains map[string]domain
	logger  *slog.Logger
}

// Parse extracts the restrictions of all tables created by script. Parsing is
// lenient: malformed definitions are logged and skipped.
func Parse(script string, opts ...Option) *Restrictions {
	return ParseStatements(Tokenize(script), opts...)
}

// ParseStatements is like Parse for statements already normalized by a
// Tokenizer.
func ParseStatements(statements []string, opts ...Option) *Restrictions {
	o := newOptions(opts)
	p := &parser{
		builder: NewBuilder(),
		domains: make(map[string]domain),
		logger:  o.logger,
	}

	// domains must be known before the column definitions referring to them
	for _, statement := range statements {
		p.parseDomain(statement)
	}
	for _, statement := range statements {
		p.parseTable(statement)
	}
	for _, statement := range statements {
		p.parseAlterCheck(statement)
		p.parseAlterPrimaryKey(statement)
	}

	r := p.builder.Build(opts...)
	p.logger.Debug("parsed restrictions", "statements", len(statements), "domains", len(p.domains), "tables", len(r.tables))
	return r
}

func (p *parser) parseDomain(statement string) {
	m := createDomainPattern.FindStringSubmatch(statement)
	if m == nil {
		return
	}
	name := m[1]
	tm := domainTypePattern.FindStringSubmatch(m[2])
	if tm == nil {
		p.logger.Warn("domain definition without as", "domain", name, "statement", statement)
		return
	}
	typeDef := tm[1]

	var d domain
	if lm := varcharPattern.FindStringSubmatch(typeDef); lm != nil {
		if length, ok := p.parseLength(lm[1], statement); ok {
			d.length, d.hasLength = length, true
		}
	}
	if loc := checkKeywordPattern.FindStringIndex(typeDef); loc != nil {
		if _, values, ok := p.parseCheck(strings.TrimSpace(typeDef[loc[0]:]), statement); ok {
			d.allowed = values
		}
	}
	p.domains[name] = d
	p.logger.Debug("found domain", "domain", name, "length", d.length)
}

func (p *parser) parseTable(statement string) {
	loc := createTablePattern.FindStringSubmatchIndex(statement)
	if loc == nil {
		return
	}
	table := statement[loc[2]:loc[3]]
	open := loc[1] - 1
	end := closingIndex(statement, open)
	if end < 0 {
		p.logger.Warn("unbalanced column definitions", "table", table, "statement", statement)
		return
	}

	p.builder.AddTable(table)
	for _, definition := range splitTopLevel(statement[open+1:end], ',') {
		p.parseColumnDefinition(table, definition)
	}
}

func (p *parser) parseColumnDefinition(table, definition string) {
	if definition == "" {
		return
	}
	if tableConstraintPattern.MatchString(definition) {
		if loc := checkKeywordPattern.FindStringIndex(definition); loc != nil {
			p.addCheck(table, strings.TrimSpace(definition[loc[0]:]), definition)
		}
		if loc := primaryKeyListPattern.FindStringIndex(definition); loc != nil {
			p.addPrimaryKey(table, definition, loc[1]-1)
		}
		return
	}

	column, typeDef, ok := splitColumnDefinition(definition)
	if !ok || (!strings.HasPrefix(definition, `"`) && !columnNamePattern.MatchString(column)) {
		p.logger.Warn("malformed column definition", "table", table, "definition", definition)
		return
	}

	p.builder.AddColumn(table, column)
	if m := varcharPattern.FindStringSubmatch(typeDef); m != nil {
		if length, ok := p.parseLength(m[1], definition); ok {
			p.builder.SetLength(table, column, length)
		}
	} else if d, exists := p.domains[domainName(typeDef)]; exists {
		if d.hasLength {
			p.builder.SetLength(table, column, d.length)
		}
		if d.allowed != nil {
			p.builder.SetAllowedValues(table, column, d.allowed)
		}
	}

	// primary key columns are implicitly not null
	if stripped := stripLiterals(typeDef); notNullPattern.MatchString(stripped) || primaryKeyPattern.MatchString(stripped) {
		p.builder.SetNotNull(table, column)
	}
	if loc := checkKeywordPattern.FindStringIndex(typeDef); loc != nil {
		p.addCheck(table, strings.TrimSpace(typeDef[loc[0]:]), definition)
	}
}

func (p *parser) parseAlterCheck(statement string) {
	m := alterCheckPattern.FindStringSubmatch(statement)
	if m == nil {
		return
	}
	p.addCheck(m[1], m[2], statement)
}

func (p *parser) parseAlterPrimaryKey(statement string) {
	loc := alterPrimaryKeyPattern.FindStringSubmatchIndex(statement)
	if loc == nil {
		return
	}
	p.addPrimaryKey(statement[loc[2]:loc[3]], statement, loc[1]-1)
}

// addPrimaryKey marks the columns listed in the parenthesis opening at open
// as not null.
func (p *parser) addPrimaryKey(table, statement string, open int) {
	end := closingIndex(statement, open)
	if end < 0 {
		p.logger.Warn("unbalanced primary key columns", "table", table, "statement", statement)
		return
	}
	for _, column := range splitTopLevel(statement[open+1:end], ',') {
		if column = strings.Trim(column, `"`); column != "" {
			p.builder.SetNotNull(table, column)
		}
	}
}

func (p *parser) addCheck(table, clause, statement string) {
	column, values, ok := p.parseCheck(clause, statement)
	if !ok {
		return
	}
	p.builder.SetAllowedValues(table, column, values)
}

func (p *parser) parseCheck(clause, statement string) (string, []string, bool) {
	column, alternatives, ok := decodeCheckClause(clause)
	if !ok {
		p.logger.Debug("unsupported check constraint", "statement", statement)
		return "", nil, false
	}

	values := make([]string, 0, len(alternatives))
	for _, alternative := range alternatives {
		value, ok := unquoteLiteral(alternative)
		if !ok {
			p.logger.Warn("malformed check constraint alternative", "alternative", alternative, "statement", statement)
			continue
		}
		values = append(values, value)
	}
	if len(values) == 0 {
		return "", nil, false
	}
	return column, values, true
}

func (p *parser) parseLength(digits, statement string) (int, bool) {
	length, err := strconv.Atoi(digits)
	if err != nil {
		p.logger.Warn("invalid varchar length", "length", digits, "statement", statement)
		return 0, false
	}
	return length, true
}

// ParseCheckConstraint decodes a check constraint definition restricting a
// column to a set of literals, such as
//
//	CHECK (status IN ('A', 'B'))
//	CHECK (((status)::text = ANY ((ARRAY['A'::character varying, 'B'::character varying])::text[])))
//
// as well as the bare expression without the CHECK keyword.
func ParseCheckConstraint(definition string) (column string, values []string, err error) {
	statements := Tokenize(definition)
	if len(statements) != 1 {
		return "", nil, fmt.Errorf("expected a single check constraint, got %d statements", len(statements))
	}
	clause := statements[0]
	if !checkPrefixPattern.MatchString(clause) {
		clause = "check (" + clause + ")"
	}

	column, alternatives, ok := decodeCheckClause(clause)
	if !ok {
		return "", nil, fmt.Errorf("unsupported check constraint: %s", definition)
	}
	values = make([]string, 0, len(alternatives))
	for _, alternative := range alternatives {
		value, ok := unquoteLiteral(alternative)
		if !ok {
			return "", nil, fmt.Errorf("malformed check constraint alternative %s", alternative)
		}
		values = append(values, value)
	}
	return column, values, nil
}

// decodeCheckClause returns the column and the raw alternatives of a
// "check (...)" clause.
func decodeCheckClause(clause string) (string, []string, bool) {
	open := strings.IndexByte(clause, '(')
	end := closingIndex(clause, open)
	if end < 0 {
		return "", nil, false
	}
	expression := stripParens(clause[open+1 : end])

	if m := inListPattern.FindStringSubmatch(expression); m != nil {
		column := m[1]
		if column == "" {
			column = m[2]
		}
		return column, splitTopLevel(m[3], ','), true
	}
	if m := anyArrayPattern.FindStringSubmatch(expression); m != nil {
		start := strings.Index(m[2], "array[")
		if start < 0 {
			return "", nil, false
		}
		open := start + len("array")
		end := closingIndex(m[2], open)
		if end < 0 {
			return "", nil, false
		}
		return m[1], splitTopLevel(m[2][open+1:end], ','), true
	}
	if m := equalsPattern.FindStringSubmatch(expression); m != nil {
		return m[1], []string{strings.TrimSpace(m[2])}, true
	}
	return "", nil, false
}

func unquoteLiteral(alternative string) (string, bool) {
	m := literalPattern.FindStringSubmatch(strings.TrimSpace(alternative))
	if m == nil {
		return "", false
	}
	return strings.ReplaceAll(m[1], "''", "'"), true
}

// splitColumnDefinition separates the column name from its type definition.
func splitColumnDefinition(definition string) (column, typeDef string, ok bool) {
	if strings.HasPrefix(definition, `"`) {
		end := strings.IndexByte(definition[1:], '"')
		if end < 0 {
			return "", "", false
		}
		column = definition[1 : end+1]
		rest := definition[end+2:]
		if rest == "" || !unicode.IsSpace(rune(rest[0])) {
			return "", "", false
		}
		return column, strings.TrimSpace(rest), true
	}

	idx := strings.IndexFunc(definition, unicode.IsSpace)
	if idx < 0 {
		return "", "", false
	}
	return strings.Trim(definition[:idx], `"`), strings.TrimSpace(definition[idx+1:]), true
}

// domainName returns the unqualified name of the type a column refers to.
func domainName(typeDef string) string {
	end := strings.IndexFunc(typeDef, func(r rune) bool {
		return unicode.IsSpace(r) || r == '('
	})
	name := typeDef
	if end >= 0 {
		name = typeDef[:end]
	}
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		name = name[dot+1:]
	}
	return strings.Trim(name, `"`)
}
