package schema

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Column is the declared shape of one table column.
type Column struct {
	table        string // name of the owning table, only used to qualify statements
	name         string
	typeName     string
	length       string
	nullable     bool
	defaultValue *string
	extra        string
	collate      string
}

// NewColumn builds a column. The type is lower-cased; a nil defaultValue means no DEFAULT clause.
func NewColumn(name string, typeName string, length string, nullable bool, defaultValue *string, extra string) (*Column, error) {
	if name == "" {
		return nil, errors.Wrap(ErrEmptyName, "column")
	}
	return &Column{
		name:         name,
		typeName:     normalizeTypeName(typeName),
		length:       length,
		nullable:     nullable,
		defaultValue: defaultValue,
		extra:        extra,
	}, nil
}

func (c *Column) Name() string          { return c.name }
func (c *Column) Type() string          { return c.typeName }
func (c *Column) Length() string        { return c.length }
func (c *Column) Nullable() bool        { return c.nullable }
func (c *Column) DefaultValue() *string { return c.defaultValue }
func (c *Column) Extra() string         { return c.extra }
func (c *Column) Collate() string       { return c.collate }
func (c *Column) Table() string         { return c.table }

func (c *Column) SetCollate(collate string) {
	c.collate = collate
}

// SetTable attaches the column to a table name. Table.AddColumn does this for you.
func (c *Column) SetTable(table string) {
	c.table = table
}

// ColumnType is the type with its length qualifier, e.g. `int(11)` or `text`.
func (c *Column) ColumnType() string {
	return columnType(c.typeName, c.length)
}

// OptimizeType rewrites a boolean-like enum such as ENUM('0','1') to TINYINT(1).
// Other types are left untouched.
func (c *Column) OptimizeType() {
	if isBooleanEnum(c.typeName) {
		c.typeName = booleanType
		c.length = ""
	}
}

func (c *Column) CreateStatement() ([]string, error) {
	if c.table == "" {
		return nil, errors.Wrapf(ErrColumnHasNoTable, "column '%s'", c.name)
	}
	return []string{
		fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s;", QuoteIdentifier(c.table), c.definitionHead(), c.extraClause()),
	}, nil
}

// AlterStatement renders CHANGE COLUMN from the name to itself; renames are not modeled.
func (c *Column) AlterStatement() ([]string, error) {
	if c.table == "" {
		return nil, errors.Wrapf(ErrColumnHasNoTable, "column '%s'", c.name)
	}
	return []string{
		fmt.Sprintf("ALTER TABLE %s CHANGE COLUMN %s %s %s;", QuoteIdentifier(c.table), QuoteIdentifier(c.name), c.definitionHead(), c.extraClause()),
	}, nil
}

func (c *Column) DeleteStatement() []string {
	return []string{
		fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;", QuoteIdentifier(c.table), QuoteIdentifier(c.name)),
	}
}

// definitionHead renders everything of a column definition except the extra attributes.
func (c *Column) definitionHead() string {
	parts := []string{QuoteIdentifier(c.name), c.ColumnType()}
	if c.collate != "" {
		parts = append(parts, "COLLATE "+c.collate)
	}
	if c.nullable {
		parts = append(parts, "NULL")
	} else {
		parts = append(parts, "NOT NULL")
	}
	if c.defaultValue != nil {
		parts = append(parts, "DEFAULT "+defaultExpression(*c.defaultValue))
	}
	return strings.Join(parts, " ")
}

func (c *Column) extraClause() string {
	return strings.ToUpper(c.extra)
}

// definition is the column as written inside CREATE TABLE.
func (c *Column) definition() string {
	return strings.TrimSpace(c.definitionHead() + " " + c.extraClause())
}

func (c *Column) signature() string {
	defaultValue := "\x00"
	if c.defaultValue != nil {
		defaultValue = *c.defaultValue
	}
	return strings.Join([]string{
		c.name,
		c.ColumnType(),
		fmt.Sprint(c.nullable),
		defaultValue,
		c.extra,
		c.collate,
	}, "\x1f")
}

func columnsEqual(a, b *Column) bool {
	return strings.EqualFold(a.signature(), b.signature())
}

func (c *Column) clone() *Column {
	clone := *c
	return &clone
}
