package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Table owns its columns and indexes, both unique by case-insensitive name.
type Table struct {
	name    string
	collate string
	engine  string

	columns       []*Column
	columnsByName map[string]*Column
	indexes       []*Index
	indexesByName map[string]*Index
}

func NewTable(name string) (*Table, error) {
	if name == "" {
		return nil, errors.Wrap(ErrEmptyName, "table")
	}
	return &Table{
		name:          name,
		columnsByName: map[string]*Column{},
		indexesByName: map[string]*Index{},
	}, nil
}

func (t *Table) Name() string        { return t.name }
func (t *Table) Collate() string     { return t.collate }
func (t *Table) Engine() string      { return t.engine }
func (t *Table) Columns() []*Column  { return t.columns }
func (t *Table) Indexes() []*Index   { return t.indexes }
func (t *Table) SetCollate(s string) { t.collate = s }
func (t *Table) SetEngine(s string)  { t.engine = s }

// Column looks up a column by case-insensitive name.
func (t *Table) Column(name string) (*Column, bool) {
	column, ok := t.columnsByName[normalizeIdentifier(name)]
	return column, ok
}

// Index looks up an index by case-insensitive name.
func (t *Table) Index(name string) (*Index, bool) {
	index, ok := t.indexesByName[normalizeIdentifier(name)]
	return index, ok
}

// AddColumn appends a column and attaches it to this table.
func (t *Table) AddColumn(column *Column) error {
	key := normalizeIdentifier(column.name)
	if _, ok := t.columnsByName[key]; ok {
		return errors.Wrapf(ErrDuplicateName, "column '%s.%s'", t.name, column.name)
	}
	column.table = t.name
	t.columns = append(t.columns, column)
	t.columnsByName[key] = column
	return nil
}

func (t *Table) AddIndex(columns []string, name string) error {
	return t.addIndex(NewIndex(name, columns, IndexKindPlain))
}

func (t *Table) AddUnique(columns []string, name string) error {
	return t.addIndex(NewIndex(name, columns, IndexKindUnique))
}

func (t *Table) AddFulltext(columns []string, name string) error {
	return t.addIndex(NewIndex(name, columns, IndexKindFulltext))
}

func (t *Table) AddPrimary(columns []string) error {
	return t.addIndex(NewIndex(primaryKeyName, columns, IndexKindPrimary))
}

func (t *Table) addIndex(index *Index) error {
	key := normalizeIdentifier(index.name)
	if _, ok := t.indexesByName[key]; ok {
		return errors.Wrapf(ErrDuplicateName, "index '%s.%s'", t.name, index.name)
	}
	index.table = t.name
	t.indexes = append(t.indexes, index)
	t.indexesByName[key] = index
	return nil
}

// CreateStatement renders CREATE TABLE with every column and index inlined.
func (t *Table) CreateStatement() ([]string, error) {
	if len(t.columns) == 0 {
		return nil, errors.Wrapf(ErrTableHasNoColumn, "table '%s'", t.name)
	}

	var definitions []string
	for _, column := range t.columns {
		definitions = append(definitions, column.definition())
	}
	for _, index := range t.indexes {
		definitions = append(definitions, index.definition())
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdentifier(t.name), strings.Join(definitions, ", "))
	if options := t.tableOptions(); options != "" {
		ddl += " " + options
	}
	return []string{ddl + ";"}, nil
}

// AlterStatement renders the table options (engine, collation). It is empty when none is set.
func (t *Table) AlterStatement() []string {
	options := t.tableOptions()
	if options == "" {
		return nil
	}
	return []string{fmt.Sprintf("ALTER TABLE %s %s;", QuoteIdentifier(t.name), options)}
}

func (t *Table) DeleteStatement() []string {
	return []string{fmt.Sprintf("DROP TABLE %s;", QuoteIdentifier(t.name))}
}

func (t *Table) tableOptions() string {
	var options []string
	if t.engine != "" {
		options = append(options, "ENGINE="+t.engine)
	}
	if t.collate != "" {
		options = append(options, "COLLATE="+t.collate)
	}
	return strings.Join(options, " ")
}

// signature ignores the declaration order of columns and indexes.
func (t *Table) signature() string {
	var columns, indexes []string
	for _, column := range t.columns {
		columns = append(columns, strings.ToLower(column.signature()))
	}
	for _, index := range t.indexes {
		indexes = append(indexes, strings.ToLower(index.signature()))
	}
	slices.Sort(columns)
	slices.Sort(indexes)
	return strings.Join([]string{
		t.name,
		t.collate,
		t.engine,
		strings.Join(columns, "\x1e"),
		strings.Join(indexes, "\x1e"),
	}, "\x1d")
}

func tablesEqual(a, b *Table) bool {
	return strings.EqualFold(a.signature(), b.signature())
}

// normalized returns a deep copy of the table with the attributes that are
// not compared blanked out. The receiver is left untouched.
func (t *Table) normalized(config comparison) *Table {
	clone := &Table{
		name:          t.name,
		collate:       t.collate,
		engine:        t.engine,
		columnsByName: make(map[string]*Column, len(t.columns)),
		indexesByName: make(map[string]*Index, len(t.indexes)),
	}
	if !config.checkCollate {
		clone.collate = ""
	}
	if !config.checkEngine {
		clone.engine = ""
	}
	for _, column := range t.columns {
		c := column.clone()
		if !config.checkCollate {
			c.collate = ""
		}
		if config.optimizeTypes {
			c.OptimizeType()
		}
		clone.columns = append(clone.columns, c)
		clone.columnsByName[normalizeIdentifier(c.name)] = c
	}
	for _, index := range t.indexes {
		i := index.clone()
		clone.indexes = append(clone.indexes, i)
		clone.indexesByName[normalizeIdentifier(i.name)] = i
	}
	return clone
}
