package schema

import (
	"fmt"
	"strings"
)

type IndexKind int

const (
	IndexKindPlain = IndexKind(iota)
	IndexKindUnique
	IndexKindPrimary
	IndexKindFulltext
)

const primaryKeyName = "PRIMARY"

func (k IndexKind) String() string {
	switch k {
	case IndexKindUnique:
		return "unique"
	case IndexKindPrimary:
		return "primary"
	case IndexKindFulltext:
		return "fulltext"
	default:
		return "index"
	}
}

// Index is a plain, unique, fulltext or primary key index of a table.
type Index struct {
	table   string
	name    string
	columns []string
	kind    IndexKind
}

// NewIndex builds an index. An empty name is derived from the kind and the covered columns.
func NewIndex(name string, columns []string, kind IndexKind) *Index {
	if name == "" {
		name = generateIndexName(columns, kind)
	}
	return &Index{
		name:    name,
		columns: columns,
		kind:    kind,
	}
}

func generateIndexName(columns []string, kind IndexKind) string {
	joined := strings.Join(columns, "_")
	switch kind {
	case IndexKindPrimary:
		return primaryKeyName
	case IndexKindUnique:
		return "unique_" + joined
	case IndexKindFulltext:
		return "fulltext_" + joined
	default:
		return joined
	}
}

func (i *Index) Name() string      { return i.name }
func (i *Index) Columns() []string { return i.columns }
func (i *Index) Kind() IndexKind   { return i.kind }
func (i *Index) Table() string     { return i.table }

// Covers reports whether the index covers the column, ignoring case.
func (i *Index) Covers(column string) bool {
	return containsIdentifier(i.columns, column)
}

func (i *Index) CreateStatement() []string {
	return []string{
		fmt.Sprintf("ALTER TABLE %s ADD %s;", QuoteIdentifier(i.table), i.definition()),
	}
}

// AlterStatement rebuilds the index, as MySQL cannot change the columns of an existing index.
func (i *Index) AlterStatement() []string {
	return append(i.DeleteStatement(), i.CreateStatement()...)
}

func (i *Index) DeleteStatement() []string {
	if i.kind == IndexKindPrimary {
		return []string{fmt.Sprintf("ALTER TABLE %s DROP PRIMARY KEY;", QuoteIdentifier(i.table))}
	}
	return []string{
		fmt.Sprintf("ALTER TABLE %s DROP INDEX %s;", QuoteIdentifier(i.table), QuoteIdentifier(i.name)),
	}
}

// definition is the index as written inside CREATE TABLE or after ADD.
func (i *Index) definition() string {
	columns := quoteIdentifiers(i.columns)
	switch i.kind {
	case IndexKindPrimary:
		return fmt.Sprintf("PRIMARY KEY (%s)", columns)
	case IndexKindUnique:
		return fmt.Sprintf("UNIQUE INDEX %s (%s)", QuoteIdentifier(i.name), columns)
	case IndexKindFulltext:
		return fmt.Sprintf("FULLTEXT INDEX %s (%s)", QuoteIdentifier(i.name), columns)
	default:
		return fmt.Sprintf("INDEX %s (%s)", QuoteIdentifier(i.name), columns)
	}
}

func (i *Index) signature() string {
	return fmt.Sprintf("%s\x1f%s\x1f%s", i.name, i.kind, strings.Join(i.columns, ","))
}

func indexesEqual(a, b *Index) bool {
	return strings.EqualFold(a.signature(), b.signature())
}

func (i *Index) clone() *Index {
	clone := *i
	clone.columns = append([]string(nil), i.columns...)
	return &clone
}
