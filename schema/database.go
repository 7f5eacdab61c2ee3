package schema

import (
	"fmt"

	"github.com/pkg/errors"
)

// Database owns its tables, unique by case-insensitive name.
type Database struct {
	name         string
	collate      string
	tables       []*Table
	tablesByName map[string]*Table
}

func NewDatabase(name string) (*Database, error) {
	if name == "" {
		return nil, errors.Wrap(ErrEmptyName, "database")
	}
	return &Database{
		name:         name,
		tablesByName: map[string]*Table{},
	}, nil
}

func (d *Database) Name() string        { return d.name }
func (d *Database) Collate() string     { return d.collate }
func (d *Database) Tables() []*Table    { return d.tables }
func (d *Database) SetCollate(s string) { d.collate = s }

// Table looks up a table by case-insensitive name.
func (d *Database) Table(name string) (*Table, bool) {
	table, ok := d.tablesByName[normalizeIdentifier(name)]
	return table, ok
}

func (d *Database) AddTable(table *Table) error {
	key := normalizeIdentifier(table.name)
	if _, ok := d.tablesByName[key]; ok {
		return errors.Wrapf(ErrDuplicateName, "table '%s'", table.name)
	}
	d.tables = append(d.tables, table)
	d.tablesByName[key] = table
	return nil
}

// AlterStatement renders the database collation. It is empty when no collation is set.
func (d *Database) AlterStatement() []string {
	if d.collate == "" {
		return nil
	}
	return []string{fmt.Sprintf("ALTER DATABASE %s COLLATE=%s;", QuoteIdentifier(d.name), d.collate)}
}

// withCollate returns a shallow copy carrying another collation.
func (d *Database) withCollate(collate string) *Database {
	clone := *d
	clone.collate = collate
	return &clone
}
