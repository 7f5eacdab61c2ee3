package schema

import (
	"github.com/sqldef/jsondef/database"
)

// ParseDatabase builds a Database model from a description. Structural
// problems such as empty or duplicated names are returned unmodified.
func ParseDatabase(name string, desc *database.Description) (*Database, error) {
	db, err := NewDatabase(name)
	if err != nil {
		return nil, err
	}
	db.SetCollate(desc.Collate)

	for _, tableDesc := range desc.Tables {
		table, err := parseTable(tableDesc)
		if err != nil {
			return nil, err
		}
		if err := db.AddTable(table); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func parseTable(desc database.TableDescription) (*Table, error) {
	table, err := NewTable(desc.Name)
	if err != nil {
		return nil, err
	}
	table.SetCollate(desc.Collate)
	table.SetEngine(desc.Engine)

	for _, columnDesc := range desc.Columns {
		column, err := NewColumn(columnDesc.Name, columnDesc.Type, columnDesc.Length, columnDesc.Nullable, columnDesc.DefaultValue, columnDesc.Extra)
		if err != nil {
			return nil, err
		}
		column.SetCollate(columnDesc.Collate)
		if err := table.AddColumn(column); err != nil {
			return nil, err
		}
	}

	for _, index := range desc.Indexes {
		if err := table.AddIndex(index.Columns, index.Name); err != nil {
			return nil, err
		}
	}
	if len(desc.Primary) > 0 {
		if err := table.AddPrimary(desc.Primary); err != nil {
			return nil, err
		}
	}
	for _, index := range desc.Uniques {
		if err := table.AddUnique(index.Columns, index.Name); err != nil {
			return nil, err
		}
	}
	for _, index := range desc.Fulltexts {
		if err := table.AddFulltext(index.Columns, index.Name); err != nil {
			return nil, err
		}
	}
	return table, nil
}
