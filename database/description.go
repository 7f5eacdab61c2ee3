package database

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// Description is the declarative shape of a MySQL schema as exchanged between
// schema sources and the generator. Tables and columns keep declaration order.
type Description struct {
	Name    string
	Collate string
	Tables  []TableDescription `validate:"dive"`
}

type TableDescription struct {
	Name      string `validate:"required"`
	Collate   string
	Engine    string
	Columns   []ColumnDescription `validate:"dive"`
	Indexes   []IndexDescription  `validate:"dive"`
	Uniques   []IndexDescription  `validate:"dive"`
	Fulltexts []IndexDescription  `validate:"dive"`
	Primary   []string            `validate:"dive,required"`
}

type ColumnDescription struct {
	Name         string `validate:"required"`
	Type         string `validate:"required"`
	Length       string
	Nullable     bool
	DefaultValue *string
	Extra        string
	Collate      string
}

type IndexDescription struct {
	Name    string
	Columns []string `validate:"min=1,dive,required"`
}

// On-disk documents. Tables and columns are mappings keyed by name, so they
// are decoded through yaml.MapSlice to keep their order.
type descriptionDocument struct {
	Name    string        `yaml:"name,omitempty"`
	Collate string        `yaml:"collate,omitempty"`
	Tables  yaml.MapSlice `yaml:"tables"`
}

type tableDocument struct {
	Collate   string          `yaml:"collate,omitempty"`
	Engine    string          `yaml:"engine,omitempty"`
	Columns   yaml.MapSlice   `yaml:"columns"`
	Indexes   []indexDocument `yaml:"indexes,omitempty"`
	Uniques   []indexDocument `yaml:"uniques,omitempty"`
	Fulltexts []indexDocument `yaml:"fulltexts,omitempty"`
	Primary   stringList      `yaml:"primary,omitempty"`
}

type columnDocument struct {
	Type         string  `yaml:"type"`
	Length       string  `yaml:"length,omitempty"`
	Nullable     bool    `yaml:"nullable,omitempty"`
	DefaultValue *string `yaml:"defaultValue,omitempty"`
	Extra        string  `yaml:"extra,omitempty"`
	Collate      string  `yaml:"collate,omitempty"`
}

type indexDocument struct {
	Name    string   `yaml:"name,omitempty"`
	Columns []string `yaml:"columns"`
}

// stringList accepts both `primary: id` and `primary: [id, name]`.
type stringList []string

func (l *stringList) UnmarshalYAML(unmarshal func(any) error) error {
	var list []string
	if err := unmarshal(&list); err == nil {
		*l = list
		return nil
	}
	var single string
	if err := unmarshal(&single); err != nil {
		return err
	}
	*l = stringList{single}
	return nil
}

var validate = validator.New()

// ParseDescription parses a JSON or YAML schema description. Unknown keys and
// columns without a type are rejected.
func ParseDescription(buf []byte) (*Description, error) {
	var doc descriptionDocument
	if err := yaml.UnmarshalStrict(buf, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema description: %w", err)
	}

	desc := &Description{
		Name:    doc.Name,
		Collate: doc.Collate,
	}
	for _, item := range doc.Tables {
		tableName := fmt.Sprint(item.Key)
		var tableDoc tableDocument
		if err := decodeItem(item.Value, &tableDoc); err != nil {
			return nil, fmt.Errorf("table '%s': %w", tableName, err)
		}

		table := TableDescription{
			Name:      tableName,
			Collate:   tableDoc.Collate,
			Engine:    tableDoc.Engine,
			Indexes:   indexDescriptions(tableDoc.Indexes),
			Uniques:   indexDescriptions(tableDoc.Uniques),
			Fulltexts: indexDescriptions(tableDoc.Fulltexts),
			Primary:   tableDoc.Primary,
		}
		for _, columnItem := range tableDoc.Columns {
			columnName := fmt.Sprint(columnItem.Key)
			var columnDoc columnDocument
			if err := decodeItem(columnItem.Value, &columnDoc); err != nil {
				return nil, fmt.Errorf("column '%s.%s': %w", tableName, columnName, err)
			}
			table.Columns = append(table.Columns, ColumnDescription{
				Name:         columnName,
				Type:         columnDoc.Type,
				Length:       columnDoc.Length,
				Nullable:     columnDoc.Nullable,
				DefaultValue: columnDoc.DefaultValue,
				Extra:        columnDoc.Extra,
				Collate:      columnDoc.Collate,
			})
		}
		desc.Tables = append(desc.Tables, table)
	}

	if err := validate.Struct(desc); err != nil {
		return nil, fmt.Errorf("invalid schema description: %w", err)
	}
	return desc, nil
}

// MarshalDescription renders a description in the YAML form read by ParseDescription.
func MarshalDescription(desc *Description) ([]byte, error) {
	doc := descriptionDocument{
		Name:    desc.Name,
		Collate: desc.Collate,
		Tables:  yaml.MapSlice{},
	}
	for _, table := range desc.Tables {
		tableDoc := tableDocument{
			Collate:   table.Collate,
			Engine:    table.Engine,
			Columns:   yaml.MapSlice{},
			Indexes:   indexDocuments(table.Indexes),
			Uniques:   indexDocuments(table.Uniques),
			Fulltexts: indexDocuments(table.Fulltexts),
			Primary:   table.Primary,
		}
		for _, column := range table.Columns {
			tableDoc.Columns = append(tableDoc.Columns, yaml.MapItem{
				Key: column.Name,
				Value: columnDocument{
					Type:         column.Type,
					Length:       column.Length,
					Nullable:     column.Nullable,
					DefaultValue: column.DefaultValue,
					Extra:        column.Extra,
					Collate:      column.Collate,
				},
			})
		}
		doc.Tables = append(doc.Tables, yaml.MapItem{Key: table.Name, Value: tableDoc})
	}
	return yaml.Marshal(doc)
}

// decodeItem decodes a generic YAML value, as held by a yaml.MapSlice, into out.
func decodeItem(value any, out any) error {
	buf, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(buf, out)
}

func indexDescriptions(docs []indexDocument) []IndexDescription {
	var indexes []IndexDescription
	for _, doc := range docs {
		indexes = append(indexes, IndexDescription{Name: doc.Name, Columns: doc.Columns})
	}
	return indexes
}

func indexDocuments(indexes []IndexDescription) []indexDocument {
	var docs []indexDocument
	for _, index := range indexes {
		docs = append(docs, indexDocument{Name: index.Name, Columns: index.Columns})
	}
	return docs
}
