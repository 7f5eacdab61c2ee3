package schema

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/sqldef/jsondef/database"
)

// comparison selects which attributes take part in a comparison.
type comparison struct {
	checkCollate  bool
	checkEngine   bool
	optimizeTypes bool
}

// This struct holds the options of one GenerateIdempotentDDLs() call.
type Generator struct {
	config       database.GeneratorConfig
	targetTables []*regexp.Regexp
	skipTables   []*regexp.Regexp
}

// GenerateIdempotentDDLs returns the statements turning `current` into `desired`.
// Neither model is modified.
func GenerateIdempotentDDLs(current *Database, desired *Database, config database.GeneratorConfig) ([]string, error) {
	generator, err := newGenerator(config)
	if err != nil {
		return nil, err
	}
	return generator.generateDDLs(current, desired)
}

func newGenerator(config database.GeneratorConfig) (*Generator, error) {
	targetTables, err := compileTablePatterns(config.TargetTables)
	if err != nil {
		return nil, err
	}
	skipTables, err := compileTablePatterns(config.SkipTables)
	if err != nil {
		return nil, err
	}
	return &Generator{
		config:       config,
		targetTables: targetTables,
		skipTables:   skipTables,
	}, nil
}

func compileTablePatterns(patterns []string) ([]*regexp.Regexp, error) {
	var result []*regexp.Regexp
	for _, pattern := range patterns {
		re, err := regexp.Compile("(?i)^(?:" + pattern + ")$")
		if err != nil {
			return nil, fmt.Errorf("invalid table pattern '%s': %w", pattern, err)
		}
		result = append(result, re)
	}
	return result, nil
}

func (g *Generator) generateDDLs(current *Database, desired *Database) ([]string, error) {
	var ddls [][]string

	if g.config.CheckCollate && !strings.EqualFold(current.collate, desired.collate) {
		ddls = append(ddls, current.withCollate(desired.collate).AlterStatement())
	}

	for _, currentTable := range current.tables {
		if !g.managed(currentTable.name) {
			continue
		}

		desiredTable, ok := desired.Table(currentTable.name)
		if !ok {
			if g.config.EnableDrop {
				ddls = append(ddls, currentTable.DeleteStatement())
				continue
			}
			// Without drop, a table missing from the desired schema is re-created from its current shape.
			tableDDLs, err := createStatement(currentTable)
			if err != nil {
				return nil, err
			}
			ddls = append(ddls, tableDDLs)
			continue
		}

		tableDDLs, err := g.generateDDLsForTable(currentTable, desiredTable)
		if err != nil {
			return nil, err
		}
		ddls = append(ddls, tableDDLs)
	}

	for _, desiredTable := range desired.tables {
		if !g.managed(desiredTable.name) {
			continue
		}
		if _, ok := current.Table(desiredTable.name); ok {
			continue
		}
		tableDDLs, err := createStatement(desiredTable.normalized(comparison{
			checkCollate:  true,
			checkEngine:   true,
			optimizeTypes: g.config.OptimizeTypes,
		}))
		if err != nil {
			return nil, err
		}
		ddls = append(ddls, tableDDLs)
	}

	return mergeDDLs(ddls...), nil
}

func (g *Generator) generateDDLsForTable(currentTable *Table, desiredTable *Table) ([]string, error) {
	current := currentTable.normalized(g.comparison(false))
	desired := desiredTable.normalized(g.comparison(true))
	if tablesEqual(current, desired) {
		slog.Debug("Table is unchanged", "table", desired.name)
		return nil, nil
	}

	var dropDDLs, tableDDLs, indexDDLs []string
	tableDDLs = append(tableDDLs, desired.AlterStatement()...)

	var changedColumns []string
	for _, column := range current.columns {
		var ddls []string
		var err error

		desiredColumn, ok := desired.Column(column.name)
		if !ok {
			if g.config.EnableDrop {
				ddls = column.DeleteStatement()
			} else {
				ddls, err = column.CreateStatement()
			}
		} else if !columnsEqual(column, desiredColumn) {
			ddls, err = desiredColumn.AlterStatement()
		}
		if err != nil {
			return nil, err
		}
		if len(ddls) > 0 {
			tableDDLs = append(tableDDLs, ddls...)
			changedColumns = append(changedColumns, column.name)
		}
	}

	for _, column := range desired.columns {
		if _, ok := current.Column(column.name); ok {
			continue
		}
		ddls, err := column.CreateStatement()
		if err != nil {
			return nil, err
		}
		tableDDLs = append(tableDDLs, ddls...)
		changedColumns = append(changedColumns, column.name)
	}

	for _, index := range current.indexes {
		desiredIndex, ok := desired.Index(index.name)
		if !ok {
			if g.config.EnableDrop {
				dropDDLs = append(dropDDLs, index.DeleteStatement()...)
			}
			continue
		}
		if !indexesEqual(index, desiredIndex) {
			indexDDLs = append(indexDDLs, desiredIndex.AlterStatement()...)
		}
	}

	for _, index := range desired.indexes {
		if _, ok := current.Index(index.name); !ok {
			indexDDLs = append(indexDDLs, index.CreateStatement()...)
		}
	}

	// An index is rebuilt whenever one of its columns changed, even if the index itself did not.
	for _, index := range desired.indexes {
		for _, column := range changedColumns {
			if !index.Covers(column) {
				continue
			}
			if _, ok := current.Index(index.name); ok {
				dropDDLs = append(dropDDLs, index.DeleteStatement()...)
			}
			indexDDLs = append(indexDDLs, index.CreateStatement()...)
			break
		}
	}

	return mergeDDLs(dropDDLs, tableDDLs, indexDDLs), nil
}

func (g *Generator) comparison(desired bool) comparison {
	return comparison{
		checkCollate:  g.config.CheckCollate,
		checkEngine:   g.config.CheckEngine,
		optimizeTypes: desired && g.config.OptimizeTypes,
	}
}

// managed reports whether a table is subject to the diff under target_tables and skip_tables.
func (g *Generator) managed(table string) bool {
	if len(g.targetTables) > 0 && !matchAny(g.targetTables, table) {
		return false
	}
	return !matchAny(g.skipTables, table)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// createStatement turns a table without columns into no statement at all.
func createStatement(table *Table) ([]string, error) {
	ddls, err := table.CreateStatement()
	if errors.Is(err, ErrTableHasNoColumn) {
		slog.Debug("Skipping a table without columns", "table", table.name)
		return nil, nil
	}
	return ddls, err
}
