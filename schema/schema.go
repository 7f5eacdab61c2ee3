// This package has the schema model, its DDL rendering and the diff generator.
// Never touch database.
package schema

import (
	"github.com/pkg/errors"
)

var (
	// ErrEmptyName is returned when a database, table or column is constructed without a name.
	ErrEmptyName = errors.New("name is not defined")
	// ErrDuplicateName is returned when two entities of one parent share a case-insensitive name.
	ErrDuplicateName = errors.New("name is already defined")
	// ErrTableHasNoColumn is returned when CREATE TABLE is requested for a table without columns.
	ErrTableHasNoColumn = errors.New("table has no column")
	// ErrColumnHasNoTable is returned when a statement is requested for a column not added to a table.
	ErrColumnHasNoTable = errors.New("column is not attached to a table")
)
