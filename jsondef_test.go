package jsondef_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sqldef/jsondef"
	"github.com/sqldef/jsondef/database"
	"github.com/sqldef/jsondef/database/file"
	"github.com/sqldef/jsondef/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const currentSchema = `{
  "collate": "utf8mb4_general_ci",
  "tables": {
    "users": {
      "columns": {
        "id": {"type": "int", "length": 11, "extra": "auto_increment"},
        "email": {"type": "varchar", "length": 100}
      },
      "primary": "id",
      "uniques": [{"name": "uniq_email", "columns": ["email"]}]
    }
  }
}`

func writeSchema(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	testutil.WriteFile(path, content)
	return path
}

func run(t *testing.T, current string, desired string, options jsondef.Options) string {
	t.Helper()
	var out bytes.Buffer
	options.Logger = database.WriterLogger{W: &out}
	options.DesiredFile = writeSchema(t, "desired.json", desired)

	err := jsondef.Run(file.NewDatabase(writeSchema(t, "app.json", current)), &options)
	require.NoError(t, err)
	return out.String()
}

func TestRunNothingModified(t *testing.T) {
	out := run(t, currentSchema, currentSchema, jsondef.Options{})
	assert.Equal(t, "-- Nothing is modified --\n", out)
}

func TestRunPrintsStatements(t *testing.T) {
	desired := `{
  "collate": "utf8mb4_bin",
  "tables": {
    "users": {
      "columns": {
        "id": {"type": "int", "length": 11, "extra": "auto_increment"},
        "email": {"type": "varchar", "length": 255}
      },
      "primary": "id",
      "uniques": [{"name": "uniq_email", "columns": ["email"]}]
    }
  }
}`
	out := run(t, currentSchema, desired, jsondef.Options{
		Config: database.GeneratorConfig{CheckCollate: true},
	})
	assert.Equal(t, testutil.StripHeredoc(`
		ALTER DATABASE `+"`app`"+` COLLATE=utf8mb4_bin;
		ALTER TABLE `+"`users`"+` DROP INDEX `+"`uniq_email`"+`;
		ALTER TABLE `+"`users`"+` CHANGE COLUMN `+"`email` `email`"+` varchar(255) NOT NULL ;
		ALTER TABLE `+"`users`"+` ADD UNIQUE INDEX `+"`uniq_email` (`email`)"+`;
		`), out)
}

func TestRunExport(t *testing.T) {
	var out bytes.Buffer
	err := jsondef.Run(file.NewDatabase(writeSchema(t, "app.json", currentSchema)), &jsondef.Options{
		Export: true,
		Logger: database.WriterLogger{W: &out},
	})
	require.NoError(t, err)

	exported, err := database.ParseDescription(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "app", exported.Name)
	require.Len(t, exported.Tables, 1)
	assert.Equal(t, "users", exported.Tables[0].Name)

	// Exported schema is a valid desired schema.
	assert.Equal(t, "-- Nothing is modified --\n", run(t, currentSchema, out.String(), jsondef.Options{}))
}

func TestRunErrors(t *testing.T) {
	err := jsondef.Run(file.NewDatabase(writeSchema(t, "app.json", currentSchema)), &jsondef.Options{
		DesiredFile: filepath.Join(t.TempDir(), "missing.json"),
		Logger:      database.NullLogger{},
	})
	assert.Error(t, err)

	err = jsondef.Run(file.NewDatabase(writeSchema(t, "app.json", currentSchema)), &jsondef.Options{
		DesiredFile: writeSchema(t, "desired.json", `{"tables": {"users": {"columns": {"id": {"type": "int"}, "ID": {"type": "int"}}}}}`),
		Logger:      database.NullLogger{},
	})
	assert.ErrorContains(t, err, "desired schema: column 'users.ID': name is already defined")
}

func TestParseFiles(t *testing.T) {
	desired, current, err := jsondef.ParseFiles([]string{"desired.json"})
	require.NoError(t, err)
	assert.Equal(t, "desired.json", desired)
	assert.Equal(t, "", current)

	desired, current, err = jsondef.ParseFiles([]string{"current.json", "desired.json"})
	require.NoError(t, err)
	assert.Equal(t, "desired.json", desired)
	assert.Equal(t, "current.json", current)

	_, _, err = jsondef.ParseFiles([]string{"a", "b", "c"})
	assert.Error(t, err)
}
