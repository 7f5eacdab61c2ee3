package file

import (
	"path/filepath"
	"testing"

	"github.com/sqldef/jsondef/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportDescription(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	testutil.WriteFile(path, `{"tables": {"users": {"columns": {"id": {"type": "int", "length": 11}}, "primary": "id"}}}`)

	db := NewDatabase(path)
	defer db.Close()

	desc, err := db.ExportDescription()
	require.NoError(t, err)
	assert.Equal(t, "app", desc.Name)
	require.Len(t, desc.Tables, 1)
	assert.Equal(t, "users", desc.Tables[0].Name)
	assert.Equal(t, []string{"id"}, desc.Tables[0].Primary)
}

func TestExportDescriptionKeepsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yml")
	testutil.WriteFile(path, testutil.StripHeredoc(`
		name: shop
		tables:
		  orders:
		    columns:
		      id: {type: bigint}
		`))

	desc, err := NewDatabase(path).ExportDescription()
	require.NoError(t, err)
	assert.Equal(t, "shop", desc.Name)
}

func TestExportDescriptionErrors(t *testing.T) {
	_, err := NewDatabase(filepath.Join(t.TempDir(), "missing.json")).ExportDescription()
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	testutil.WriteFile(path, `{"tables": {"users": {"columns": {"id": {}}}}}`)
	_, err = NewDatabase(path).ExportDescription()
	assert.Error(t, err)
}
