package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescriptionJSON(t *testing.T) {
	desc, err := ParseDescription([]byte(`{
	  "collate": "utf8mb4_general_ci",
	  "tables": {
	    "users": {
	      "engine": "InnoDB",
	      "columns": {
	        "id": {"type": "INT", "length": 11, "extra": "auto_increment"},
	        "name": {"type": "varchar", "length": "255", "nullable": true, "defaultValue": null},
	        "active": {"type": "tinyint", "length": 1, "defaultValue": "1"}
	      },
	      "indexes": [{"columns": ["name"]}],
	      "uniques": [{"name": "uniq_name", "columns": ["name", "active"]}],
	      "primary": ["id"]
	    },
	    "activite": {
	      "columns": {"id": {"type": "int"}},
	      "primary": "id"
	    }
	  }
	}`))
	require.NoError(t, err)

	assert.Equal(t, "utf8mb4_general_ci", desc.Collate)
	require.Len(t, desc.Tables, 2)
	assert.Equal(t, "users", desc.Tables[0].Name)
	assert.Equal(t, "activite", desc.Tables[1].Name)

	users := desc.Tables[0]
	assert.Equal(t, "InnoDB", users.Engine)
	require.Len(t, users.Columns, 3)
	assert.Equal(t, ColumnDescription{Name: "id", Type: "INT", Length: "11", Extra: "auto_increment"}, users.Columns[0])
	assert.Equal(t, "name", users.Columns[1].Name)
	assert.True(t, users.Columns[1].Nullable)
	assert.Nil(t, users.Columns[1].DefaultValue)
	require.NotNil(t, users.Columns[2].DefaultValue)
	assert.Equal(t, "1", *users.Columns[2].DefaultValue)
	assert.Equal(t, []IndexDescription{{Columns: []string{"name"}}}, users.Indexes)
	assert.Equal(t, []IndexDescription{{Name: "uniq_name", Columns: []string{"name", "active"}}}, users.Uniques)
	assert.Equal(t, []string{"id"}, users.Primary)

	assert.Equal(t, []string{"id"}, desc.Tables[1].Primary)
}

func TestParseDescriptionYAML(t *testing.T) {
	desc, err := ParseDescription([]byte(`
name: app
tables:
  posts:
    collate: utf8mb4_bin
    columns:
      title:
        type: text
        collate: utf8mb4_bin
      body:
        type: text
        nullable: true
    fulltexts:
      - columns: [title, body]
`))
	require.NoError(t, err)

	assert.Equal(t, "app", desc.Name)
	require.Len(t, desc.Tables, 1)
	posts := desc.Tables[0]
	assert.Equal(t, "utf8mb4_bin", posts.Collate)
	assert.Equal(t, []string{"title", "body"}, []string{posts.Columns[0].Name, posts.Columns[1].Name})
	assert.Equal(t, "utf8mb4_bin", posts.Columns[0].Collate)
	assert.Equal(t, []IndexDescription{{Columns: []string{"title", "body"}}}, posts.Fulltexts)
}

func TestParseDescriptionEmpty(t *testing.T) {
	desc, err := ParseDescription(nil)
	require.NoError(t, err)
	assert.Empty(t, desc.Tables)
}

func TestParseDescriptionErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing type", doc: `{"tables": {"users": {"columns": {"id": {"length": 11}}}}}`},
		{name: "unknown column key", doc: `{"tables": {"users": {"columns": {"id": {"type": "int", "size": 11}}}}}`},
		{name: "unknown table key", doc: `{"tables": {"users": {"columns": {"id": {"type": "int"}}, "triggers": []}}}`},
		{name: "index without columns", doc: `{"tables": {"users": {"columns": {"id": {"type": "int"}}, "indexes": [{"name": "idx"}]}}}`},
		{name: "broken syntax", doc: `{"tables": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescription([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestMarshalDescription(t *testing.T) {
	defaultValue := ""
	desc := &Description{
		Name: "app",
		Tables: []TableDescription{
			{
				Name:   "users",
				Engine: "InnoDB",
				Columns: []ColumnDescription{
					{Name: "id", Type: "int", Length: "11", Extra: "auto_increment"},
					{Name: "email", Type: "varchar", Length: "255", DefaultValue: &defaultValue},
				},
				Uniques: []IndexDescription{{Name: "email", Columns: []string{"email"}}},
				Primary: []string{"id"},
			},
		},
	}

	buf, err := MarshalDescription(desc)
	require.NoError(t, err)

	parsed, err := ParseDescription(buf)
	require.NoError(t, err)
	assert.Equal(t, desc, parsed)
}
