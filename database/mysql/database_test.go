package mysql

import (
	"testing"

	"github.com/sqldef/jsondef/database"
	"github.com/stretchr/testify/assert"
)

func TestSplitColumnType(t *testing.T) {
	tests := []struct {
		columnType string
		typeName   string
		length     string
	}{
		{"int(11)", "int", "11"},
		{"VARCHAR(255)", "varchar", "255"},
		{"tinyint(1)", "tinyint", "1"},
		{"int", "int", ""},
		{"int(10) unsigned", "int(10) unsigned", ""},
		{"decimal(10,2)", "decimal(10,2)", ""},
		{"enum('0','1')", "enum('0','1')", ""},
		{"text", "text", ""},
	}
	for _, tt := range tests {
		t.Run(tt.columnType, func(t *testing.T) {
			typeName, length := splitColumnType(tt.columnType)
			assert.Equal(t, tt.typeName, typeName)
			assert.Equal(t, tt.length, length)
		})
	}
}

func TestNormalizeExtra(t *testing.T) {
	assert.Equal(t, "auto_increment", normalizeExtra("auto_increment"))
	assert.Equal(t, "on update CURRENT_TIMESTAMP", normalizeExtra("DEFAULT_GENERATED on update CURRENT_TIMESTAMP"))
	assert.Equal(t, "", normalizeExtra("DEFAULT_GENERATED"))
}

func TestIndexKind(t *testing.T) {
	assert.Equal(t, "primary", indexKind("PRIMARY", 0, "BTREE"))
	assert.Equal(t, "unique", indexKind("uniq_email", 0, "BTREE"))
	assert.Equal(t, "fulltext", indexKind("ft_body", 1, "FULLTEXT"))
	assert.Equal(t, "index", indexKind("idx_email", 1, "BTREE"))
}

func TestBuildDSN(t *testing.T) {
	dsn := mysqlBuildDSN(database.Config{
		DbName:   "app",
		User:     "root",
		Password: "secret",
		Host:     "127.0.0.1",
		Port:     3306,
	})
	assert.Equal(t, "root:secret@tcp(127.0.0.1:3306)/app", dsn)

	dsn = mysqlBuildDSN(database.Config{
		DbName: "app",
		User:   "root",
		Socket: "/tmp/mysql.sock",
	})
	assert.Equal(t, "root@unix(/tmp/mysql.sock)/app", dsn)
}
