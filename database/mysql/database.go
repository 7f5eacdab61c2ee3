package mysql

import (
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	driver "github.com/go-sql-driver/mysql"
	"github.com/sqldef/jsondef/database"
)

// Types whose display width is exported as a separate length.
var lengthColumnTypeRegexp = regexp.MustCompile(`^(int|mediumint|tinyint|smallint|binary|varchar|bigint|char|float)\((\d+)\)$`)

type MysqlDatabase struct {
	config database.Config
	db     *sql.DB
}

func NewDatabase(config database.Config) (*MysqlDatabase, error) {
	if config.SslMode == "custom" {
		err := registerTLSConfig(config.SslCa)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("mysql", mysqlBuildDSN(config))
	if err != nil {
		return nil, err
	}

	return &MysqlDatabase{
		db:     db,
		config: config,
	}, nil
}

// ExportDescription reads the schema of the configured database from information_schema.
func (d *MysqlDatabase) ExportDescription() (*database.Description, error) {
	desc := &database.Description{Name: d.config.DbName}

	collate, err := d.databaseCollation()
	if err != nil {
		return nil, err
	}
	desc.Collate = collate

	tables, err := d.tables()
	if err != nil {
		return nil, err
	}
	tables, err = database.ConcurrentMapFuncWithError(
		tables,
		d.config.DumpConcurrency,
		func(table database.TableDescription) (database.TableDescription, error) {
			return d.exportTable(table)
		})
	if err != nil {
		return nil, err
	}
	desc.Tables = tables

	return desc, nil
}

func (d *MysqlDatabase) databaseCollation() (string, error) {
	var collate string
	err := d.db.QueryRow(`
		SELECT DEFAULT_COLLATION_NAME
		FROM information_schema.SCHEMATA
		WHERE SCHEMA_NAME = ?
	`, d.config.DbName).Scan(&collate)
	if err != nil {
		return "", fmt.Errorf("failed to read the collation of database '%s': %w", d.config.DbName, err)
	}
	return collate, nil
}

func (d *MysqlDatabase) tables() ([]database.TableDescription, error) {
	rows, err := d.db.Query(`
		SELECT TABLE_NAME, ENGINE, TABLE_COLLATION
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME
	`, d.config.DbName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []database.TableDescription
	for rows.Next() {
		var name string
		var engine, collate sql.NullString
		if err := rows.Scan(&name, &engine, &collate); err != nil {
			return nil, err
		}
		tables = append(tables, database.TableDescription{
			Name:    name,
			Engine:  engine.String,
			Collate: collate.String,
		})
	}
	return tables, rows.Err()
}

func (d *MysqlDatabase) exportTable(table database.TableDescription) (database.TableDescription, error) {
	slog.Debug("Exporting table", "table", table.Name)

	columns, err := d.columns(table.Name)
	if err != nil {
		return table, fmt.Errorf("failed to export columns of '%s': %w", table.Name, err)
	}
	table.Columns = columns

	if err := d.exportIndexes(&table); err != nil {
		return table, fmt.Errorf("failed to export indexes of '%s': %w", table.Name, err)
	}
	return table, nil
}

func (d *MysqlDatabase) columns(table string) ([]database.ColumnDescription, error) {
	rows, err := d.db.Query(`
		SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT, EXTRA, COLLATION_NAME
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`, d.config.DbName, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []database.ColumnDescription
	for rows.Next() {
		var name, columnType, nullable, extra string
		var defaultValue, collate sql.NullString
		if err := rows.Scan(&name, &columnType, &nullable, &defaultValue, &extra, &collate); err != nil {
			return nil, err
		}

		typeName, length := splitColumnType(columnType)
		column := database.ColumnDescription{
			Name:     name,
			Type:     typeName,
			Length:   length,
			Nullable: nullable == "YES",
			Extra:    normalizeExtra(extra),
			Collate:  collate.String,
		}
		if defaultValue.Valid {
			column.DefaultValue = &defaultValue.String
		}
		columns = append(columns, column)
	}
	return columns, rows.Err()
}

// exportIndexes groups the rows of STATISTICS into primary key, unique, fulltext and plain indexes.
func (d *MysqlDatabase) exportIndexes(table *database.TableDescription) error {
	rows, err := d.db.Query(`
		SELECT INDEX_NAME, COLUMN_NAME, NON_UNIQUE, INDEX_TYPE
		FROM information_schema.STATISTICS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY INDEX_NAME, SEQ_IN_INDEX
	`, d.config.DbName, table.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	type indexRow struct {
		kind    string
		columns []string
	}
	var names []string
	indexes := map[string]*indexRow{}

	for rows.Next() {
		var name, indexType string
		var column sql.NullString // NULL for functional key parts
		var nonUnique int
		if err := rows.Scan(&name, &column, &nonUnique, &indexType); err != nil {
			return err
		}
		if !column.Valid {
			slog.Debug("Skipping an expression key part", "table", table.Name, "index", name)
			continue
		}

		index, ok := indexes[name]
		if !ok {
			index = &indexRow{kind: indexKind(name, nonUnique, indexType)}
			indexes[name] = index
			names = append(names, name)
		}
		index.columns = append(index.columns, column.String)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, name := range names {
		index := indexes[name]
		desc := database.IndexDescription{Name: name, Columns: index.columns}
		switch index.kind {
		case "primary":
			table.Primary = index.columns
		case "unique":
			table.Uniques = append(table.Uniques, desc)
		case "fulltext":
			table.Fulltexts = append(table.Fulltexts, desc)
		default:
			table.Indexes = append(table.Indexes, desc)
		}
	}
	return nil
}

func indexKind(name string, nonUnique int, indexType string) string {
	switch {
	case name == "PRIMARY":
		return "primary"
	case strings.EqualFold(indexType, "FULLTEXT"):
		return "fulltext"
	case nonUnique == 0:
		return "unique"
	default:
		return "index"
	}
}

// splitColumnType splits `int(11)` into `int` and `11`. Any other column type,
// such as `int(10) unsigned` or `enum('a','b')`, is returned as a whole.
func splitColumnType(columnType string) (string, string) {
	if matches := lengthColumnTypeRegexp.FindStringSubmatch(strings.ToLower(columnType)); matches != nil {
		return matches[1], matches[2]
	}
	return columnType, ""
}

// MySQL 8 marks expression defaults with DEFAULT_GENERATED, which cannot be written back.
func normalizeExtra(extra string) string {
	return strings.TrimSpace(strings.ReplaceAll(extra, "DEFAULT_GENERATED", ""))
}

func (d *MysqlDatabase) Close() error {
	return d.db.Close()
}

func mysqlBuildDSN(config database.Config) string {
	c := driver.NewConfig()
	c.User = config.User
	c.Passwd = config.Password
	c.DBName = config.DbName
	c.AllowCleartextPasswords = config.MySQLEnableCleartextPlugin
	c.TLSConfig = config.SslMode
	if config.Socket == "" {
		c.Net = "tcp"
		c.Addr = fmt.Sprintf("%s:%d", config.Host, config.Port)
	} else {
		c.Net = "unix"
		c.Addr = config.Socket
	}
	return c.FormatDSN()
}

func registerTLSConfig(pemPath string) error {
	rootCertPool := x509.NewCertPool()
	pem, err := os.ReadFile(pemPath)
	if err != nil {
		return err
	}

	if ok := rootCertPool.AppendCertsFromPEM(pem); !ok {
		return fmt.Errorf("failed to append PEM")
	}

	return driver.RegisterTLSConfig("custom", &tls.Config{
		RootCAs: rootCertPool,
	})
}
