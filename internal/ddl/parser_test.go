package ddl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"daogen/internal/core"
)

func mustParse(t *testing.T, sql string) *core.Schema {
	t.Helper()
	schema, err := NewParser().Parse(sql)
	require.NoError(t, err)
	return schema
}

func TestParseBasicTable(t *testing.T) {
	schema := mustParse(t, `
		CREATE TABLE users (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			email VARCHAR(255) NOT NULL,
			nickname VARCHAR(64) NULL,
			status ENUM('active', 'suspended') NOT NULL DEFAULT 'active',
			created_at DATETIME NOT NULL,
			PRIMARY KEY (id),
			UNIQUE KEY uq_users_email (email)
		);
	`)

	require.Len(t, schema.Tables, 1)
	table := schema.Tables[0]
	require.Equal(t, "users", table.Name)
	require.Equal(t, []string{"id"}, table.PrimaryKey)

	id := table.FindColumn("id")
	require.NotNil(t, id)
	require.IsType(t, core.BigInt{}, id.SQLType)
	require.True(t, id.AutoIncrement)

	status := table.FindColumn("status")
	require.NotNil(t, status)
	enum, ok := status.SQLType.(core.Enum)
	require.True(t, ok)
	require.Equal(t, []string{"active", "suspended"}, enum.Variants)
	require.True(t, status.HasDefault)

	nickname := table.FindColumn("nickname")
	require.NotNil(t, nickname)
	require.True(t, nickname.Nullable)

	require.Len(t, table.UniqueIndexes, 1)
	require.Equal(t, []string{"email"}, table.UniqueIndexes[0].Columns)
}

func TestParseForeignKeyAndIndexes(t *testing.T) {
	schema := mustParse(t, `
		CREATE TABLE posts (
			id BIGINT NOT NULL AUTO_INCREMENT,
			user_id BIGINT NOT NULL,
			title VARCHAR(128) NOT NULL,
			PRIMARY KEY (id),
			KEY idx_posts_title (title),
			CONSTRAINT fk_posts_user FOREIGN KEY (user_id) REFERENCES users (id)
		);
	`)

	table := schema.Tables[0]
	require.Len(t, table.ForeignKeys, 1)
	fk := table.ForeignKeys[0]
	require.Equal(t, "users", fk.RefTable)
	require.Equal(t, []string{"id"}, fk.RefColumns)

	require.Len(t, table.NonUniqueIndexes, 1)
	require.Equal(t, "idx_posts_title", table.NonUniqueIndexes[0].Name)
}

func TestParseIgnoresNonCreateTableStatements(t *testing.T) {
	schema := mustParse(t, `
		CREATE DATABASE app;
		USE app;
		CREATE TABLE widgets (id INT NOT NULL, PRIMARY KEY (id));
	`)
	require.Len(t, schema.Tables, 1)
	require.Equal(t, "widgets", schema.Tables[0].Name)
}

func TestParseRejectsSyntaxError(t *testing.T) {
	_, err := NewParser().Parse("CREATE TABLE (( not sql")
	require.Error(t, err)
}

func TestParseRejectsTableWithNoColumns(t *testing.T) {
	_, err := NewParser().Parse("CREATE TABLE empty_table ();")
	require.Error(t, err)
}

func TestParseRejectsDuplicateColumnNames(t *testing.T) {
	_, err := NewParser().Parse(`
		CREATE TABLE dupes (
			id INT NOT NULL,
			id INT NOT NULL
		);
	`)
	require.Error(t, err)
}

func TestParseRejectsDuplicateTableNames(t *testing.T) {
	_, err := NewParser().Parse(`
		CREATE TABLE widgets (id INT NOT NULL);
		CREATE TABLE widgets (id INT NOT NULL);
	`)
	require.Error(t, err)
}

func TestParseRejectsNoCreateTableStatements(t *testing.T) {
	_, err := NewParser().Parse("CREATE DATABASE app;")
	require.Error(t, err)
}

func TestParseAcceptsSetDowngradedLater(t *testing.T) {
	schema := mustParse(t, `
		CREATE TABLE flags (
			id INT NOT NULL,
			perms SET('read', 'write', 'admin') NOT NULL,
			PRIMARY KEY (id)
		);
	`)
	perms := schema.Tables[0].FindColumn("perms")
	require.IsType(t, core.Set{}, perms.SQLType)
}
