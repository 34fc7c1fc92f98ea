package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatementsKeepsStatementAfterCommentHeader(t *testing.T) {
	sql := `-- schema for the site tracking service.
-- constraints catch concurrent writers.

CREATE TABLE IF NOT EXISTS sites (
    site_id VARCHAR(128) PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS production_lines (
    line_id UUID PRIMARY KEY,
    site_id VARCHAR(128) NOT NULL REFERENCES sites(site_id)
);
`

	statements := splitStatements(sql)
	require.Len(t, statements, 2)
	assert.Contains(t, statements[0], "CREATE TABLE IF NOT EXISTS sites")
	assert.Contains(t, statements[1], "CREATE TABLE IF NOT EXISTS production_lines")
}

func TestSplitStatementsDropsCommentOnlyAndEmptyChunks(t *testing.T) {
	sql := "-- nothing but comments;\n;\n  \nSELECT 1;"

	statements := splitStatements(sql)
	require.Len(t, statements, 1)
	assert.Equal(t, "SELECT 1", statements[0])
}

func TestSplitStatementsCoversRepoSchema(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)

	statements := splitStatements(string(content))
	// 6 tables and 3 indexes
	require.Len(t, statements, 9)
	assert.Contains(t, statements[0], "CREATE TABLE IF NOT EXISTS sites")
}
