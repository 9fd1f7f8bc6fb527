package repository

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schemaStatementFor(t *testing.T, table string) string {
	t.Helper()
	for _, stmt := range Schema {
		if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS "+table+" ") {
			return stmt
		}
	}
	t.Fatalf("no CREATE TABLE statement for %s in Schema", table)
	return ""
}

// The repository SQL and the migration DDL live in different files; this
// keeps the board queries honest against the columns the DDL actually
// creates.
func TestBoardQueriesMatchSchema(t *testing.T) {
	ddl := schemaStatementFor(t, "board_posts")

	insertCols := regexp.MustCompile(`INSERT INTO board_posts \(([^)]+)\)`).FindStringSubmatch(boardPostInsert)
	require.Len(t, insertCols, 2)
	for _, col := range strings.Split(insertCols[1], ",") {
		col = strings.TrimSpace(col)
		assert.Contains(t, ddl, col, "insert column %q missing from board_posts DDL", col)
	}

	for _, match := range regexp.MustCompile(`\bb\.(\w+)`).FindAllStringSubmatch(boardPostSelect, -1) {
		assert.Contains(t, ddl, match[1], "select column %q missing from board_posts DDL", match[1])
	}

	// The bug this guards against: the Go-side enum is "type" but the
	// column is post_type.
	assert.Contains(t, boardPostInsert, "post_type")
	assert.Contains(t, boardPostSelect, "post_type")
}

func TestSchemaCarriesVotingConstraints(t *testing.T) {
	ddl := schemaStatementFor(t, "votes")

	assert.Contains(t, ddl, "UNIQUE (voter_id, vote_date)")
	assert.Contains(t, ddl, "CHECK (voter_id <> candidate_id)")
}
