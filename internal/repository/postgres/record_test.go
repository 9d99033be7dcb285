package postgres

import (
	"testing"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelect_Ledger(t *testing.T) {
	query, args, err := buildSelect(domain.TableQuery{
		Table:      "ledger",
		Filters:    []domain.Filter{{Column: "user_id", Value: "u1"}},
		OrderBy:    "date",
		Descending: true,
		Limit:      5,
	})
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "ledger" WHERE "user_id" = $1 ORDER BY "date" DESC LIMIT $2`, query)
	assert.Equal(t, []any{"u1", 5}, args)
}

func TestBuildSelect_Unfiltered(t *testing.T) {
	query, args, err := buildSelect(domain.TableQuery{Table: "schemes", Limit: 50})
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "schemes" LIMIT $1`, query)
	assert.Equal(t, []any{50}, args)
}

func TestBuildSelect_RejectsBadIdentifiers(t *testing.T) {
	_, _, err := buildSelect(domain.TableQuery{Table: `ledger"; DROP TABLE chats; --`})
	assert.Error(t, err)
}

func TestNormalizeValue(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id.String(), normalizeValue([16]byte(id)))
	assert.Equal(t, "x", normalizeValue("x"))
}
