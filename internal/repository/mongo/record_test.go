package mongo

import (
	"testing"
	"time"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildFind_Ledger(t *testing.T) {
	filter, opts, err := buildFind(domain.TableQuery{
		Table:      "ledger",
		Filters:    []domain.Filter{{Column: "user_id", Value: "u1"}},
		OrderBy:    "date",
		Descending: true,
		Limit:      5,
	})
	require.NoError(t, err)

	assert.Equal(t, bson.D{{Key: "user_id", Value: "u1"}}, filter)
	assert.Equal(t, bson.D{{Key: "date", Value: -1}}, opts.Sort)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(5), *opts.Limit)
}

func TestBuildFind_Invalid(t *testing.T) {
	_, _, err := buildFind(domain.TableQuery{Table: "$where"})
	assert.Error(t, err)
}

func TestNormalizeValue(t *testing.T) {
	oid := primitive.NewObjectID()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	got := normalizeValue(bson.M{
		"_id":  oid,
		"date": primitive.NewDateTimeFromTime(at),
		"tags": bson.A{"a", oid},
	})

	assert.Equal(t, map[string]any{
		"_id":  oid.Hex(),
		"date": at,
		"tags": []any{"a", oid.Hex()},
	}, got)
}

func TestToBSONValue_UsesJSONEncoding(t *testing.T) {
	v, err := toBSONValue(domain.Transaction{
		Amount:      domain.NewAmount(20000),
		Type:        domain.TransactionIncome,
		Description: "General Income",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"amount":      20000.0,
		"type":        "income",
		"description": "General Income",
	}, v)
}

func TestDatabaseFromURI(t *testing.T) {
	assert.Equal(t, "copilot", databaseFromURI("mongodb://user:pass@db:27017/copilot?authSource=admin"))
	assert.Equal(t, "", databaseFromURI("mongodb://db:27017"))
}
