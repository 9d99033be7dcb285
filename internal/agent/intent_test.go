package agent

import (
	"testing"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeIntent(t *testing.T) {
	t.Run("navigate", func(t *testing.T) {
		in, err := DecodeIntent(`{"type":"NAVIGATE","details":{"route":"/ledger"}}`)
		require.NoError(t, err)
		assert.Equal(t, domain.NavigateIntent{Route: "/ledger"}, in)
	})

	t.Run("add transaction with inferred fields", func(t *testing.T) {
		in, err := DecodeIntent(`{"type":"ADD_TRANSACTION","details":{"amount":20000,"type":"income","description":"General Income"}}`)
		require.NoError(t, err)

		add, ok := in.(domain.AddTransactionIntent)
		require.True(t, ok)
		assert.Equal(t, "20000", add.Transaction.Amount.String())
		assert.Equal(t, domain.TransactionIncome, add.Transaction.Type)
		assert.Equal(t, "General Income", add.Transaction.Description)
	})

	t.Run("add transaction with currency string", func(t *testing.T) {
		in, err := DecodeIntent(`{"type":"ADD_TRANSACTION","details":{"amount":"₹500","type":"expense","description":"Food","category":"Food"}}`)
		require.NoError(t, err)
		assert.Equal(t, "500", in.(domain.AddTransactionIntent).Transaction.Amount.String())
	})

	t.Run("add transaction with exponent amount", func(t *testing.T) {
		in, err := DecodeIntent(`{"type":"ADD_TRANSACTION","details":{"amount":2e4,"type":"income","description":"Salary"}}`)
		require.NoError(t, err)
		assert.Equal(t, "20000", in.(domain.AddTransactionIntent).Transaction.Amount.String())
	})

	t.Run("add transaction with rupee suffix", func(t *testing.T) {
		in, err := DecodeIntent(`{"type":"ADD_TRANSACTION","details":{"amount":"₹20,000/-","type":"expense","description":"Rent"}}`)
		require.NoError(t, err)
		assert.Equal(t, "20000", in.(domain.AddTransactionIntent).Transaction.Amount.String())
	})

	t.Run("query lower-cases table", func(t *testing.T) {
		in, err := DecodeIntent(`{"type":"QUERY_DB","details":{"table":" Ledger ","query":"recent"}}`)
		require.NoError(t, err)
		assert.Equal(t, domain.QueryIntent{Table: "ledger", Query: "recent"}, in)
	})

	t.Run("answer without details", func(t *testing.T) {
		in, err := DecodeIntent(`{"type":"ANSWER"}`)
		require.NoError(t, err)
		assert.Equal(t, domain.AnswerIntent{}, in)
	})

	t.Run("fenced json", func(t *testing.T) {
		in, err := DecodeIntent("```json\n{\"type\":\"ANSWER\",\"details\":{}}\n```")
		require.NoError(t, err)
		assert.Equal(t, domain.IntentAnswer, in.Type())
	})
}

func TestDecodeIntent_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":                  `Sure! Navigating now.`,
		"unknown tag":               `{"type":"DELETE_DB","details":{}}`,
		"missing tag":               `{"details":{"route":"/ledger"}}`,
		"navigate no route":         `{"type":"NAVIGATE","details":{}}`,
		"navigate bad route":        `{"type":"NAVIGATE","details":{"route":"ledger"}}`,
		"transaction no amount":     `{"type":"ADD_TRANSACTION","details":{"type":"income","description":"x"}}`,
		"transaction amount suffix": `{"type":"ADD_TRANSACTION","details":{"amount":"20k","type":"income","description":"x"}}`,
		"transaction bad type":      `{"type":"ADD_TRANSACTION","details":{"amount":1,"type":"gift","description":"x"}}`,
		"transaction no desc":       `{"type":"ADD_TRANSACTION","details":{"amount":1,"type":"income"}}`,
		"query no table":            `{"type":"QUERY_DB","details":{"query":"x"}}`,
		"details wrong shape":       `{"type":"NAVIGATE","details":"/ledger"}`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeIntent(content)
			assert.ErrorIs(t, err, ErrMalformedIntent)
		})
	}
}
