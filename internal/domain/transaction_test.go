package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "20000", want: "20000"},
		{in: "₹1,200", want: "1200"},
		{in: "Rs. 500", want: "500"},
		{in: "rs 99.50", want: "99.5"},
		{in: "$20", want: "20"},
		{in: "INR 750", want: "750"},
		{in: "-45", want: "-45"},
		{in: "₹20,000/-", want: "20000"},
		{in: "Rs. 1,50,000", want: "150000"},
		{in: "-₹45", want: "-45"},
		{in: "20 €", want: "20"},
		{in: "20k", wantErr: true},
		{in: "2e4", wantErr: true},
		{in: "₹", wantErr: true},
		{in: "lots", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTransaction_JSON(t *testing.T) {
	var tx Transaction
	err := json.Unmarshal([]byte(`{"amount":"₹20,000","type":"income","description":"General Income"}`), &tx)
	require.NoError(t, err)

	assert.True(t, tx.Amount.Equal(NewAmount(20000).Decimal))
	assert.Equal(t, TransactionIncome, tx.Type)

	out, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":20000,"type":"income","description":"General Income"}`, string(out))
}

func TestAmount_UnmarshalNumber(t *testing.T) {
	var tx struct {
		Amount Amount `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount":2e4}`), &tx))
	assert.Equal(t, "20000", tx.Amount.String())

	require.NoError(t, json.Unmarshal([]byte(`{"amount":1.25E2}`), &tx))
	assert.Equal(t, "125", tx.Amount.String())

	assert.Error(t, json.Unmarshal([]byte(`{"amount":"20k"}`), &tx))
}

func TestAmount_RejectsNull(t *testing.T) {
	var tx Transaction
	err := json.Unmarshal([]byte(`{"amount":null,"type":"income","description":"x"}`), &tx)
	assert.Error(t, err)
}

func TestChatTitle(t *testing.T) {
	assert.Equal(t, "earned 20000...", ChatTitle("earned 20000"))
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyz0123...", ChatTitle("abcdefghijklmnopqrstuvwxyz0123456789"))
	// Multi-byte characters are never split
	assert.Equal(t, "₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹...", ChatTitle("₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹₹"))
}

func TestTableQuery_Validate(t *testing.T) {
	ok := TableQuery{Table: "ledger", Filters: []Filter{{Column: "user_id", Value: "u1"}}, OrderBy: "date", Limit: 5}
	assert.NoError(t, ok.Validate())

	bad := []TableQuery{
		{Table: "ledger; drop table chats"},
		{Table: "ledger", Filters: []Filter{{Column: "user_id = 1 or 1"}}},
		{Table: "ledger", OrderBy: "date desc"},
		{Table: "ledger", Limit: -1},
	}
	for _, q := range bad {
		assert.Error(t, q.Validate())
	}
}
