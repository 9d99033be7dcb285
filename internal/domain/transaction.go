package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger entry
type TransactionType string

const (
	TransactionCredit  TransactionType = "credit"
	TransactionDebit   TransactionType = "debit"
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is a proposed ledger entry. The client inserts it; the
// backend never writes ledger rows itself.
type Transaction struct {
	Amount        Amount          `json:"amount"`
	Type          TransactionType `json:"type" validate:"required,oneof=credit debit income expense"`
	Description   string          `json:"description" validate:"required"`
	Category      string          `json:"category,omitempty"`
	PaymentMode   string          `json:"payment_mode,omitempty"`
	IsDigital     *bool           `json:"is_digital,omitempty"`
	CustomerGSTIN string          `json:"customer_gstin,omitempty"`
	Date          string          `json:"date,omitempty"`
}

// Amount is a monetary value. It decodes from JSON numbers as well as from
// strings carrying currency symbols ("₹1,200", "Rs. 500", "$20") and always
// encodes as a bare JSON number.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps an integer amount
func NewAmount(v int64) Amount {
	return Amount{decimal.NewFromInt(v)}
}

// ParseAmount parses a possibly currency-formatted amount. Currency
// prefixes and symbols, grouping commas and a trailing "/-" are removed;
// anything else that is not part of a plain decimal is rejected.
func ParseAmount(s string) (Amount, error) {
	cleaned := stripCurrency(s)
	if cleaned == "" {
		return Amount{}, fmt.Errorf("invalid amount %q", s)
	}
	for _, r := range cleaned {
		if !unicode.IsDigit(r) && r != '.' && r != '-' && r != '+' {
			return Amount{}, fmt.Errorf("invalid amount %q: unexpected %q", s, r)
		}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{d}, nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		return fmt.Errorf("amount is required")
	}

	if !strings.HasPrefix(raw, `"`) {
		// A bare JSON number, exponent form included
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid amount %s: %w", raw, err)
		}
		*a = Amount{d}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

var (
	currencyPrefixes = []string{"rs.", "rs", "inr", "usd"}
	currencySymbols  = []string{"₹", "$", "€", "£"}
)

func stripCurrency(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "/-"))

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", strings.TrimSpace(s[1:])
	}

	lower := strings.ToLower(s)
	for _, p := range currencyPrefixes {
		if strings.HasPrefix(lower, p) {
			s = s[len(p):]
			break
		}
	}
	for _, sym := range currencySymbols {
		s = strings.TrimPrefix(strings.TrimSpace(s), sym)
		s = strings.TrimSuffix(strings.TrimSpace(s), sym)
	}

	s = strings.ReplaceAll(s, ",", "")
	return sign + strings.TrimSpace(s)
}
