package agent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ErrMalformedIntent is returned when the classifier output does not match
// any intent shape
var ErrMalformedIntent = errors.New("malformed intent")

var validate = validator.New()

type rawIntent struct {
	Type    domain.IntentType `json:"type"`
	Details json.RawMessage   `json:"details"`
}

// DecodeIntent parses a classifier JSON object into one of the intent variants.
// Unknown tags and payloads that fail validation are rejected.
func DecodeIntent(content string) (domain.Intent, error) {
	var raw rawIntent
	if err := json.Unmarshal([]byte(extractJSON(content)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedIntent, err)
	}

	switch raw.Type {
	case domain.IntentNavigate:
		var in domain.NavigateIntent
		if err := decodeDetails(raw.Details, &in); err != nil {
			return nil, err
		}
		return in, nil

	case domain.IntentAddTransaction:
		var tx domain.Transaction
		if err := decodeDetails(raw.Details, &tx); err != nil {
			return nil, err
		}
		if tx.Amount.IsZero() {
			return nil, fmt.Errorf("%w: transaction amount is required", ErrMalformedIntent)
		}
		return domain.AddTransactionIntent{Transaction: tx}, nil

	case domain.IntentQueryDB:
		var in domain.QueryIntent
		if err := decodeDetails(raw.Details, &in); err != nil {
			return nil, err
		}
		in.Table = strings.ToLower(strings.TrimSpace(in.Table))
		return in, nil

	case domain.IntentAnswer:
		return domain.AnswerIntent{}, nil

	default:
		return nil, fmt.Errorf("%w: unknown intent type %q", ErrMalformedIntent, raw.Type)
	}
}

func decodeDetails(details json.RawMessage, dst any) error {
	if len(details) == 0 || bytes.Equal(details, []byte("null")) {
		details = []byte("{}")
	}
	if err := json.Unmarshal(details, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedIntent, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedIntent, err)
	}
	return nil
}

// extractJSON strips markdown code fences some providers wrap JSON in
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	if end := strings.LastIndex(content, "```"); end >= 0 {
		content = content[:end]
	}
	return strings.TrimSpace(content)
}
