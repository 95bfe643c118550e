package gemini

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtraction(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantAmount   *float64
		wantDate     *string
		wantMerchant *string
		wantCategory string
		wantItems    []string
		wantErr      bool
	}{
		{
			name:         "json surrounded by prose",
			text:         `Here is the data: {"amount": 42.5, "date": "2024-01-15", "merchant": "Cafe X", "category": "food", "items": ["Coffee","Bagel"]} hope that helps!`,
			wantAmount:   f64(42.5),
			wantDate:     str("2024-01-15"),
			wantMerchant: str("Cafe X"),
			wantCategory: "food",
			wantItems:    []string{"Coffee", "Bagel"},
		},
		{
			name: "json inside markdown fences",
			text: "```json\n{\"amount\": \"18.90\", \"date\": \"2023-11-02\", \"merchant\": \"Metro Mart\", \"category\": \"food\", \"items\": []}\n```",
			wantAmount:   f64(18.90),
			wantDate:     str("2023-11-02"),
			wantMerchant: str("Metro Mart"),
			wantCategory: "food",
			wantItems:    []string{},
		},
		{
			name:         "string amount is coerced to a number",
			text:         `{"amount": "99", "merchant": "Quick Stop", "category": "other", "items": ["Soda"]}`,
			wantAmount:   f64(99),
			wantMerchant: str("Quick Stop"),
			wantCategory: "other",
			wantItems:    []string{"Soda"},
		},
		{
			name:         "missing fields fall back to nulls and defaults",
			text:         `{"merchant": "Corner Shop"}`,
			wantMerchant: str("Corner Shop"),
			wantCategory: "other",
			wantItems:    []string{},
		},
		{
			name:         "unrecognized category normalizes to other",
			text:         `{"amount": 12, "merchant": "Gadget Hub", "category": "electronics", "items": ["Cable"]}`,
			wantAmount:   f64(12),
			wantMerchant: str("Gadget Hub"),
			wantCategory: "other",
			wantItems:    []string{"Cable"},
		},
		{
			name:         "non-array items coerce to an empty list",
			text:         `{"amount": 30, "merchant": "Deli", "category": "food", "items": "sandwich"}`,
			wantAmount:   f64(30),
			wantMerchant: str("Deli"),
			wantCategory: "food",
			wantItems:    []string{},
		},
		{
			name:         "unparseable amount becomes null",
			text:         `{"amount": "around forty", "merchant": "Deli", "category": "food", "items": []}`,
			wantMerchant: str("Deli"),
			wantCategory: "food",
			wantItems:    []string{},
		},
		{
			name:    "no json object in text",
			text:    "I could not read this receipt, sorry.",
			wantErr: true,
		},
		{
			name:    "malformed json",
			text:    `{"amount": 42.5, "merchant": }`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExtraction(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				var provErr *ProviderError
				assert.True(t, errors.As(err, &provErr))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, got.Amount)
			assert.Equal(t, tt.wantDate, got.Date)
			assert.Equal(t, tt.wantMerchant, got.Merchant)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantItems, got.Items)
			assert.NotNil(t, got.Items)
		})
	}
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }
