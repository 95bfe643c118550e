package gemini

import (
	"encoding/json"
	"strconv"
	"strings"
)

// receiptCategories is the closed set the instruction prompt allows. Anything
// the model invents outside it is normalized to "other" here, at the
// boundary, so nothing downstream needs to re-check.
var receiptCategories = map[string]bool{
	"food":          true,
	"transport":     true,
	"utilities":     true,
	"entertainment": true,
	"healthcare":    true,
	"education":     true,
	"rent":          true,
	"other":         true,
}

type rawExtraction struct {
	Amount   any             `json:"amount"`
	Date     string          `json:"date"`
	Merchant string          `json:"merchant"`
	Category string          `json:"category"`
	Items    json.RawMessage `json:"items"`
}

// ParseExtraction locates the first brace-delimited JSON object inside the
// model's free-form reply and normalizes it. The provider is not guaranteed
// to return only JSON: prose or markdown fences around the object are
// expected and ignored.
func ParseExtraction(text string) (*Extraction, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &ProviderError{Message: "no valid JSON found in provider response"}
	}

	var raw rawExtraction
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, &ProviderError{Message: "failed to parse JSON from provider response"}
	}

	return normalize(&raw), nil
}

func normalize(raw *rawExtraction) *Extraction {
	ext := &Extraction{
		Category: "other",
		Items:    []string{},
	}

	if amount, ok := coerceAmount(raw.Amount); ok {
		ext.Amount = &amount
	}

	if raw.Date != "" {
		date := raw.Date
		ext.Date = &date
	}
	if raw.Merchant != "" {
		merchant := raw.Merchant
		ext.Merchant = &merchant
	}

	category := strings.ToLower(strings.TrimSpace(raw.Category))
	if receiptCategories[category] {
		ext.Category = category
	}

	if len(raw.Items) > 0 {
		var items []any
		if err := json.Unmarshal(raw.Items, &items); err == nil {
			for _, item := range items {
				if s, ok := item.(string); ok && s != "" {
					ext.Items = append(ext.Items, s)
				}
			}
		}
	}

	return ext
}

// coerceAmount accepts the amount as either a JSON number or a numeric
// string, which is how the model returns it in practice.
func coerceAmount(v any) (float64, bool) {
	switch amount := v.(type) {
	case float64:
		return amount, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
