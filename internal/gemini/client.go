package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"

	// placeholderKey is the template value from the setup docs; treating it
	// as unconfigured gives operators a clear 503 instead of provider 401s.
	placeholderKey = "your_gemini_api_key_here"

	requestTimeout = 60 * time.Second
)

// ErrNotConfigured is returned before any network call when no usable API
// key is present. Callers surface it as a distinct, operator-facing outcome.
var ErrNotConfigured = errors.New("gemini api key not configured")

// ProviderError covers everything that goes wrong while talking to the
// provider: transport failures, non-2xx statuses and malformed responses.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gemini api error: %d - %s", e.Status, e.Message)
	}
	return "gemini: " + e.Message
}

const extractionPrompt = `Analyze this receipt image and extract the following information in JSON format:
{
  "amount": "total amount in numbers only",
  "date": "transaction date in YYYY-MM-DD format",
  "merchant": "store/business name",
  "category": "one of: food, transport, utilities, entertainment, healthcare, education, rent, other",
  "items": ["list of purchased items"]
}
Focus on:
- Total amount (look for TOTAL, GRAND TOTAL, AMOUNT)
- Date (look for date patterns)
- Store name (usually at top or bottom)
- Items purchased (individual line items with prices)
- Categorize based on store type or items
Return only valid JSON, no other text.`

// Extraction is the normalized result of a receipt extraction call. Nil
// pointer fields mean the model could not find the value; Category is always
// a member of the receipt category set and Items is never nil.
type Extraction struct {
	Amount   *float64 `json:"amount"`
	Date     *string  `json:"date"`
	Merchant *string  `json:"merchant"`
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

// WithBaseURL points the client at a different endpoint, used by tests to
// target an httptest server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(apiKey string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a usable API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.apiKey != placeholderKey
}

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// ExtractReceipt sends a single multimodal request to the provider and
// normalizes the embedded JSON in its textual reply. There is no retry: one
// upload means one provider call, and failures surface to the caller.
func (c *Client) ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*Extraction, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	reqBody := generateRequest{
		Contents: []requestContent{
			{
				Parts: []requestPart{
					{Text: extractionPrompt},
					{
						InlineData: &inlineData{
							MIMEType: mimeType,
							Data:     base64.StdEncoding.EncodeToString(image),
						},
					},
				},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &ProviderError{Status: resp.StatusCode, Message: string(bodyBytes)}
	}

	var envelope struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &ProviderError{Message: "invalid response structure"}
	}

	if len(envelope.Candidates) == 0 ||
		len(envelope.Candidates[0].Content.Parts) == 0 ||
		envelope.Candidates[0].Content.Parts[0].Text == "" {
		return nil, &ProviderError{Message: "invalid response structure"}
	}

	text := envelope.Candidates[0].Content.Parts[0].Text
	c.logger.Debug("Provider response text", zap.Int("length", len(text)))

	extraction, err := ParseExtraction(text)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Receipt extraction completed",
		zap.Bool("has_amount", extraction.Amount != nil),
		zap.Bool("has_merchant", extraction.Merchant != nil),
		zap.String("category", extraction.Category),
		zap.Int("items", len(extraction.Items)),
	)

	return extraction, nil
}
