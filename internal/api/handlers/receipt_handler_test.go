package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/gemini"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/models"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/service"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/upload"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/pkg/auth"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubExtractor struct {
	calls      int
	extraction *gemini.Extraction
	err        error
}

func (s *stubExtractor) ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*gemini.Extraction, error) {
	s.calls++
	return s.extraction, s.err
}

type stubTxCreator struct {
	created []*models.Transaction
	err     error
}

func (s *stubTxCreator) Create(ctx context.Context, tx *models.Transaction) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, tx)
	return nil
}

type receiptAppFixture struct {
	app       *fiber.App
	token     string
	extractor *stubExtractor
	txCreator *stubTxCreator
	uploadDir string
}

func newReceiptApp(t *testing.T, extractor *stubExtractor, txCreator *stubTxCreator) *receiptAppFixture {
	t.Helper()

	logger := zap.NewNop()
	dir := t.TempDir()
	uploads, err := upload.NewStore(dir, logger)
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := jwtManager.GenerateToken(uuid.New().String(), "user@example.com")
	require.NoError(t, err)

	receiptService := service.NewReceiptService(uploads, extractor, txCreator, logger)
	handler := NewReceiptHandler(receiptService, logger)

	app := fiber.New()
	app.Post("/api/extract-receipt", middleware.AuthRequired(jwtManager, logger), handler.ExtractReceipt)

	return &receiptAppFixture{
		app:       app,
		token:     token,
		extractor: extractor,
		txCreator: txCreator,
		uploadDir: dir,
	}
}

func multipartReceipt(t *testing.T, fieldName, fileName, contentType string, content []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func (f *receiptAppFixture) post(t *testing.T, body io.Reader, contentType string, authenticated bool) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, "/api/extract-receipt", body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authenticated {
		req.AddCookie(&http.Cookie{Name: "token", Value: f.token})
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.NoError(t, resp.Body.Close())

	return resp, payload
}

func completeExtraction() *gemini.Extraction {
	amount := 23.75
	date := "2024-03-02"
	merchant := "Grocer & Co"
	return &gemini.Extraction{
		Amount:   &amount,
		Date:     &date,
		Merchant: &merchant,
		Category: "food",
		Items:    []string{"Milk", "Bread"},
	}
}

func TestExtractReceipt_RequiresSession(t *testing.T) {
	fixture := newReceiptApp(t, &stubExtractor{}, &stubTxCreator{})

	body, contentType := multipartReceipt(t, "receipt", "r.jpg", "image/jpeg", []byte("img"))
	resp, payload := fixture.post(t, body, contentType, false)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Please login", payload["message"])
	assert.Equal(t, 0, fixture.extractor.calls)
}

func TestExtractReceipt_NoFileUploaded(t *testing.T) {
	fixture := newReceiptApp(t, &stubExtractor{}, &stubTxCreator{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("note", "no file here"))
	require.NoError(t, writer.Close())

	resp, payload := fixture.post(t, &buf, writer.FormDataContentType(), true)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No file uploaded", payload["message"])
}

func TestExtractReceipt_PDFNotImplemented(t *testing.T) {
	fixture := newReceiptApp(t, &stubExtractor{extraction: completeExtraction()}, &stubTxCreator{})

	body, contentType := multipartReceipt(t, "receipt", "bill.pdf", "application/pdf", []byte("%PDF-1.4"))
	resp, payload := fixture.post(t, body, contentType, true)

	assert.Equal(t, fiber.StatusNotImplemented, resp.StatusCode)
	assert.Equal(t, "PDF processing not yet implemented. Please upload an image file.", payload["message"])
	assert.Nil(t, payload["amount"])
	assert.Nil(t, payload["date"])
	assert.Nil(t, payload["merchant"])
	assert.Nil(t, payload["category"])
	assert.Equal(t, []any{}, payload["items"])
	assert.Equal(t, 0, fixture.extractor.calls)
}

func TestExtractReceipt_ProviderUnconfigured(t *testing.T) {
	fixture := newReceiptApp(t, &stubExtractor{err: gemini.ErrNotConfigured}, &stubTxCreator{})

	body, contentType := multipartReceipt(t, "receipt", "r.png", "image/png", []byte("img"))
	resp, payload := fixture.post(t, body, contentType, true)

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "Receipt extraction service not configured", payload["message"])

	demo, ok := payload["demo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 150.00, demo["amount"])
	assert.Equal(t, "Demo Store", demo["merchant"])
	assert.Equal(t, "other", demo["category"])
	assert.Equal(t, []any{"Demo Item 1", "Demo Item 2"}, demo["items"])
}

func TestExtractReceipt_SavedTransaction(t *testing.T) {
	fixture := newReceiptApp(t, &stubExtractor{extraction: completeExtraction()}, &stubTxCreator{})

	body, contentType := multipartReceipt(t, "receipt", "r.jpg", "image/jpeg", []byte("img"))
	resp, payload := fixture.post(t, body, contentType, true)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Receipt extracted and transaction saved successfully", payload["message"])
	assert.Equal(t, 23.75, payload["amount"])
	assert.Equal(t, "Grocer & Co", payload["merchant"])
	assert.Equal(t, "food", payload["category"])

	txID, ok := payload["transactionId"].(string)
	require.True(t, ok)
	_, err := uuid.Parse(txID)
	assert.NoError(t, err)

	require.Len(t, fixture.txCreator.created, 1)
}

func TestExtractReceipt_SaveFailureStillReturnsFields(t *testing.T) {
	fixture := newReceiptApp(t, &stubExtractor{extraction: completeExtraction()}, &stubTxCreator{err: errors.New("connection refused")})

	body, contentType := multipartReceipt(t, "receipt", "r.jpg", "image/jpeg", []byte("img"))
	resp, payload := fixture.post(t, body, contentType, true)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Receipt extracted but failed to save transaction", payload["message"])
	assert.Equal(t, "connection refused", payload["saveError"])
	assert.Equal(t, 23.75, payload["amount"])
}

func TestExtractReceipt_IncompleteExtraction(t *testing.T) {
	merchant := "Grocer & Co"
	fixture := newReceiptApp(t, &stubExtractor{extraction: &gemini.Extraction{
		Merchant: &merchant,
		Category: "other",
		Items:    []string{},
	}}, &stubTxCreator{})

	body, contentType := multipartReceipt(t, "receipt", "r.jpg", "image/jpeg", []byte("img"))
	resp, payload := fixture.post(t, body, contentType, true)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Receipt extracted but missing required data for transaction", payload["message"])
	assert.Nil(t, payload["amount"])
	assert.Empty(t, fixture.txCreator.created)
}

func TestExtractReceipt_ProviderError(t *testing.T) {
	fixture := newReceiptApp(t, &stubExtractor{err: &gemini.ProviderError{
		Status:  http.StatusTooManyRequests,
		Message: "provider request failed",
	}}, &stubTxCreator{})

	body, contentType := multipartReceipt(t, "receipt", "r.jpg", "image/jpeg", []byte("img"))
	resp, payload := fixture.post(t, body, contentType, true)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to extract receipt data", payload["message"])
	assert.NotEmpty(t, payload["error"])
}
