package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/gemini"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/models"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/upload"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Extractor is the receipt extraction provider. *gemini.Client implements it.
type Extractor interface {
	ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*gemini.Extraction, error)
}

// TransactionCreator is the slice of the ledger store the receipt flow needs.
type TransactionCreator interface {
	Create(ctx context.Context, tx *models.Transaction) error
}

type OutcomeStatus string

const (
	// OutcomeSaved: extraction was complete and the transaction persisted.
	OutcomeSaved OutcomeStatus = "saved"
	// OutcomeUnsaved: extraction succeeded but validation or persistence
	// failed; the extracted fields still go back to the user.
	OutcomeUnsaved OutcomeStatus = "extracted_unsaved"
	// OutcomeIncomplete: extraction succeeded but amount or merchant is
	// missing, so no candidate transaction can be built.
	OutcomeIncomplete OutcomeStatus = "extracted_incomplete"
	// OutcomeNotImplemented: PDF upload; acknowledged gap, no provider call.
	OutcomeNotImplemented OutcomeStatus = "not_implemented"
	// OutcomeUnconfigured: no provider credential; a demo payload is
	// returned so the client can still render a representative result.
	OutcomeUnconfigured OutcomeStatus = "provider_unconfigured"
)

type ReceiptOutcome struct {
	Status        OutcomeStatus
	Extraction    *gemini.Extraction
	TransactionID uuid.UUID
	SaveError     string
}

type ReceiptService struct {
	uploads   *upload.Store
	extractor Extractor
	txStore   TransactionCreator
	logger    *zap.Logger
}

func NewReceiptService(uploads *upload.Store, extractor Extractor, txStore TransactionCreator, logger *zap.Logger) *ReceiptService {
	return &ReceiptService{
		uploads:   uploads,
		extractor: extractor,
		txStore:   txStore,
		logger:    logger,
	}
}

// ProcessReceipt runs the full pipeline for one uploaded file: store it
// transiently, route by format, extract fields via the provider, and
// reconcile the result into the ledger. The transient file is removed on
// every exit path, including errors.
func (s *ReceiptService) ProcessReceipt(ctx context.Context, userID uuid.UUID, file io.Reader, originalName, mimeType string, size int64) (*ReceiptOutcome, error) {
	stored, err := s.uploads.Save(file, originalName, mimeType, size)
	if err != nil {
		return nil, err
	}
	defer stored.Release()

	if stored.IsPDF() {
		// Deliberate gap: PDF receipts are rejected up front, the provider
		// is never called for them.
		stored.Release()
		return &ReceiptOutcome{Status: OutcomeNotImplemented}, nil
	}

	image, err := stored.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to read stored upload: %w", err)
	}

	extraction, err := s.extractor.ExtractReceipt(ctx, image, stored.MimeType)
	if err != nil {
		if errors.Is(err, gemini.ErrNotConfigured) {
			return &ReceiptOutcome{
				Status:     OutcomeUnconfigured,
				Extraction: demoExtraction(),
			}, nil
		}
		return nil, err
	}

	return s.reconcile(ctx, userID, extraction), nil
}

// reconcile decides whether the extraction is complete enough to become a
// transaction. Validation and persistence failures after a successful
// extraction degrade the outcome instead of aborting: the user always gets
// the extracted fields back.
func (s *ReceiptService) reconcile(ctx context.Context, userID uuid.UUID, extraction *gemini.Extraction) *ReceiptOutcome {
	if extraction.Amount == nil || extraction.Merchant == nil {
		return &ReceiptOutcome{
			Status:     OutcomeIncomplete,
			Extraction: extraction,
		}
	}

	now := time.Now()
	date := now
	if extraction.Date != nil {
		if parsed, err := time.Parse(time.DateOnly, *extraction.Date); err == nil {
			date = parsed
		}
	}

	tx := &models.Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          models.TypeExpense,
		Amount:        *extraction.Amount,
		Category:      models.TransactionCategory(extraction.Category),
		Date:          date,
		Description:   *extraction.Merchant,
		PaymentMethod: models.PaymentOther,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := models.ValidateTransaction(tx); err != nil {
		s.logger.Warn("Extracted transaction failed validation", zap.Error(err))
		return &ReceiptOutcome{
			Status:     OutcomeUnsaved,
			Extraction: extraction,
			SaveError:  err.Error(),
		}
	}

	if err := s.txStore.Create(ctx, tx); err != nil {
		s.logger.Error("Failed to save extracted transaction", zap.Error(err))
		return &ReceiptOutcome{
			Status:     OutcomeUnsaved,
			Extraction: extraction,
			SaveError:  err.Error(),
		}
	}

	return &ReceiptOutcome{
		Status:        OutcomeSaved,
		Extraction:    extraction,
		TransactionID: tx.ID,
	}
}

// demoExtraction is the fixed illustrative payload returned when the
// provider credential is missing.
func demoExtraction() *gemini.Extraction {
	amount := 150.00
	date := time.Now().Format(time.DateOnly)
	merchant := "Demo Store"
	return &gemini.Extraction{
		Amount:   &amount,
		Date:     &date,
		Merchant: &merchant,
		Category: "other",
		Items:    []string{"Demo Item 1", "Demo Item 2"},
	}
}
