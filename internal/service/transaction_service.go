package service

import (
	"context"
	"errors"
	"time"

	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/dto"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/models"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidDateRange    = errors.New("from and to dates are required")
)

type TransactionService struct {
	txRepo *repository.TransactionRepository
	logger *zap.Logger
}

func NewTransactionService(txRepo *repository.TransactionRepository, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		txRepo: txRepo,
		logger: logger,
	}
}

// fromRequest builds a transaction from a request body, applying the ledger
// defaults for absent optional fields, and validates it.
func fromRequest(userID uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error) {
	now := time.Now()

	tx := &models.Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          models.TransactionType(req.Type),
		Amount:        req.Amount,
		Category:      models.TransactionCategory(req.Category),
		Date:          now,
		Description:   req.Description,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if tx.Category == "" {
		tx.Category = models.CategoryOther
	}
	if tx.PaymentMethod == "" {
		tx.PaymentMethod = models.PaymentOther
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return nil, models.ErrInvalidDate
		}
		tx.Date = date
	}

	if err := models.ValidateTransaction(tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if date, err := time.Parse(layout, value); err == nil {
			return date, nil
		}
	}
	return time.Time{}, models.ErrInvalidDate
}

func (s *TransactionService) Add(ctx context.Context, userID uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error) {
	tx, err := fromRequest(userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *TransactionService) List(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	return s.txRepo.ListByUser(ctx, userID)
}

func (s *TransactionService) ListByType(ctx context.Context, userID uuid.UUID, txType models.TransactionType) ([]*models.Transaction, error) {
	if !models.ValidTransactionType(txType) {
		return nil, models.ErrInvalidType
	}
	return s.txRepo.ListByUserAndType(ctx, userID, txType)
}

func (s *TransactionService) ListByCategory(ctx context.Context, userID uuid.UUID, category models.TransactionCategory) ([]*models.Transaction, error) {
	if !models.ValidCategory(category) {
		return nil, models.ErrInvalidCategory
	}
	return s.txRepo.ListByUserAndCategory(ctx, userID, category)
}

func (s *TransactionService) ListBetween(ctx context.Context, userID uuid.UUID, from, to string) ([]*models.Transaction, error) {
	if from == "" || to == "" {
		return nil, ErrInvalidDateRange
	}

	fromDate, err := parseDate(from)
	if err != nil {
		return nil, models.ErrInvalidDate
	}
	toDate, err := parseDate(to)
	if err != nil {
		return nil, models.ErrInvalidDate
	}

	return s.txRepo.ListByUserBetween(ctx, userID, fromDate, toDate)
}

func (s *TransactionService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error) {
	tx, err := fromRequest(userID, req)
	if err != nil {
		return nil, err
	}
	tx.ID = id

	if err := s.txRepo.Update(ctx, tx); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	return s.txRepo.GetByID(ctx, userID, id)
}

func (s *TransactionService) Delete(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	if err := s.txRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	return tx, nil
}

// Summary aggregates the user's ledger for the dashboard charts: totals per
// category and per day, split by transaction type.
func (s *TransactionService) Summary(ctx context.Context, userID uuid.UUID) (*dto.SummaryResponse, error) {
	byCategory, err := s.txRepo.SummaryByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}

	byDate, err := s.txRepo.SummaryByDate(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SummaryResponse{
		Message:    "Summary fetched",
		ByCategory: make([]dto.CategoryTotal, 0, len(byCategory)),
		ByDate:     make([]dto.DateTotal, 0, len(byDate)),
	}

	for _, row := range byCategory {
		resp.ByCategory = append(resp.ByCategory, dto.CategoryTotal{
			Category: string(row.Category),
			Type:     string(row.Type),
			Total:    row.Total,
		})
	}
	for _, row := range byDate {
		resp.ByDate = append(resp.ByDate, dto.DateTotal{
			Date:  row.Date.Format(time.DateOnly),
			Type:  string(row.Type),
			Total: row.Total,
		})
	}

	return resp, nil
}
