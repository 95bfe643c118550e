package repository

import (
	"context"
	"time"

	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var transactionColumns = []string{
	"id", "user_id", "type", "amount", "category", "date", "description", "payment_method", "created_at", "updated_at",
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Insert("transactions").
		Columns(transactionColumns...).
		Values(tx.ID, tx.UserID, tx.Type, tx.Amount, tx.Category, tx.Date, tx.Description, tx.PaymentMethod, tx.CreatedAt, tx.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TransactionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var tx models.Transaction
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Category, &tx.Date, &tx.Description, &tx.PaymentMethod, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &tx, nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	return r.list(ctx, squirrel.Eq{"user_id": userID})
}

func (r *TransactionRepository) ListByUserAndType(ctx context.Context, userID uuid.UUID, txType models.TransactionType) ([]*models.Transaction, error) {
	return r.list(ctx, squirrel.Eq{"user_id": userID, "type": txType})
}

func (r *TransactionRepository) ListByUserAndCategory(ctx context.Context, userID uuid.UUID, category models.TransactionCategory) ([]*models.Transaction, error) {
	return r.list(ctx, squirrel.Eq{"user_id": userID, "category": category})
}

func (r *TransactionRepository) ListByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"user_id": userID},
		squirrel.GtOrEq{"date": from},
		squirrel.LtOrEq{"date": to},
	})
}

func (r *TransactionRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(where).
		OrderBy("date DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Category, &tx.Date, &tx.Description, &tx.PaymentMethod, &tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}

// Update rewrites the mutable fields of an owned transaction. It reports
// pgx.ErrNoRows when the record does not exist or belongs to another user.
func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Update("transactions").
		Set("type", tx.Type).
		Set("amount", tx.Amount).
		Set("category", tx.Category).
		Set("date", tx.Date).
		Set("description", tx.Description).
		Set("payment_method", tx.PaymentMethod).
		Set("updated_at", tx.UpdatedAt).
		Where(squirrel.Eq{"id": tx.ID, "user_id": tx.UserID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := squirrel.Delete("transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type CategoryTotalRow struct {
	Category models.TransactionCategory
	Type     models.TransactionType
	Total    float64
}

type DateTotalRow struct {
	Date  time.Time
	Type  models.TransactionType
	Total float64
}

func (r *TransactionRepository) SummaryByCategory(ctx context.Context, userID uuid.UUID) ([]CategoryTotalRow, error) {
	query := squirrel.Select("category", "type", "SUM(amount) AS total").
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("category", "type").
		OrderBy("category").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []CategoryTotalRow
	for rows.Next() {
		var row CategoryTotalRow
		if err := rows.Scan(&row.Category, &row.Type, &row.Total); err != nil {
			return nil, err
		}
		totals = append(totals, row)
	}

	return totals, rows.Err()
}

func (r *TransactionRepository) SummaryByDate(ctx context.Context, userID uuid.UUID) ([]DateTotalRow, error) {
	query := squirrel.Select("date::date AS day", "type", "SUM(amount) AS total").
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("day", "type").
		OrderBy("day").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []DateTotalRow
	for rows.Next() {
		var row DateTotalRow
		if err := rows.Scan(&row.Date, &row.Type, &row.Total); err != nil {
			return nil, err
		}
		totals = append(totals, row)
	}

	return totals, rows.Err()
}
