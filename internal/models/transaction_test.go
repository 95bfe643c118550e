package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validTransaction() *Transaction {
	return &Transaction{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Type:          TypeExpense,
		Amount:        199.99,
		Category:      CategoryFood,
		Date:          time.Now(),
		Description:   "weekly groceries",
		PaymentMethod: PaymentDebitCard,
	}
}

func TestValidateTransaction(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(tx *Transaction)
		wantErr error
	}{
		{
			name:   "valid expense",
			mutate: func(tx *Transaction) {},
		},
		{
			name: "valid income",
			mutate: func(tx *Transaction) {
				tx.Type = TypeIncome
				tx.Category = CategorySalary
			},
		},
		{
			name:   "zero amount is allowed",
			mutate: func(tx *Transaction) { tx.Amount = 0 },
		},
		{
			name:   "empty payment method is allowed",
			mutate: func(tx *Transaction) { tx.PaymentMethod = "" },
		},
		{
			name:    "missing type",
			mutate:  func(tx *Transaction) { tx.Type = "" },
			wantErr: ErrInvalidType,
		},
		{
			name:    "unknown type",
			mutate:  func(tx *Transaction) { tx.Type = "transfer" },
			wantErr: ErrInvalidType,
		},
		{
			name:    "negative amount",
			mutate:  func(tx *Transaction) { tx.Amount = -0.01 },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "missing category",
			mutate:  func(tx *Transaction) { tx.Category = "" },
			wantErr: ErrInvalidCategory,
		},
		{
			name:    "unknown category",
			mutate:  func(tx *Transaction) { tx.Category = "groceries" },
			wantErr: ErrInvalidCategory,
		},
		{
			name:    "unknown payment method",
			mutate:  func(tx *Transaction) { tx.PaymentMethod = "cheque" },
			wantErr: ErrInvalidPaymentMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(tx)

			err := ValidateTransaction(tx)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnumHelpers(t *testing.T) {
	assert.True(t, ValidTransactionType(TypeIncome))
	assert.False(t, ValidTransactionType("refund"))

	assert.True(t, ValidCategory(CategoryHealthcare))
	assert.False(t, ValidCategory("misc"))

	assert.True(t, ValidPaymentMethod(PaymentUPI))
	assert.False(t, ValidPaymentMethod("crypto"))
}
