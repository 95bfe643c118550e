package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

type TransactionCategory string

const (
	CategorySalary        TransactionCategory = "salary"
	CategoryBusiness      TransactionCategory = "business"
	CategoryInvestments   TransactionCategory = "investments"
	CategoryFood          TransactionCategory = "food"
	CategoryRent          TransactionCategory = "rent"
	CategoryTransport     TransactionCategory = "transport"
	CategoryEntertainment TransactionCategory = "entertainment"
	CategoryUtilities     TransactionCategory = "utilities"
	CategoryHealthcare    TransactionCategory = "healthcare"
	CategoryEducation     TransactionCategory = "education"
	CategoryOther         TransactionCategory = "other"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCreditCard   PaymentMethod = "creditcard"
	PaymentDebitCard    PaymentMethod = "debitcard"
	PaymentBankTransfer PaymentMethod = "banktransfer"
	PaymentUPI          PaymentMethod = "upi"
	PaymentOther        PaymentMethod = "other"
)

type Transaction struct {
	ID            uuid.UUID           `db:"id"`
	UserID        uuid.UUID           `db:"user_id"`
	Type          TransactionType     `db:"type"`
	Amount        float64             `db:"amount"`
	Category      TransactionCategory `db:"category"`
	Date          time.Time           `db:"date"`
	Description   string              `db:"description"`
	PaymentMethod PaymentMethod       `db:"payment_method"`
	CreatedAt     time.Time           `db:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at"`
}

var (
	ErrInvalidType          = errors.New("valid transaction type is required")
	ErrInvalidAmount        = errors.New("amount must be a non-negative number")
	ErrInvalidCategory      = errors.New("invalid or missing category")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidDate          = errors.New("invalid date")
)

var validTypes = map[TransactionType]bool{
	TypeIncome:  true,
	TypeExpense: true,
}

var validCategories = map[TransactionCategory]bool{
	CategorySalary:        true,
	CategoryBusiness:      true,
	CategoryInvestments:   true,
	CategoryFood:          true,
	CategoryRent:          true,
	CategoryTransport:     true,
	CategoryEntertainment: true,
	CategoryUtilities:     true,
	CategoryHealthcare:    true,
	CategoryEducation:     true,
	CategoryOther:         true,
}

var validPaymentMethods = map[PaymentMethod]bool{
	PaymentCash:         true,
	PaymentCreditCard:   true,
	PaymentDebitCard:    true,
	PaymentBankTransfer: true,
	PaymentUPI:          true,
	PaymentOther:        true,
}

func ValidTransactionType(t TransactionType) bool {
	return validTypes[t]
}

func ValidCategory(c TransactionCategory) bool {
	return validCategories[c]
}

func ValidPaymentMethod(p PaymentMethod) bool {
	return validPaymentMethods[p]
}

// ValidateTransaction checks a candidate record against the ledger schema
// before it is persisted.
func ValidateTransaction(t *Transaction) error {
	if !validTypes[t.Type] {
		return ErrInvalidType
	}
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	if !validCategories[t.Category] {
		return ErrInvalidCategory
	}
	if t.PaymentMethod != "" && !validPaymentMethods[t.PaymentMethod] {
		return ErrInvalidPaymentMethod
	}
	return nil
}
