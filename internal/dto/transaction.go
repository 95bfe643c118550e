package dto

type TransactionRequest struct {
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"paymentMethod"`
}

type TransactionResponse struct {
	ID            string  `json:"_id"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	Date          string  `json:"date"`
	Description   string  `json:"description,omitempty"`
	PaymentMethod string  `json:"paymentMethod"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

type TransactionListResponse struct {
	Message string                `json:"message"`
	Data    []TransactionResponse `json:"data"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Type     string  `json:"type"`
	Total    float64 `json:"total"`
}

type DateTotal struct {
	Date  string  `json:"date"`
	Type  string  `json:"type"`
	Total float64 `json:"total"`
}

type SummaryResponse struct {
	Message    string          `json:"message"`
	ByCategory []CategoryTotal `json:"byCategory"`
	ByDate     []DateTotal     `json:"byDate"`
}
