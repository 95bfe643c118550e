package handlers

import (
	"errors"
	"time"

	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/dto"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/models"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService *service.TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

// List godoc
// @Summary List all transactions of the authenticated user
// @Tags transactions
// @Produce json
// @Success 200 {object} dto.TransactionListResponse
// @Failure 401 {object} map[string]string
// @Router /transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	transactions, err := h.txService.List(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list transactions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error fetching transactions",
		})
	}

	return c.JSON(dto.TransactionListResponse{
		Message: "Transactions fetched",
		Data:    safeTransactions(transactions),
	})
}

// Add godoc
// @Summary Record a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /transactions/add [post]
func (h *TransactionHandler) Add(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	tx, err := h.txService.Add(c.Context(), userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Error adding transaction",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Transaction added",
		"data":    safeTransaction(tx),
	})
}

// ListByType godoc
// @Summary List transactions filtered by type
// @Tags transactions
// @Produce json
// @Param type path string true "income or expense"
// @Success 200 {object} dto.TransactionListResponse
// @Failure 400 {object} map[string]string
// @Router /transactions/type/{type} [get]
func (h *TransactionHandler) ListByType(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	transactions, err := h.txService.ListByType(c.Context(), userID, models.TransactionType(c.Params("type")))
	if err != nil {
		if errors.Is(err, models.ErrInvalidType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid transaction type",
			})
		}
		h.logger.Error("Failed to list transactions by type", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error fetching transactions",
		})
	}

	return c.JSON(dto.TransactionListResponse{
		Message: "Transactions fetched",
		Data:    safeTransactions(transactions),
	})
}

// Update godoc
// @Summary Update an owned transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /transactions/update/{id} [put]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid transaction ID"})
	}

	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	tx, err := h.txService.Update(c.Context(), userID, id, &req)
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Transaction not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Error updating transaction",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Transaction updated",
		"data":    safeTransaction(tx),
	})
}

// Delete godoc
// @Summary Delete an owned transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /transactions/delete/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid transaction ID"})
	}

	tx, err := h.txService.Delete(c.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Transaction not found"})
		}
		h.logger.Error("Failed to delete transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error deleting transaction",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Transaction deleted",
		"data":    safeTransaction(tx),
	})
}

// FilterByDate godoc
// @Summary List transactions in an inclusive date range
// @Tags transactions
// @Produce json
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.TransactionListResponse
// @Failure 400 {object} map[string]string
// @Router /transactions/filter/date [get]
func (h *TransactionHandler) FilterByDate(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	transactions, err := h.txService.ListBetween(c.Context(), userID, c.Query("from"), c.Query("to"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "From and to dates are required",
			})
		}
		if errors.Is(err, models.ErrInvalidDate) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid date format",
			})
		}
		h.logger.Error("Failed to filter transactions by date", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error filtering transactions",
		})
	}

	return c.JSON(dto.TransactionListResponse{
		Message: "Transactions fetched",
		Data:    safeTransactions(transactions),
	})
}

// FilterByCategory godoc
// @Summary List transactions of one category
// @Tags transactions
// @Produce json
// @Param category path string true "Category"
// @Success 200 {object} dto.TransactionListResponse
// @Failure 400 {object} map[string]string
// @Router /transactions/filter/category/{category} [get]
func (h *TransactionHandler) FilterByCategory(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	transactions, err := h.txService.ListByCategory(c.Context(), userID, models.TransactionCategory(c.Params("category")))
	if err != nil {
		if errors.Is(err, models.ErrInvalidCategory) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid category",
			})
		}
		h.logger.Error("Failed to filter transactions by category", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error fetching transactions by category",
		})
	}

	return c.JSON(dto.TransactionListResponse{
		Message: "Transactions fetched",
		Data:    safeTransactions(transactions),
	})
}

// Summary godoc
// @Summary Aggregated totals per category and per day for the charts
// @Tags transactions
// @Produce json
// @Success 200 {object} dto.SummaryResponse
// @Failure 401 {object} map[string]string
// @Router /transactions/summary [get]
func (h *TransactionHandler) Summary(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	summary, err := h.txService.Summary(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to build summary", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error building summary",
		})
	}

	return c.JSON(summary)
}

func safeTransaction(tx *models.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            tx.ID.String(),
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		Category:      string(tx.Category),
		Date:          tx.Date.Format(time.RFC3339),
		Description:   tx.Description,
		PaymentMethod: string(tx.PaymentMethod),
		CreatedAt:     tx.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     tx.UpdatedAt.Format(time.RFC3339),
	}
}

func safeTransactions(transactions []*models.Transaction) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, len(transactions))
	for i, tx := range transactions {
		out[i] = safeTransaction(tx)
	}
	return out
}
