package handlers

import (
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/gemini"
	"github.com/gsaikumar-123/Personal-Finance-Assistant/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReceiptHandler struct {
	receiptService *service.ReceiptService
	logger         *zap.Logger
}

func NewReceiptHandler(receiptService *service.ReceiptService, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		logger:         logger,
	}
}

// ExtractReceipt godoc
// @Summary Extract transaction fields from a photographed receipt
// @Description Uploads a receipt image, extracts amount/date/merchant/category/items via the vision model and auto-saves an expense when the extraction is complete
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param receipt formData file true "Receipt file (JPEG, PNG or PDF, max 10 MiB)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 501 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /extract-receipt [post]
func (h *ReceiptHandler) ExtractReceipt(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
		})
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No file uploaded",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to extract receipt data",
			"error":   err.Error(),
		})
	}
	defer src.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	outcome, err := h.receiptService.ProcessReceipt(c.Context(), userID, src, fileHeader.Filename, mimeType, fileHeader.Size)
	if err != nil {
		h.logger.Error("Receipt extraction error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to extract receipt data",
			"error":   err.Error(),
		})
	}

	switch outcome.Status {
	case service.OutcomeNotImplemented:
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
			"message":  "PDF processing not yet implemented. Please upload an image file.",
			"amount":   nil,
			"date":     nil,
			"merchant": nil,
			"category": nil,
			"items":    []string{},
		})

	case service.OutcomeUnconfigured:
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Receipt extraction service not configured",
			"error":   "Please add your Gemini API key to the .env file to enable receipt extraction.",
			"demo":    extractionFields(outcome.Extraction),
		})

	case service.OutcomeSaved:
		body := extractionFields(outcome.Extraction)
		body["transactionId"] = outcome.TransactionID.String()
		body["message"] = "Receipt extracted and transaction saved successfully"
		return c.JSON(body)

	case service.OutcomeUnsaved:
		body := extractionFields(outcome.Extraction)
		body["message"] = "Receipt extracted but failed to save transaction"
		body["saveError"] = outcome.SaveError
		return c.JSON(body)

	default: // OutcomeIncomplete
		body := extractionFields(outcome.Extraction)
		body["message"] = "Receipt extracted but missing required data for transaction"
		return c.JSON(body)
	}
}

func extractionFields(e *gemini.Extraction) fiber.Map {
	return fiber.Map{
		"amount":   e.Amount,
		"date":     e.Date,
		"merchant": e.Merchant,
		"category": e.Category,
		"items":    e.Items,
	}
}
