package handler

import (
	"time"

	"go-erp-docs/internal/model"
	"go-erp-docs/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	txService   service.TransactionService
	convService service.ConversionService
}

func NewTransactionHandler(txService service.TransactionService, convService service.ConversionService) *TransactionHandler {
	return &TransactionHandler{txService: txService, convService: convService}
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ConfirmPORequest struct {
	CustomerPO string `json:"customer_po"`
}

type ConvertRequest struct {
	TargetType string `json:"target_type"`
	Date       string `json:"date"` // optional, YYYY-MM-DD
}

// GetTransactions lists documents, optionally filtered by ?type=
// GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	rows, err := h.txService.List(c.Query("type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.txService.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tx)
}

// POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.SaveTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.txService.Create(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Transaction created", "data": tx})
}

// PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var req service.SaveTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.txService.Update(id, &req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction updated", "data": tx})
}

// DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	if err := h.txService.Delete(id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction deleted"})
}

// PATCH /api/v1/transactions/:id/status
func (h *TransactionHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.txService.UpdateStatus(id, model.TransactionStatus(req.Status), getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Status updated", "data": tx})
}

// ConfirmPO attaches the customer's PO number to a quotation
// POST /api/v1/transactions/:id/confirm-po
func (h *TransactionHandler) ConfirmPO(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var req ConfirmPORequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.convService.ConfirmPurchaseOrder(id, req.CustomerPO, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "PO confirmed", "data": tx})
}

// Convert returns an unsaved draft; the client saves it with POST /transactions
// POST /api/v1/transactions/:id/convert
func (h *TransactionHandler) Convert(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var req ConvertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	target, ok := model.ParseDocumentType(req.TargetType)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid target_type"})
	}

	var issueDate time.Time
	if req.Date != "" {
		issueDate, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date, use YYYY-MM-DD"})
		}
	}

	draft, err := h.convService.ConvertTransaction(id, target, issueDate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// NextNumber previews the next document number
// GET /api/v1/transactions/next-number?type=QUOTATION&date=2025-01-15
func (h *TransactionHandler) NextNumber(c *fiber.Ctx) error {
	docType, ok := model.ParseDocumentType(c.Query("type"))
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid type"})
	}

	date := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date, use YYYY-MM-DD"})
		}
		date = parsed
	}

	number, err := h.txService.NextNumber(docType, date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"doc_number": number})
}

// GET /api/v1/transactions/:id/summary
func (h *TransactionHandler) GetSummary(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	summary, err := h.txService.Summary(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GET /api/v1/invoices/management
func (h *TransactionHandler) GetInvoiceManagement(c *fiber.Ctx) error {
	rows, err := h.txService.InvoiceManagement()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// PATCH /api/v1/invoices/:id/status
func (h *TransactionHandler) SetInvoiceStatus(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tx, err := h.convService.SetInvoiceStatus(id, model.TransactionStatus(req.Status), getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Invoice status updated", "data": tx})
}
