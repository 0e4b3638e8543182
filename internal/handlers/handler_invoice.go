package handlers

import (
	"log/slog"
	"net/http"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portssvc "github.com/fieldsrv/field_service_app/internal/core/ports/services"
	"github.com/fieldsrv/field_service_app/internal/dto"
	"github.com/fieldsrv/field_service_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to invoices and payments.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(invoiceService portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: invoiceService}
}

func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, auditService portssvc.AuditSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.POST("/:invoiceID/transition", h.transitionInvoice)
		invoices.GET("/:invoiceID/payments", h.listPayments)
		invoices.POST("/:invoiceID/payments", h.recordPayment)
		invoices.DELETE("/:invoiceID/payments/:paymentID", h.deletePayment)
		invoices.GET("/:invoiceID/timeline", timelineEndpoint(auditService, domain.EntityInvoice, "invoiceID"))
	}
}

func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), tctx, req)
	if err != nil {
		respondWithError(c, logger, err, "create invoice")
		return
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusCreated, invoice)
}

func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), tctx, invoiceID)
	if err != nil {
		respondWithError(c, logger, err, "get invoice")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid pagination parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), tctx, params)
	if err != nil {
		respondWithError(c, logger, err, "list invoices")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *invoiceHandler) transitionInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.TransitionInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for TransitionInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.TransitionInvoice(c.Request.Context(), tctx, invoiceID, req.Status)
	if err != nil {
		respondWithError(c, logger, err, "transition invoice")
		return
	}

	logger.Info("Invoice transitioned", slog.String("invoice_id", invoiceID), slog.String("status", string(invoice.Status)))
	c.JSON(http.StatusOK, invoice)
}

func (h *invoiceHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payments, err := h.invoiceService.ListPayments(c.Request.Context(), tctx, invoiceID)
	if err != nil {
		respondWithError(c, logger, err, "list payments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (h *invoiceHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.invoiceService.RecordPayment(c.Request.Context(), tctx, invoiceID, req)
	if err != nil {
		respondWithError(c, logger, err, "record payment")
		return
	}

	// Replayed idempotency keys return the original result, not a new row.
	status := http.StatusCreated
	if !result.Created {
		status = http.StatusOK
	}

	logger.Info("Payment recorded",
		slog.String("invoice_id", invoiceID),
		slog.String("payment_id", result.Payment.PaymentID),
		slog.Bool("created", result.Created),
		slog.String("invoice_status", string(result.InvoiceStatus)))
	c.JSON(status, result)
}

func (h *invoiceHandler) deletePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	paymentID := c.Param("paymentID")

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.DeletePayment(c.Request.Context(), tctx, invoiceID, paymentID)
	if err != nil {
		respondWithError(c, logger, err, "delete payment")
		return
	}

	logger.Info("Payment deleted",
		slog.String("invoice_id", invoiceID),
		slog.String("payment_id", paymentID),
		slog.String("invoice_status", string(invoice.Status)))
	c.JSON(http.StatusOK, invoice)
}
