package server

import (
	"errors"
	"net/http"

	"github.com/adalundhe/freeflow/core/pipeline"
	"github.com/adalundhe/freeflow/core/store"
	"github.com/gin-gonic/gin"
)

type createInvoiceRequest struct {
	ProjectID string           `json:"project_id" binding:"required"`
	Amount    float64          `json:"amount" binding:"required"`
	Mode      string           `json:"mode" binding:"required"`
	LineItems []map[string]any `json:"line_items"`
}

func (s *Server) handleCreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	invoice, err := s.pipeline.CreateInvoice(c.Request.Context(), req.ProjectID, req.Amount, req.Mode)
	if errors.Is(err, pipeline.ErrInvalidAmount) {
		badRequest(c, "amount must be positive")
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "Project not found")
		return
	}
	if err != nil {
		s.logger.Error("invoice creation failed", "error", err)
		internalError(c, "Failed to create invoice")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func (s *Server) handleGetInvoice(c *gin.Context) {
	invoice, err := s.store.GetInvoice(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "Invoice not found")
		return
	}
	if err != nil {
		s.logger.Error("get invoice failed", "error", err)
		internalError(c, "Failed to load invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) handleInvoicePDF(c *gin.Context) {
	invoice, err := s.store.GetInvoice(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "Invoice not found")
		return
	}
	if err != nil {
		s.logger.Error("invoice pdf failed", "error", err)
		internalError(c, "Failed to load invoice")
		return
	}

	data, err := s.renderer.RenderInvoice(invoice)
	if err != nil {
		s.logger.Error("invoice pdf render failed", "error", err)
		internalError(c, "Failed to render invoice")
		return
	}

	c.Header("Content-Disposition", attachmentName("invoice", invoice.ID))
	c.Data(http.StatusOK, "application/pdf", data)
}

// handleRemindInvoice acknowledges a reminder request. Actual delivery is
// an external integration.
func (s *Server) handleRemindInvoice(c *gin.Context) {
	invoice, err := s.store.GetInvoice(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "Invoice not found")
		return
	}
	if err != nil {
		s.logger.Error("invoice reminder failed", "error", err)
		internalError(c, "Failed to load invoice")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder sent", "invoice_id": invoice.ID})
}
