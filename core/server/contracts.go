package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/adalundhe/freeflow/core/store"
	"github.com/gin-gonic/gin"
)

type generateContractRequest struct {
	ProjectID  string `json:"project_id" binding:"required"`
	TemplateID string `json:"template_id"`
}

type sendContractRequest struct {
	ContractID string `json:"contract_id" binding:"required"`
}

func (s *Server) handleGenerateContract(c *gin.Context) {
	var req generateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	contract, err := s.pipeline.GenerateContract(c.Request.Context(), req.ProjectID, req.TemplateID)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "Project not found")
		return
	}
	if err != nil {
		s.logger.Error("contract generation failed", "error", err)
		internalError(c, "Failed to generate contract")
		return
	}

	c.JSON(http.StatusOK, contract)
}

func (s *Server) handleSendContract(c *gin.Context) {
	var req sendContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	err := s.pipeline.SendContract(c.Request.Context(), req.ContractID)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "Contract not found")
		return
	}
	if err != nil {
		s.logger.Error("contract send failed", "error", err)
		internalError(c, "Failed to send contract")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contract sent for signature", "contract_id": req.ContractID})
}

func (s *Server) handleContractStatus(c *gin.Context) {
	contract, err := s.store.GetContract(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "Contract not found")
		return
	}
	if err != nil {
		s.logger.Error("contract status failed", "error", err)
		internalError(c, "Failed to load contract")
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (s *Server) handleContractPDF(c *gin.Context) {
	contract, err := s.store.GetContract(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "Contract not found")
		return
	}
	if err != nil {
		s.logger.Error("contract pdf failed", "error", err)
		internalError(c, "Failed to load contract")
		return
	}

	data, err := s.renderer.RenderContract(contract)
	if err != nil {
		s.logger.Error("contract pdf render failed", "error", err)
		internalError(c, "Failed to render contract")
		return
	}

	c.Header("Content-Disposition", attachmentName("contract", contract.ID))
	c.Data(http.StatusOK, "application/pdf", data)
}

// attachmentName builds the download filename from the first 8 characters
// of the entity id.
func attachmentName(prefix, id string) string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("attachment; filename=%s_%s.pdf", prefix, short)
}
