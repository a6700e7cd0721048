package server

import (
	"net/http"

	"github.com/adalundhe/freeflow/core/agents"
	"github.com/gin-gonic/gin"
)

type parseEmailRequest struct {
	RawText string `json:"raw_text" binding:"required"`
}

// handleParseEmail runs the intake agent over raw inquiry text. Agent
// failures are invisible here: the fallback payload preserves the inquiry
// and routes to needs_more_info.
func (s *Server) handleParseEmail(c *gin.Context) {
	var req parseEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := s.pipeline.ParseEmail(c.Request.Context(), req.RawText)
	if err != nil {
		s.logger.Error("intake processing failed", "error", err)
		internalError(c, "Failed to process inquiry")
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleCreateManual creates a client and project from a reviewed intake
// result. Caller identity comes from the X-User-ID header.
func (s *Server) handleCreateManual(c *gin.Context) {
	var result agents.IntakeResult
	if err := c.ShouldBindJSON(&result); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	projectID, clientID, err := s.pipeline.CreateManualIntake(c.Request.Context(), &result, callerID(c))
	if err != nil {
		s.logger.Error("manual intake failed", "error", err)
		internalError(c, "Failed to create project")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Project created successfully",
		"project_id": projectID,
		"client_id":  clientID,
	})
}
