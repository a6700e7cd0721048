package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/adalundhe/freeflow/core/domain"
	"github.com/adalundhe/freeflow/core/pipeline"
	"github.com/adalundhe/freeflow/core/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
}

func (s *Server) handleListClients(c *gin.Context) {
	clients, err := s.store.ListClients(c.Request.Context())
	if err != nil {
		s.logger.Error("list clients failed", "error", err)
		internalError(c, "Failed to list clients")
		return
	}
	if clients == nil {
		clients = []*domain.Client{}
	}
	c.JSON(http.StatusOK, clients)
}

func (s *Server) handleCreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	client := &domain.Client{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Company:   req.Company,
		Phone:     req.Phone,
		OwnerID:   callerID(c),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.InsertClient(c.Request.Context(), client); err != nil {
		s.logger.Error("create client failed", "error", err)
		internalError(c, "Failed to create client")
		return
	}

	c.JSON(http.StatusOK, client)
}

func (s *Server) handleGetClient(c *gin.Context) {
	client, err := s.store.GetClient(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "Client not found")
		return
	}
	if err != nil {
		s.logger.Error("get client failed", "error", err)
		internalError(c, "Failed to load client")
		return
	}
	c.JSON(http.StatusOK, client)
}

// callerID resolves the caller identity header, falling back to the MVP
// default owner.
func callerID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return pipeline.DefaultOwnerID
}
