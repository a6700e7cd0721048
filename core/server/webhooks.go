package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Webhook endpoints acknowledge provider callbacks without verifying or
// acting on them. Payment and signature reconciliation happen out of band.

func (s *Server) handleStripeWebhook(c *gin.Context) {
	s.logger.Info("stripe webhook received")
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (s *Server) handleSignatureWebhook(c *gin.Context) {
	s.logger.Info("signature webhook received")
	c.JSON(http.StatusOK, gin.H{"received": true})
}
