package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/adalundhe/freeflow/core/domain"
	"github.com/adalundhe/freeflow/core/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// handleRegister creates a user account. Passwords are stored as-is: the
// MVP explicitly does not implement real authentication.
func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if _, err := s.store.GetUserByEmail(c.Request.Context(), req.Email); err == nil {
		badRequest(c, "Email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		internalError(c, "Failed to register user")
		return
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: req.Password,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.InsertUser(c.Request.Context(), user); err != nil {
		s.logger.Error("register failed", "error", err)
		internalError(c, "Failed to register user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully", "user_id": user.ID})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || user.PasswordHash != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user_id": user.ID, "name": user.Name})
}
