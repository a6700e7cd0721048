package server

import (
	"errors"
	"net/http"

	"github.com/adalundhe/freeflow/core/domain"
	"github.com/adalundhe/freeflow/core/pipeline"
	"github.com/adalundhe/freeflow/core/store"
	"github.com/gin-gonic/gin"
)

type createProjectRequest struct {
	ClientID    string   `json:"client_id" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Budget      *float64 `json:"budget"`
	Timeline    string   `json:"timeline"`
}

func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.store.ListProjects(c.Request.Context())
	if err != nil {
		s.logger.Error("list projects failed", "error", err)
		internalError(c, "Failed to list projects")
		return
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	c.JSON(http.StatusOK, projects)
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	project, err := s.pipeline.CreateProject(c.Request.Context(), pipeline.ProjectInput{
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Timeline:    req.Timeline,
		OwnerID:     callerID(c),
	})
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "Client not found")
		return
	}
	if err != nil {
		s.logger.Error("create project failed", "error", err)
		internalError(c, "Failed to create project")
		return
	}

	c.JSON(http.StatusOK, project)
}

func (s *Server) handleGetProject(c *gin.Context) {
	project, err := s.store.GetProject(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(c, "Project not found")
		return
	}
	if err != nil {
		s.logger.Error("get project failed", "error", err)
		internalError(c, "Failed to load project")
		return
	}
	c.JSON(http.StatusOK, project)
}
