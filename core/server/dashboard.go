package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/adalundhe/freeflow/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 30 * time.Second
)

// handleDashboardStats serves aggregate counts, cached briefly so dashboard
// polling does not hammer sqlite.
func (s *Server) handleDashboardStats(c *gin.Context) {
	if cached, ok := s.cache.Get(statsCacheKey); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	ctx := c.Request.Context()

	stats := gin.H{}
	projectCounts := gin.H{}
	for _, status := range domain.ValidProjectStatuses() {
		count, err := s.store.CountProjectsByStatus(ctx, status)
		if err != nil {
			s.logger.Error("dashboard stats failed", "error", err)
			internalError(c, "Failed to compute stats")
			return
		}
		projectCounts[status.String()] = count
	}
	stats["projects_by_status"] = projectCounts

	pendingContracts, err := s.store.CountContractsByStatus(ctx, domain.ContractAwaitingSignature)
	if err != nil {
		s.logger.Error("dashboard stats failed", "error", err)
		internalError(c, "Failed to compute stats")
		return
	}
	stats["contracts_awaiting_signature"] = pendingContracts

	unpaidInvoices, err := s.store.CountInvoicesByStatus(ctx, domain.InvoiceSentStatus)
	if err != nil {
		s.logger.Error("dashboard stats failed", "error", err)
		internalError(c, "Failed to compute stats")
		return
	}
	stats["invoices_awaiting_payment"] = unpaidInvoices

	s.cache.SetWithTTL(statsCacheKey, stats, 1, statsCacheTTL)
	c.JSON(http.StatusOK, stats)
}

// handleWorkQueue lists items that need the freelancer's attention:
// projects with no budget captured and sent invoices past their due date.
func (s *Server) handleWorkQueue(c *gin.Context) {
	ctx := c.Request.Context()

	type workItem struct {
		Type       string `json:"type"`
		EntityID   string `json:"entity_id"`
		Title      string `json:"title"`
		Priority   string `json:"priority"`
		ActionHint string `json:"action_hint"`
	}

	items := []workItem{}

	projects, err := s.store.ListProjectsMissingBudget(ctx, 50)
	if err != nil {
		s.logger.Error("work queue failed", "error", err)
		internalError(c, "Failed to build work queue")
		return
	}
	for _, project := range projects {
		items = append(items, workItem{
			Type:       "project_missing_budget",
			EntityID:   project.ID,
			Title:      project.Title,
			Priority:   "medium",
			ActionHint: "Confirm budget with client",
		})
	}

	invoices, err := s.store.ListOverdueSentInvoices(ctx, time.Now().UTC(), 50)
	if err != nil {
		s.logger.Error("work queue failed", "error", err)
		internalError(c, "Failed to build work queue")
		return
	}
	for _, invoice := range invoices {
		items = append(items, workItem{
			Type:       "invoice_overdue",
			EntityID:   invoice.ID,
			Title:      "Invoice past due",
			Priority:   "high",
			ActionHint: "Send payment reminder",
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// handleAgentActivity returns the most recent agent events, newest first.
func (s *Server) handleAgentActivity(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	events, err := s.store.ListRecentEvents(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("agent activity failed", "error", err)
		internalError(c, "Failed to list agent activity")
		return
	}
	if events == nil {
		events = []*domain.AgentEvent{}
	}

	c.JSON(http.StatusOK, events)
}
