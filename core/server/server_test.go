package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adalundhe/freeflow/core/agents"
	"github.com/adalundhe/freeflow/core/config"
	"github.com/adalundhe/freeflow/core/domain"
	"github.com/adalundhe/freeflow/core/pdf"
	"github.com/adalundhe/freeflow/core/pipeline"
	"github.com/adalundhe/freeflow/core/providers"
	"github.com/adalundhe/freeflow/core/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errProviderDown = errors.New("provider unavailable")

type fakeProvider struct {
	content string
	err     error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &providers.Response{Content: f.content, Model: "fake-model"}, nil
}

func (f *fakeProvider) ValidateConfig() error { return nil }

func (f *fakeProvider) Close() error { return nil }

func newTestServer(t *testing.T, provider providers.Provider) (*Server, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pool, err := store.Open(":memory:", store.DefaultPoolConfig())
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	migrator := store.NewMigrator(pool, store.Migrations())
	require.NoError(t, migrator.Migrate(context.Background()))

	st := store.New(pool)
	logger := slog.New(slog.DiscardHandler)

	pipe := pipeline.New(
		st,
		agents.NewIntakeAgent(provider, logger),
		agents.NewContractAgent(provider, logger, nil),
		agents.NewBillingAgent(provider, logger, nil),
		pipeline.FreelancerIdentity{Name: "Alex Moore", Email: "alex@moore.dev"},
		logger,
		nil,
	)

	srv, err := New(config.DefaultConfig(), st, pipe, pdf.NewRenderer(), logger)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	return srv, st
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func seedProject(t *testing.T, st *store.Store) *domain.Project {
	t.Helper()
	ctx := context.Background()

	budget := 9000.0
	client := &domain.Client{
		ID:        uuid.New().String(),
		Name:      "Dana Reyes",
		Email:     "dana@example.com",
		OwnerID:   pipeline.DefaultOwnerID,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.InsertClient(ctx, client))

	project := &domain.Project{
		ID:          uuid.New().String(),
		ClientID:    client.ID,
		Title:       "Storefront Build",
		Description: "Build a storefront",
		Budget:      &budget,
		Status:      domain.ProjectIntake,
		OwnerID:     pipeline.DefaultOwnerID,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, st.InsertProject(ctx, project))
	return project
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &fakeProvider{err: errProviderDown})
	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	srv, _ := newTestServer(t, &fakeProvider{err: errProviderDown})
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Alex Moore",
		"email":    "alex@moore.dev",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	userID := decodeBody(t, rec)["user_id"]
	require.NotEmpty(t, userID)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Alex Again",
		"email":    "alex@moore.dev",
		"password": "other",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", decodeBody(t, rec)["detail"])

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alex@moore.dev",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, decodeBody(t, rec)["user_id"])

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alex@moore.dev",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, rec)["detail"])
}

func TestClientEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, &fakeProvider{err: errProviderDown})
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/clients", gin.H{
		"name":  "Dana Reyes",
		"email": "dana@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody(t, rec)
	assert.Equal(t, pipeline.DefaultOwnerID, created["owner_id"])

	rec = doJSON(t, router, http.MethodGet, "/api/clients", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var clients []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clients))
	require.Len(t, clients, 1)

	rec = doJSON(t, router, http.MethodGet, "/api/clients/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Client not found", decodeBody(t, rec)["detail"])
}

func TestCreateProjectUnknownClient(t *testing.T) {
	srv, _ := newTestServer(t, &fakeProvider{err: errProviderDown})

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/projects", gin.H{
		"client_id":   "missing",
		"title":       "T",
		"description": "D",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Client not found", decodeBody(t, rec)["detail"])
}

func TestParseEmailFallsBackOnProviderError(t *testing.T) {
	srv, _ := newTestServer(t, &fakeProvider{err: errProviderDown})

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/intake/parse-email", gin.H{
		"raw_text": "I need help with a data pipeline",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, agents.IntakeStatusNeedsInfo, body["status"])

	project := body["project"].(map[string]any)
	assert.Equal(t, "I need help with a data pipeline", project["description"])

	// Fallback marker never leaks into the response body.
	_, present := body["is_fallback"]
	assert.False(t, present)
}

func TestContractLifecycleOverHTTP(t *testing.T) {
	srv, st := newTestServer(t, &fakeProvider{err: errProviderDown})
	router := srv.Router()
	project := seedProject(t, st)

	rec := doJSON(t, router, http.MethodPost, "/api/contracts/generate", gin.H{
		"project_id": project.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	contract := decodeBody(t, rec)
	contractID := contract["id"].(string)
	assert.Equal(t, "Draft", contract["status"])

	rec = doJSON(t, router, http.MethodPost, "/api/contracts/send", gin.H{
		"contract_id": contractID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/contracts/status/"+contractID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AwaitingSignature", decodeBody(t, rec)["status"])

	rec = doJSON(t, router, http.MethodGet, "/api/contracts/"+contractID+"/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "contract_"+contractID[:8])
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestCreateInvoiceOverHTTP(t *testing.T) {
	srv, st := newTestServer(t, &fakeProvider{err: errProviderDown})
	router := srv.Router()
	project := seedProject(t, st)

	rec := doJSON(t, router, http.MethodPost, "/api/invoices/create", gin.H{
		"project_id": project.ID,
		"amount":     9000,
		"mode":       "fixed",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	invoice := decodeBody(t, rec)
	assert.Equal(t, 9000.0, invoice["amount"])

	invoiceID := invoice["id"].(string)
	rec = doJSON(t, router, http.MethodGet, "/api/invoices/"+invoiceID+"/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = doJSON(t, router, http.MethodPost, "/api/invoices/create", gin.H{
		"project_id": project.ID,
		"amount":     -5,
		"mode":       "fixed",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardEndpoints(t *testing.T) {
	srv, st := newTestServer(t, &fakeProvider{err: errProviderDown})
	router := srv.Router()
	seedProject(t, st)

	rec := doJSON(t, router, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody(t, rec)
	counts := stats["projects_by_status"].(map[string]any)
	assert.Equal(t, 1.0, counts["Intake"])

	rec = doJSON(t, router, http.MethodGet, "/api/dashboard/work-queue", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/dashboard/agent-activity?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/dashboard/agent-activity?limit=bogus", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookAcks(t *testing.T) {
	srv, _ := newTestServer(t, &fakeProvider{err: errProviderDown})
	router := srv.Router()

	for _, path := range []string{"/api/webhooks/stripe", "/api/webhooks/signature"} {
		rec := doJSON(t, router, http.MethodPost, path, gin.H{"event": "ignored"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["received"])
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, &fakeProvider{err: errProviderDown})
	router := srv.Router()

	req := httptest.NewRequest(http.MethodOptions, "/api/clients", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-User-ID")
}
