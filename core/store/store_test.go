package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/adalundhe/freeflow/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	pool, err := Open(":memory:", DefaultPoolConfig())
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	migrator := NewMigrator(pool, Migrations())
	require.NoError(t, migrator.Migrate(context.Background()))

	return New(pool)
}

func newTestClient(ownerID string) *domain.Client {
	return &domain.Client{
		ID:        uuid.New().String(),
		Name:      "Dana Reyes",
		Email:     "dana@example.com",
		Company:   "Reyes Retail",
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
}

func newTestProject(clientID, ownerID string) *domain.Project {
	budget := 9000.0
	return &domain.Project{
		ID:          uuid.New().String(),
		ClientID:    clientID,
		Title:       "Storefront Build",
		Description: "Build a storefront",
		Budget:      &budget,
		Timeline:    "8 weeks",
		Status:      domain.ProjectIntake,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	pool, err := Open(":memory:", DefaultPoolConfig())
	require.NoError(t, err)
	defer pool.Close()

	migrator := NewMigrator(pool, Migrations())
	require.NoError(t, migrator.Migrate(context.Background()))
	require.NoError(t, migrator.Migrate(context.Background()))

	version, err := migrator.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestUserInsertAndLookup(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         "Alex Moore",
		Email:        "alex@moore.dev",
		PasswordHash: "secret",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, st.InsertUser(ctx, user))

	byID, err := st.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	byEmail, err := st.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = st.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientLookupByEmailReturnsOldest(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first := newTestClient("user_1")
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, st.InsertClient(ctx, first))

	second := newTestClient("user_1")
	require.NoError(t, st.InsertClient(ctx, second))

	found, err := st.GetClientByEmail(ctx, "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestProjectStatusUpdate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	client := newTestClient("user_1")
	require.NoError(t, st.InsertClient(ctx, client))

	project := newTestProject(client.ID, "user_1")
	require.NoError(t, st.InsertProject(ctx, project))

	require.NoError(t, st.UpdateProjectStatus(ctx, project.ID, domain.ProjectContract))

	updated, err := st.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectContract, updated.Status)

	// Payload and indexed column stay in sync.
	count, err := st.CountProjectsByStatus(ctx, domain.ProjectContract)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = st.UpdateProjectStatus(ctx, "missing", domain.ProjectDone)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProjectsMissingBudget(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	client := newTestClient("user_1")
	require.NoError(t, st.InsertClient(ctx, client))

	funded := newTestProject(client.ID, "user_1")
	require.NoError(t, st.InsertProject(ctx, funded))

	unfunded := newTestProject(client.ID, "user_1")
	unfunded.Budget = nil
	require.NoError(t, st.InsertProject(ctx, unfunded))

	missing, err := st.ListProjectsMissingBudget(ctx, 10)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, unfunded.ID, missing[0].ID)
}

func TestContractStatusUpdateWithSignedAt(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	contract := &domain.Contract{
		ID:                uuid.New().String(),
		ProjectID:         uuid.New().String(),
		Variables:         map[string]any{"client_name": "Dana Reyes"},
		SignatureProvider: domain.SignatureHelloSign,
		Status:            domain.ContractDraft,
		CreatedAt:         time.Now().UTC(),
	}
	require.NoError(t, st.InsertContract(ctx, contract))

	signedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, st.UpdateContractStatus(ctx, contract.ID, domain.ContractSigned, &signedAt))

	updated, err := st.GetContract(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContractSigned, updated.Status)
	require.NotNil(t, updated.SignedAt)
	assert.True(t, updated.SignedAt.Equal(signedAt))
	assert.Equal(t, "Dana Reyes", updated.Variables["client_name"])
}

func TestListOverdueSentInvoices(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	overdue := &domain.Invoice{
		ID:        uuid.New().String(),
		ProjectID: uuid.New().String(),
		Amount:    1000,
		DueDate:   now.AddDate(0, 0, -5),
		Status:    domain.InvoiceSentStatus,
		Details:   map[string]any{},
		CreatedAt: now,
	}
	require.NoError(t, st.InsertInvoice(ctx, overdue))

	current := &domain.Invoice{
		ID:        uuid.New().String(),
		ProjectID: uuid.New().String(),
		Amount:    2000,
		DueDate:   now.AddDate(0, 0, 10),
		Status:    domain.InvoiceSentStatus,
		Details:   map[string]any{},
		CreatedAt: now,
	}
	require.NoError(t, st.InsertInvoice(ctx, current))

	paidLate := &domain.Invoice{
		ID:        uuid.New().String(),
		ProjectID: uuid.New().String(),
		Amount:    3000,
		DueDate:   now.AddDate(0, 0, -2),
		Status:    domain.InvoicePaid,
		Details:   map[string]any{},
		CreatedAt: now,
	}
	require.NoError(t, st.InsertInvoice(ctx, paidLate))

	found, err := st.ListOverdueSentInvoices(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, overdue.ID, found[0].ID)
}

func TestEventOrdering(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	traceID := uuid.New().String()
	for i := 0; i < 3; i++ {
		event := domain.NewAgentEvent(traceID, domain.EventIntakeCompleted, "project", fmt.Sprintf("entity-%d", i), map[string]any{"step": i})
		event.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
		require.NoError(t, st.AppendEvent(ctx, event))
	}

	recent, err := st.ListRecentEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "entity-2", recent[0].EntityID)
	assert.Equal(t, "entity-1", recent[1].EntityID)

	byTrace, err := st.ListEventsByTrace(ctx, traceID)
	require.NoError(t, err)
	require.Len(t, byTrace, 3)
	assert.Equal(t, "entity-0", byTrace[0].EntityID)
	assert.Equal(t, "entity-2", byTrace[2].EntityID)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	client := newTestClient("user_1")
	err := st.Transaction(ctx, func(tx *Store) error {
		if err := tx.InsertClient(ctx, client); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	_, err = st.GetClient(ctx, client.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
