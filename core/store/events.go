package store

import (
	"context"

	"github.com/adalundhe/freeflow/core/domain"
)

// AppendEvent writes one entry to the append-only audit trail. Events are
// never updated or deleted here.
func (s *Store) AppendEvent(ctx context.Context, event *domain.AgentEvent) error {
	payload, err := marshalPayload(event)
	if err != nil {
		return err
	}

	_, err = s.q.ExecContext(ctx,
		`INSERT INTO agent_events (id, trace_id, kind, entity_type, entity_id, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.TraceID, event.Kind.String(), event.EntityType, event.EntityID,
		payload, event.CreatedAt.UnixNano(),
	)
	return err
}

// ListRecentEvents returns the newest events first.
func (s *Store) ListRecentEvents(ctx context.Context, limit int) ([]*domain.AgentEvent, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT payload FROM agent_events ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectPayloads[domain.AgentEvent](rows)
}

// ListEventsByTrace returns every event recorded under one trace id, oldest
// first.
func (s *Store) ListEventsByTrace(ctx context.Context, traceID string) ([]*domain.AgentEvent, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT payload FROM agent_events WHERE trace_id = ? ORDER BY created_at ASC`, traceID,
	)
	if err != nil {
		return nil, err
	}
	return collectPayloads[domain.AgentEvent](rows)
}
