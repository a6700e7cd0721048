package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adalundhe/freeflow/core/domain"
)

func (s *Store) InsertClient(ctx context.Context, client *domain.Client) error {
	payload, err := marshalPayload(client)
	if err != nil {
		return err
	}

	_, err = s.q.ExecContext(ctx,
		`INSERT INTO clients (id, email, owner_id, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		client.ID, client.Email, client.OwnerID, payload, client.CreatedAt.UnixNano(),
	)
	return err
}

func (s *Store) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var payload string
	err := s.q.QueryRowContext(ctx,
		`SELECT payload FROM clients WHERE id = ?`, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var client domain.Client
	if err := unmarshalPayload(payload, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// GetClientByEmail returns the oldest client with the given email; intake
// uses it to reuse existing clients rather than duplicate them.
func (s *Store) GetClientByEmail(ctx context.Context, email string) (*domain.Client, error) {
	var payload string
	err := s.q.QueryRowContext(ctx,
		`SELECT payload FROM clients WHERE email = ? ORDER BY created_at ASC LIMIT 1`, email,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var client domain.Client
	if err := unmarshalPayload(payload, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *Store) ListClients(ctx context.Context) ([]*domain.Client, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT payload FROM clients ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	return collectPayloads[domain.Client](rows)
}
