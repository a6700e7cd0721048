package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced entity does not exist. Handlers
// map it to a 404.
var ErrNotFound = errors.New("not found")

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// every store method works both standalone and inside a pipeline
// transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store provides document-style access to the entity collections.
type Store struct {
	pool *Pool
	q    Querier
}

// New creates a store over the given pool.
func New(pool *Pool) *Store {
	return &Store{
		pool: pool,
		q:    pool.DB(),
	}
}

// WithTx returns a store view that issues every statement through tx.
func (s *Store) WithTx(tx *sql.Tx) *Store {
	return &Store{
		pool: s.pool,
		q:    tx,
	}
}

// Pool exposes the underlying pool for transaction control.
func (s *Store) Pool() *Pool {
	return s.pool
}

// Transaction runs fn against a transactional view of the store.
func (s *Store) Transaction(ctx context.Context, fn func(txStore *Store) error) error {
	return s.pool.Transaction(ctx, func(tx *sql.Tx) error {
		return fn(s.WithTx(tx))
	})
}

func marshalPayload(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(data), nil
}

func unmarshalPayload(payload string, v any) error {
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}

// collectPayloads decodes a payload-per-row result set into typed records.
func collectPayloads[T any](rows *sql.Rows) ([]*T, error) {
	defer rows.Close()

	var result []*T
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		item := new(T)
		if err := unmarshalPayload(payload, item); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
