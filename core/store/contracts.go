package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/adalundhe/freeflow/core/domain"
)

func (s *Store) InsertContract(ctx context.Context, contract *domain.Contract) error {
	payload, err := marshalPayload(contract)
	if err != nil {
		return err
	}

	_, err = s.q.ExecContext(ctx,
		`INSERT INTO contracts (id, project_id, status, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		contract.ID, contract.ProjectID, contract.Status.String(), payload, contract.CreatedAt.UnixNano(),
	)
	return err
}

func (s *Store) GetContract(ctx context.Context, id string) (*domain.Contract, error) {
	var payload string
	err := s.q.QueryRowContext(ctx,
		`SELECT payload FROM contracts WHERE id = ?`, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var contract domain.Contract
	if err := unmarshalPayload(payload, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// UpdateContractStatus advances a contract's signature lifecycle. signedAt
// is recorded only when transitioning to Signed.
func (s *Store) UpdateContractStatus(ctx context.Context, id string, status domain.ContractStatus, signedAt *time.Time) error {
	contract, err := s.GetContract(ctx, id)
	if err != nil {
		return err
	}

	contract.Status = status
	if signedAt != nil {
		contract.SignedAt = signedAt
	}

	payload, err := marshalPayload(contract)
	if err != nil {
		return err
	}

	result, err := s.q.ExecContext(ctx,
		`UPDATE contracts SET status = ?, payload = ? WHERE id = ?`,
		status.String(), payload, id,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountContractsByStatus(ctx context.Context, status domain.ContractStatus) (int, error) {
	var count int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contracts WHERE status = ?`, status.String(),
	).Scan(&count)
	return count, err
}
