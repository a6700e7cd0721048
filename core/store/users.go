package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adalundhe/freeflow/core/domain"
)

func (s *Store) InsertUser(ctx context.Context, user *domain.User) error {
	payload, err := marshalPayload(user)
	if err != nil {
		return err
	}

	_, err = s.q.ExecContext(ctx,
		`INSERT INTO users (id, email, payload, created_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Email, payload, user.CreatedAt.UnixNano(),
	)
	return err
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var payload string
	err := s.q.QueryRowContext(ctx,
		`SELECT payload FROM users WHERE id = ?`, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := unmarshalPayload(payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var payload string
	err := s.q.QueryRowContext(ctx,
		`SELECT payload FROM users WHERE email = ?`, email,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := unmarshalPayload(payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
