package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adalundhe/freeflow/core/domain"
)

func (s *Store) InsertProject(ctx context.Context, project *domain.Project) error {
	payload, err := marshalPayload(project)
	if err != nil {
		return err
	}

	var budget any
	if project.Budget != nil {
		budget = *project.Budget
	}

	_, err = s.q.ExecContext(ctx,
		`INSERT INTO projects (id, client_id, status, budget, payload, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		project.ID, project.ClientID, project.Status.String(), budget, payload, project.CreatedAt.UnixNano(),
	)
	return err
}

func (s *Store) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var payload string
	err := s.q.QueryRowContext(ctx,
		`SELECT payload FROM projects WHERE id = ?`, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var project domain.Project
	if err := unmarshalPayload(payload, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT payload FROM projects ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	return collectPayloads[domain.Project](rows)
}

// UpdateProjectStatus rewrites the status column and the stored document
// together. No transition guard: each pipeline step sets the status it
// needs, matching the permissive original behavior.
func (s *Store) UpdateProjectStatus(ctx context.Context, id string, status domain.ProjectStatus) error {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}

	project.Status = status
	payload, err := marshalPayload(project)
	if err != nil {
		return err
	}

	result, err := s.q.ExecContext(ctx,
		`UPDATE projects SET status = ?, payload = ? WHERE id = ?`,
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

func (s *Store) CountProjectsByStatus(ctx context.Context, status domain.ProjectStatus) (int, error) {
	var count int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE status = ?`, status.String(),
	).Scan(&count)
	return count, err
}

// ListProjectsMissingBudget feeds the dashboard work queue.
func (s *Store) ListProjectsMissingBudget(ctx context.Context, limit int) ([]*domain.Project, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT payload FROM projects WHERE budget IS NULL ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectPayloads[domain.Project](rows)
}
