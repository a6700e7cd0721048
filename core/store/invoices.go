package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/adalundhe/freeflow/core/domain"
)

func (s *Store) InsertInvoice(ctx context.Context, invoice *domain.Invoice) error {
	payload, err := marshalPayload(invoice)
	if err != nil {
		return err
	}

	_, err = s.q.ExecContext(ctx,
		`INSERT INTO invoices (id, project_id, status, due_date, payload, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		invoice.ID, invoice.ProjectID, invoice.Status.String(), invoice.DueDate.UnixNano(), payload, invoice.CreatedAt.UnixNano(),
	)
	return err
}

func (s *Store) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	var payload string
	err := s.q.QueryRowContext(ctx,
		`SELECT payload FROM invoices WHERE id = ?`, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var invoice domain.Invoice
	if err := unmarshalPayload(payload, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (s *Store) UpdateInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus) error {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return err
	}

	invoice.Status = status
	payload, err := marshalPayload(invoice)
	if err != nil {
		return err
	}

	result, err := s.q.ExecContext(ctx,
		`UPDATE invoices SET status = ?, payload = ? WHERE id = ?`,
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

func (s *Store) CountInvoicesByStatus(ctx context.Context, status domain.InvoiceStatus) (int, error) {
	var count int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoices WHERE status = ?`, status.String(),
	).Scan(&count)
	return count, err
}

// ListOverdueSentInvoices returns Sent invoices past their due date, for
// the dashboard work queue.
func (s *Store) ListOverdueSentInvoices(ctx context.Context, now time.Time, limit int) ([]*domain.Invoice, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT payload FROM invoices WHERE status = ? AND due_date < ? ORDER BY due_date ASC LIMIT ?`,
		domain.InvoiceSentStatus.String(), now.UnixNano(), limit,
	)
	if err != nil {
		return nil, err
	}
	return collectPayloads[domain.Invoice](rows)
}
