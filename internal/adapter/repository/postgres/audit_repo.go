package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/iho/gobank/internal/domain"
)

// AuditRepository implements usecase.AuditSink on an append-only Postgres
// table. Records arrive with account numbers already masked.
type AuditRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool, retrier: NewRetrier()}
}

// Append inserts one audit record.
func (r *AuditRepository) Append(ctx context.Context, record *domain.AuditRecord) error {
	if record.ID == "" {
		record.ID = ulid.Make().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	var payloadJSON []byte
	if record.Payload != nil {
		var err error
		payloadJSON, err = json.Marshal(record.Payload)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
	}

	query := `
		INSERT INTO audit_events (
			id, event_type, transaction_id, user_id, amount,
			from_account, to_account, core_reference, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, query,
			record.ID,
			record.EventType,
			record.TransactionID,
			record.UserID,
			record.Amount,
			record.FromAccount,
			record.ToAccount,
			record.CoreReference,
			payloadJSON,
			record.CreatedAt,
		)
		return err
	})
}

// ListRecent returns the newest audit records, optionally filtered by event
// type and user.
func (r *AuditRepository) ListRecent(ctx context.Context, eventType, userID string, limit int) ([]*domain.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, event_type, transaction_id, user_id, amount,
		       from_account, to_account, core_reference, payload, created_at
		FROM audit_events
		WHERE 1=1
	`
	args := []any{}
	if eventType != "" {
		args = append(args, eventType)
		query += fmt.Sprintf(" AND event_type = $%d", len(args))
	}
	if userID != "" {
		args = append(args, userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var payloadJSON []byte

		err := rows.Scan(
			&rec.ID,
			&rec.EventType,
			&rec.TransactionID,
			&rec.UserID,
			&rec.Amount,
			&rec.FromAccount,
			&rec.ToAccount,
			&rec.CoreReference,
			&payloadJSON,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if payloadJSON != nil {
			_ = json.Unmarshal(payloadJSON, &rec.Payload)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}
