package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smileie/smileie-backend/internal/model"
)

// AuditRepository persists login audit records.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// RecordLogin stores e and bumps the account's last_login_at in one transaction.
func (r *AuditRepository) RecordLogin(ctx context.Context, e model.LoginEvent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO login_audit (user_id, session_id, role, ip, logged_in_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.UserID, e.SessionID, string(e.Role), e.IP, e.At,
	)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}

	// A later event may already have landed if the queue was retried.
	_, err = tx.Exec(ctx,
		`UPDATE users SET last_login_at = GREATEST(COALESCE(last_login_at, $2), $2) WHERE id = $1`,
		e.UserID, e.At,
	)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}

	return tx.Commit(ctx)
}
