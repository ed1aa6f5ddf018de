package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citisolve/complaint-service/internal/domain"
)

// SupportMessageRepository persists messages to the administrators.
// Write-only: the application never reads them back.
type SupportMessageRepository interface {
	Create(ctx context.Context, msg *domain.SupportMessage) error
}

type supportMessageRepository struct {
	pool *pgxpool.Pool
}

// NewSupportMessageRepository returns a Postgres-backed implementation.
func NewSupportMessageRepository(pool *pgxpool.Pool) SupportMessageRepository {
	return &supportMessageRepository{pool: pool}
}

func (r *supportMessageRepository) Create(ctx context.Context, msg *domain.SupportMessage) error {
	const query = `
        INSERT INTO support_messages (user_id, user_email, user_name, subject, body)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		msg.UserID,
		msg.UserEmail,
		msg.UserName,
		msg.Subject,
		msg.Body,
	).Scan(&msg.ID, &msg.CreatedAt)
}
