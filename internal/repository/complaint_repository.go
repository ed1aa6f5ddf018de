package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citisolve/complaint-service/internal/domain"
)

// ComplaintRepository encapsulates complaint persistence, including the
// transactional coupling between status transitions and the resolver's
// resolved_count. Resolve, Unresolve and Delete each run both writes in a
// single transaction so the counter cannot drift from complaint state on a
// partial failure.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	List(ctx context.Context) ([]domain.Complaint, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Complaint, error)
	ListByCategory(ctx context.Context, category domain.Category) ([]domain.Complaint, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Complaint, error)
	SetStatus(ctx context.Context, id string, status domain.Status) error
	Resolve(ctx context.Context, id, resolverID, resolverName string, at time.Time) error
	Unresolve(ctx context.Context, id string, newStatus domain.Status, priorResolverID string) error
	Allocate(ctx context.Context, id, staffID, staffName string) error
	Delete(ctx context.Context, id string) error
	AssignedOpenCounts(ctx context.Context) (map[string]int, error)
	StatsForUser(ctx context.Context, userID string) (domain.ComplaintStats, error)
	StatsForCategory(ctx context.Context, category domain.Category) (domain.StatusCounts, error)
	GlobalStats(ctx context.Context) (domain.ComplaintStats, error)
	StatusCountsByCategory(ctx context.Context) (map[domain.Category]domain.StatusCounts, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, user_id, user_email, title, category, location, description,
               priority, status, image_url, assigned_to_id, assigned_to_name,
               resolved_by_id, resolved_by_name, resolved_at, created_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (user_id, user_email, title, category, location, description, priority, status, image_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		complaint.UserID,
		complaint.UserEmail,
		complaint.Title,
		complaint.Category,
		complaint.Location,
		complaint.Description,
		complaint.Priority,
		complaint.Status,
		complaint.ImageURL,
	).Scan(&complaint.ID, &complaint.CreatedAt)
}

// Update rewrites the editable fields. Lifecycle fields (status, resolver,
// assignment) are owned by the dedicated transition methods.
func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET title=$1, category=$2, location=$3, description=$4, priority=$5
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Title,
		complaint.Category,
		complaint.Location,
		complaint.Description,
		complaint.Priority,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`

	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(scanComplaintFields(&complaint)...); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) List(ctx context.Context) ([]domain.Complaint, error) {
	return r.listWhere(ctx, ``)
}

func (r *complaintRepository) ListByUser(ctx context.Context, userID string) ([]domain.Complaint, error) {
	return r.listWhere(ctx, `WHERE user_id=$1`, userID)
}

func (r *complaintRepository) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Complaint, error) {
	return r.listWhere(ctx, `WHERE category=$1`, category)
}

func (r *complaintRepository) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Complaint, error) {
	return r.listWhere(ctx, `WHERE status=$1`, status)
}

func (r *complaintRepository) listWhere(ctx context.Context, where string, args ...any) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints ` + where + ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

// SetStatus applies a transition that neither enters nor leaves resolved.
func (r *complaintRepository) SetStatus(ctx context.Context, id string, status domain.Status) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE complaints SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Resolve marks the complaint resolved and increments the resolver's
// resolved_count in the same transaction.
func (r *complaintRepository) Resolve(ctx context.Context, id, resolverID, resolverName string, at time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, `
        UPDATE complaints
        SET status='resolved', resolved_by_id=$1, resolved_by_name=$2, resolved_at=$3
        WHERE id=$4`,
		resolverID, resolverName, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx, `
        UPDATE users SET resolved_count = resolved_count + 1 WHERE id=$1`,
		resolverID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Unresolve moves a resolved complaint back to newStatus, clears the
// resolver snapshot, and decrements the prior resolver's resolved_count
// floored at zero, all in one transaction. The resolver row may be gone
// (account deleted); the transition still succeeds.
func (r *complaintRepository) Unresolve(ctx context.Context, id string, newStatus domain.Status, priorResolverID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, `
        UPDATE complaints
        SET status=$1, resolved_by_id=NULL, resolved_by_name=NULL, resolved_at=NULL
        WHERE id=$2`,
		newStatus, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if priorResolverID != "" {
		if _, err := tx.Exec(ctx, `
            UPDATE users SET resolved_count = GREATEST(resolved_count - 1, 0) WHERE id=$1`,
			priorResolverID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Allocate assigns the complaint to a staff member and forces progress.
func (r *complaintRepository) Allocate(ctx context.Context, id, staffID, staffName string) error {
	cmd, err := r.pool.Exec(ctx, `
        UPDATE complaints
        SET assigned_to_id=$1, assigned_to_name=$2, status='progress'
        WHERE id=$3`,
		staffID, staffName, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the complaint; when it is resolved, the recorded resolver's
// resolved_count is decremented (floored at zero) inside the same
// transaction. The row is locked first so a concurrent resolve cannot slip
// between the read and the delete.
func (r *complaintRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var status domain.Status
	var resolvedBy *string
	err = tx.QueryRow(ctx, `
        SELECT status, resolved_by_id FROM complaints WHERE id=$1 FOR UPDATE`,
		id).Scan(&status, &resolvedBy)
	if err != nil {
		return err
	}

	if status == domain.StatusResolved && resolvedBy != nil {
		if _, err := tx.Exec(ctx, `
            UPDATE users SET resolved_count = GREATEST(resolved_count - 1, 0) WHERE id=$1`,
			*resolvedBy); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// AssignedOpenCounts returns, per staff ID, how many assigned complaints
// are still open. Used by the staff directory workload column.
func (r *complaintRepository) AssignedOpenCounts(ctx context.Context) (map[string]int, error) {
	const query = `
        SELECT assigned_to_id, COUNT(*)
        FROM complaints
        WHERE assigned_to_id IS NOT NULL AND status <> 'resolved'
        GROUP BY assigned_to_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var staffID string
		var n int
		if err := rows.Scan(&staffID, &n); err != nil {
			return nil, err
		}
		counts[staffID] = n
	}
	return counts, rows.Err()
}

const statsSelect = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='pending'),
               COUNT(*) FILTER (WHERE status='progress'),
               COUNT(*) FILTER (WHERE status='resolved'),
               COUNT(*) FILTER (WHERE category='roads'),
               COUNT(*) FILTER (WHERE category='water'),
               COUNT(*) FILTER (WHERE category='power'),
               COUNT(*) FILTER (WHERE category='sanitation'),
               COUNT(*) FILTER (WHERE category='other')
        FROM complaints`

func (r *complaintRepository) StatsForUser(ctx context.Context, userID string) (domain.ComplaintStats, error) {
	return r.fetchStats(ctx, statsSelect+` WHERE user_id=$1`, userID)
}

func (r *complaintRepository) GlobalStats(ctx context.Context) (domain.ComplaintStats, error) {
	return r.fetchStats(ctx, statsSelect)
}

func (r *complaintRepository) fetchStats(ctx context.Context, query string, args ...any) (domain.ComplaintStats, error) {
	var stats domain.ComplaintStats
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.InProgress,
		&stats.Resolved,
		&stats.Roads,
		&stats.Water,
		&stats.Power,
		&stats.Sanitation,
		&stats.Other,
	)
	if err != nil {
		return domain.ComplaintStats{}, err
	}
	return stats, nil
}

func (r *complaintRepository) StatsForCategory(ctx context.Context, category domain.Category) (domain.StatusCounts, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='pending'),
               COUNT(*) FILTER (WHERE status='progress'),
               COUNT(*) FILTER (WHERE status='resolved')
        FROM complaints WHERE category=$1`

	var counts domain.StatusCounts
	err := r.pool.QueryRow(ctx, query, category).Scan(
		&counts.Total, &counts.Pending, &counts.InProgress, &counts.Resolved)
	if err != nil {
		return domain.StatusCounts{}, err
	}
	return counts, nil
}

func (r *complaintRepository) StatusCountsByCategory(ctx context.Context) (map[domain.Category]domain.StatusCounts, error) {
	const query = `
        SELECT category,
               COUNT(*),
               COUNT(*) FILTER (WHERE status='pending'),
               COUNT(*) FILTER (WHERE status='progress'),
               COUNT(*) FILTER (WHERE status='resolved')
        FROM complaints
        GROUP BY category`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.Category]domain.StatusCounts)
	for rows.Next() {
		var category domain.Category
		var counts domain.StatusCounts
		if err := rows.Scan(&category, &counts.Total, &counts.Pending, &counts.InProgress, &counts.Resolved); err != nil {
			return nil, err
		}
		result[category] = counts
	}
	return result, rows.Err()
}

func scanComplaintFields(complaint *domain.Complaint) []any {
	return []any{
		&complaint.ID,
		&complaint.UserID,
		&complaint.UserEmail,
		&complaint.Title,
		&complaint.Category,
		&complaint.Location,
		&complaint.Description,
		&complaint.Priority,
		&complaint.Status,
		&complaint.ImageURL,
		&complaint.AssignedToID,
		&complaint.AssignedToName,
		&complaint.ResolvedByID,
		&complaint.ResolvedByName,
		&complaint.ResolvedAt,
		&complaint.CreatedAt,
	}
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(scanComplaintFields(&complaint)...); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
