package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citisolve/complaint-service/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListStaff(ctx context.Context, department string) ([]domain.User, error)
	CountByRole(ctx context.Context) (domain.UserCounts, error)
	CountStaffByDepartment(ctx context.Context) (map[domain.Category]int, error)
	ReconcileResolvedCounts(ctx context.Context) (int64, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, full_name, email, password_hash, role, ward, department, resolved_count, created_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (full_name, email, password_hash, role, ward, department)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, resolved_count, created_at`

	return r.pool.QueryRow(ctx, query,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Ward,
		user.Department,
	).Scan(&user.ID, &user.ResolvedCount, &user.CreatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET full_name=$1, email=$2, password_hash=$3, role=$4, ward=$5, department=$6
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Ward,
		user.Department,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepository) GetByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1 AND role=$2`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, email, role).Scan(scanUserFields(&user)...); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(scanUserFields(&user)...); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) ListStaff(ctx context.Context, department string) ([]domain.User, error) {
	base := `SELECT ` + userColumns + ` FROM users WHERE role='staff'`
	args := []any{}
	if dept := strings.TrimSpace(department); dept != "" && dept != "all" {
		base += ` AND department=$1`
		args = append(args, dept)
	}
	base += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, base, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) CountByRole(ctx context.Context) (domain.UserCounts, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE role='staff'),
               COUNT(*) FILTER (WHERE role='citizen')
        FROM users`

	var counts domain.UserCounts
	if err := r.pool.QueryRow(ctx, query).Scan(&counts.Total, &counts.Staff, &counts.Citizens); err != nil {
		return domain.UserCounts{}, err
	}
	return counts, nil
}

func (r *userRepository) CountStaffByDepartment(ctx context.Context) (map[domain.Category]int, error) {
	const query = `
        SELECT department, COUNT(*)
        FROM users
        WHERE role='staff' AND department IS NOT NULL
        GROUP BY department`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Category]int)
	for rows.Next() {
		var dept domain.Category
		var n int
		if err := rows.Scan(&dept, &n); err != nil {
			return nil, err
		}
		counts[dept] = n
	}
	return counts, rows.Err()
}

// ReconcileResolvedCounts rewrites every drifted resolved_count to the true
// number of complaints currently resolved by that user. Returns the number
// of corrected rows.
func (r *userRepository) ReconcileResolvedCounts(ctx context.Context) (int64, error) {
	const query = `
        UPDATE users u
        SET resolved_count = t.actual
        FROM (
            SELECT u2.id, COUNT(c.id) AS actual
            FROM users u2
            LEFT JOIN complaints c ON c.resolved_by_id = u2.id AND c.status = 'resolved'
            GROUP BY u2.id
        ) t
        WHERE u.id = t.id AND u.resolved_count <> t.actual`

	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanUserFields(user *domain.User) []any {
	return []any{
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Ward,
		&user.Department,
		&user.ResolvedCount,
		&user.CreatedAt,
	}
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(scanUserFields(&user)...); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
