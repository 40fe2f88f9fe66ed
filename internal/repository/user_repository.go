package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/donor-connect/internal/domain"
)

// DonorFilter captures donor search parameters. Blood group matches exactly;
// location is a case-insensitive substring match.
type DonorFilter struct {
	BloodGroup *domain.BloodGroup
	Location   *string
}

// UserRepository defines persistence access for the user directory.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SearchDonors(ctx context.Context, filter DonorFilter) ([]domain.User, error)
	ListNonAdmin(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, location, blood_group,
       is_verified, is_available, last_donation_date, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, role, location, blood_group, is_verified, is_available, last_donation_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Location,
		user.BloodGroup,
		user.IsVerified,
		user.IsAvailable,
		user.LastDonationDate,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, location=$4, blood_group=$5,
            is_verified=$6, is_available=$7, last_donation_date=$8, updated_at=NOW()
        WHERE id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Location,
		user.BloodGroup,
		user.IsVerified,
		user.IsAvailable,
		user.LastDonationDate,
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

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id=$1`, userColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE LOWER(email)=LOWER($1)`, userColumns)
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) SearchDonors(ctx context.Context, filter DonorFilter) ([]domain.User, error) {
	clauses := []string{"role=$1", "is_verified=TRUE", "is_available=TRUE"}
	args := []any{domain.RoleDonor}

	if filter.BloodGroup != nil {
		args = append(args, *filter.BloodGroup)
		clauses = append(clauses, fmt.Sprintf("blood_group=$%d", len(args)))
	}
	if filter.Location != nil && strings.TrimSpace(*filter.Location) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Location))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(location) LIKE $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY created_at, id`,
		userColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) ListNonAdmin(ctx context.Context) ([]domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE role<>$1 ORDER BY created_at, id`, userColumns)

	rows, err := r.pool.Query(ctx, query, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Location,
		&user.BloodGroup,
		&user.IsVerified,
		&user.IsAvailable,
		&user.LastDonationDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.Location,
			&user.BloodGroup,
			&user.IsVerified,
			&user.IsAvailable,
			&user.LastDonationDate,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
