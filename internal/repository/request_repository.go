package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/donor-connect/internal/domain"
)

// RequestRepository encapsulates blood request persistence. The externally
// observed order is newest first.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.BloodRequest) error
	GetByID(ctx context.Context, id string) (*domain.BloodRequest, error)
	ListForUser(ctx context.Context, userID string) ([]domain.BloodRequest, error)
	UpdateStatus(ctx context.Context, request *domain.BloodRequest) error
	// Complete writes the COMPLETED status and appends the donation record as
	// a single atomic step.
	Complete(ctx context.Context, request *domain.BloodRequest, donation *domain.Donation) error
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

const requestColumns = `id, recipient_id, donor_id, status, message, requested_at, updated_at`

func (r *requestRepository) Create(ctx context.Context, request *domain.BloodRequest) error {
	const query = `
        INSERT INTO blood_requests (recipient_id, donor_id, status, message)
        VALUES ($1,$2,$3,$4)
        RETURNING id, requested_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		request.RecipientID,
		request.DonorID,
		request.Status,
		request.Message,
	).Scan(&request.ID, &request.RequestedAt, &request.UpdatedAt)
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.BloodRequest, error) {
	const query = `
        SELECT id, recipient_id, donor_id, status, message, requested_at, updated_at
        FROM blood_requests WHERE id=$1`

	var request domain.BloodRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.RecipientID,
		&request.DonorID,
		&request.Status,
		&request.Message,
		&request.RequestedAt,
		&request.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) ListForUser(ctx context.Context, userID string) ([]domain.BloodRequest, error) {
	const query = `
        SELECT id, recipient_id, donor_id, status, message, requested_at, updated_at
        FROM blood_requests
        WHERE donor_id=$1 OR recipient_id=$1
        ORDER BY requested_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BloodRequest
	for rows.Next() {
		var request domain.BloodRequest
		if err := rows.Scan(
			&request.ID,
			&request.RecipientID,
			&request.DonorID,
			&request.Status,
			&request.Message,
			&request.RequestedAt,
			&request.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, rows.Err()
}

func (r *requestRepository) UpdateStatus(ctx context.Context, request *domain.BloodRequest) error {
	const query = `
        UPDATE blood_requests SET status=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, request.Status, request.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *requestRepository) Complete(ctx context.Context, request *domain.BloodRequest, donation *domain.Donation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx,
		`UPDATE blood_requests SET status=$1, updated_at=NOW() WHERE id=$2`,
		request.Status, request.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if err := tx.QueryRow(ctx,
		`INSERT INTO donations (donor_id, recipient_id, request_id, feedback)
         VALUES ($1,$2,$3,$4)
         RETURNING id, donation_date`,
		donation.DonorID, donation.RecipientID, donation.RequestID, donation.Feedback,
	).Scan(&donation.ID, &donation.DonationDate); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
