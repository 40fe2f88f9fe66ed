package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/donor-connect/internal/domain"
)

// DonationRepository reads the append-only donation collection. Writes happen
// only through RequestRepository.Complete.
type DonationRepository interface {
	ListForUser(ctx context.Context, userID string) ([]domain.Donation, error)
	CountAll(ctx context.Context) (int64, error)
}

type donationRepository struct {
	pool *pgxpool.Pool
}

// NewDonationRepository instantiates repository.
func NewDonationRepository(pool *pgxpool.Pool) DonationRepository {
	return &donationRepository{pool: pool}
}

func (r *donationRepository) ListForUser(ctx context.Context, userID string) ([]domain.Donation, error) {
	const query = `
        SELECT id, donor_id, recipient_id, request_id, donation_date, feedback
        FROM donations
        WHERE donor_id=$1 OR recipient_id=$1
        ORDER BY donation_date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Donation
	for rows.Next() {
		var donation domain.Donation
		if err := rows.Scan(
			&donation.ID,
			&donation.DonorID,
			&donation.RecipientID,
			&donation.RequestID,
			&donation.DonationDate,
			&donation.Feedback,
		); err != nil {
			return nil, err
		}
		result = append(result, donation)
	}
	return result, rows.Err()
}

func (r *donationRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM donations`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
