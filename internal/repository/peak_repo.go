package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"peak-tracker/internal/domain"
)

// PeakRepository define el contrato de persistencia para cumbres.
type PeakRepository interface {
	Create(ctx context.Context, peak domain.Peak) (domain.Peak, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Peak, error)
}

// PgPeakRepository implementa PeakRepository usando pgxpool.
type PgPeakRepository struct {
	pool *pgxpool.Pool
}

func NewPgPeakRepository(pool *pgxpool.Pool) *PgPeakRepository {
	return &PgPeakRepository{pool: pool}
}

func (r *PgPeakRepository) Create(ctx context.Context, peak domain.Peak) (domain.Peak, error) {
	const query = `
		INSERT INTO peaks (owner_id, name, elevation_m, climbed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		peak.OwnerID,
		peak.Name,
		peak.ElevationM,
		peak.ClimbedAt,
	).Scan(&peak.ID)
	if err != nil {
		return domain.Peak{}, err
	}
	return peak, nil
}

func (r *PgPeakRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Peak, error) {
	const query = `
		SELECT id, owner_id, name, elevation_m, climbed_at
		FROM peaks
		WHERE owner_id = $1
		ORDER BY climbed_at DESC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var peaks []domain.Peak
	for rows.Next() {
		var p domain.Peak
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.ElevationM, &p.ClimbedAt); err != nil {
			return nil, err
		}
		peaks = append(peaks, p)
	}
	return peaks, rows.Err()
}
