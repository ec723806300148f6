package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"assetmanager/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type SnapshotRepository interface {
	Exists(ctx context.Context, userID int, date time.Time) (bool, error)
	Insert(ctx context.Context, snapshot *models.PortfolioSnapshot) error
	Query(ctx context.Context, userID int, since time.Time) ([]models.PortfolioSnapshot, error)
}

type snapshotRepo struct {
	db *pgxpool.Pool
}

func NewSnapshotRepository(db *pgxpool.Pool) SnapshotRepository {
	return &snapshotRepo{db: db}
}

func (r *snapshotRepo) Exists(ctx context.Context, userID int, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM portfolio_snapshots WHERE user_id = $1 AND snapshot_date = $2)`,
		userID, date,
	).Scan(&exists)
	return exists, err
}

// Insert fails with ErrDuplicateSnapshot when the (user, date) row is already present.
func (r *snapshotRepo) Insert(ctx context.Context, snapshot *models.PortfolioSnapshot) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO portfolio_snapshots (user_id, snapshot_date, total_value, total_cost, crypto_value,
		   stock_value, real_estate_value, display_currency)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id, snapshot_date) DO NOTHING
		 RETURNING id, created_at`,
		snapshot.UserID, snapshot.SnapshotDate, snapshot.TotalValue, snapshot.TotalCost,
		snapshot.CryptoValue, snapshot.StockValue, snapshot.RealEstateValue, snapshot.DisplayCurrency,
	).Scan(&snapshot.ID, &snapshot.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicateSnapshot
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateSnapshot
	}
	return err
}

// Query returns the user's snapshots dated on or after since, oldest first.
func (r *snapshotRepo) Query(ctx context.Context, userID int, since time.Time) ([]models.PortfolioSnapshot, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, snapshot_date, total_value, total_cost, crypto_value, stock_value,
		        real_estate_value, display_currency, created_at
		 FROM portfolio_snapshots
		 WHERE user_id = $1 AND snapshot_date >= $2
		 ORDER BY snapshot_date ASC`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []models.PortfolioSnapshot{}
	for rows.Next() {
		var s models.PortfolioSnapshot
		if err := rows.Scan(&s.ID, &s.UserID, &s.SnapshotDate, &s.TotalValue, &s.TotalCost,
			&s.CryptoValue, &s.StockValue, &s.RealEstateValue, &s.DisplayCurrency, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.DisplayCurrency = strings.TrimSpace(s.DisplayCurrency)
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
