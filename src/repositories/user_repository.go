package repositories

import (
	"context"
	"errors"
	"strings"

	"assetmanager/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	UpsertByGoogleID(ctx context.Context, user *models.User) error
	UpdatePreferredCurrency(ctx context.Context, id int, currency string) error
}

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, google_id, email, name, picture_url, preferred_currency, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.PictureURL, &u.PreferredCurrency,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.PreferredCurrency = strings.TrimSpace(u.PreferredCurrency)
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return user, err
}

func (r *userRepo) GetAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpsertByGoogleID creates the user or refreshes its profile fields, keeping the stored
// preferred currency.
func (r *userRepo) UpsertByGoogleID(ctx context.Context, user *models.User) error {
	if user.PreferredCurrency == "" {
		user.PreferredCurrency = "USD"
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (google_id, email, name, picture_url, preferred_currency)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (google_id) DO UPDATE
		 SET email = EXCLUDED.email, name = EXCLUDED.name, picture_url = EXCLUDED.picture_url,
		     updated_at = NOW()
		 RETURNING id, preferred_currency, created_at, updated_at`,
		user.GoogleID, user.Email, user.Name, user.PictureURL, user.PreferredCurrency,
	).Scan(&user.ID, &user.PreferredCurrency, &user.CreatedAt, &user.UpdatedAt)
	user.PreferredCurrency = strings.TrimSpace(user.PreferredCurrency)
	return err
}

func (r *userRepo) UpdatePreferredCurrency(ctx context.Context, id int, currency string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET preferred_currency = $1, updated_at = NOW() WHERE id = $2`, currency, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
