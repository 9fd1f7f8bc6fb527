package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/pkg/database"
)

type PostgresProfileRepository struct {
	db *database.PostgresDB
}

func NewProfileRepository(db *database.PostgresDB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, account_id, email, nickname, affiliation, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		profile.ID,
		profile.AccountID,
		profile.Email,
		profile.Nickname,
		profile.Affiliation,
		profile.IsAdmin,
	).Scan(&profile.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (r *PostgresProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.Profile, error) {
	return r.getOne(ctx, "account_id", accountID)
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.getOne(ctx, "id", id)
}

func (r *PostgresProfileRepository) getOne(ctx context.Context, column, value string) (*domain.Profile, error) {
	var profile domain.Profile
	query := fmt.Sprintf(`
		SELECT id, account_id, email, nickname, affiliation, is_admin, created_at
		FROM profiles
		WHERE %s = $1
	`, column)

	err := r.db.Pool.QueryRow(ctx, query, value).Scan(
		&profile.ID,
		&profile.AccountID,
		&profile.Email,
		&profile.Nickname,
		&profile.Affiliation,
		&profile.IsAdmin,
		&profile.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by %s: %w", column, err)
	}

	return &profile, nil
}

// ListByAffiliation returns the community roster in stable sign-up order,
// which is also the candidate listing order in the vote modal.
func (r *PostgresProfileRepository) ListByAffiliation(ctx context.Context, affiliation string) ([]*domain.Profile, error) {
	query := `
		SELECT id, account_id, email, nickname, affiliation, is_admin, created_at
		FROM profiles
		WHERE affiliation = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, affiliation)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*domain.Profile
	for rows.Next() {
		var profile domain.Profile
		err := rows.Scan(
			&profile.ID,
			&profile.AccountID,
			&profile.Email,
			&profile.Nickname,
			&profile.Affiliation,
			&profile.IsAdmin,
			&profile.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, &profile)
	}

	return profiles, rows.Err()
}
