package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/linkedin-scheduler/internal/models"
)

type LinkedInTokenRepository interface {
	GetByURN(ctx context.Context, userURN string) (*models.LinkedInToken, error)
	Upsert(ctx context.Context, userURN, accessToken string) error
	Invalidate(ctx context.Context, userURN string) error
}

type linkedInTokenRepository struct {
	db *sql.DB
}

func NewLinkedInTokenRepository(db *sql.DB) LinkedInTokenRepository {
	return &linkedInTokenRepository{db: db}
}

// GetByURN returns nil without error when no usable credential is stored.
func (r *linkedInTokenRepository) GetByURN(ctx context.Context, userURN string) (*models.LinkedInToken, error) {
	query := `
		SELECT id, user_urn, access_token, created_at, updated_at
		FROM linkedin_tokens
		WHERE user_urn = $1 AND invalidated_at IS NULL
	`

	var t models.LinkedInToken
	err := r.db.QueryRowContext(ctx, query, userURN).Scan(&t.ID, &t.UserURN, &t.AccessToken, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &t, nil
}

func (r *linkedInTokenRepository) Upsert(ctx context.Context, userURN, accessToken string) error {
	query := `
		INSERT INTO linkedin_tokens (user_urn, access_token, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_urn) DO UPDATE
		SET access_token = EXCLUDED.access_token,
			updated_at = EXCLUDED.updated_at,
			invalidated_at = NULL
	`
	_, err := r.db.ExecContext(ctx, query, userURN, accessToken, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *linkedInTokenRepository) Invalidate(ctx context.Context, userURN string) error {
	query := `
		UPDATE linkedin_tokens
		SET invalidated_at = $1
		WHERE user_urn = $2 AND invalidated_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, time.Now(), userURN)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
