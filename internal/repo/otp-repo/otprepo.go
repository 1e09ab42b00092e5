package otprepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, code *domain.OneTimeCode) (*domain.OneTimeCode, error) {
	query := `
		INSERT INTO otp_codes (identifier, purpose, code, expires_at, attempts, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, code.Identifier, code.Purpose, code.Code, code.ExpiresAt,
		code.Attempts, code.Verified, code.CreatedAt).Scan(&code.ID)
	if err != nil {
		zap.L().Error("can't save one-time code", zap.Error(err))
		return nil, err
	}
	return code, nil
}

// GetActive returns the most recent unverified code for the pair, expired or
// not; expiry is the service's call, not the repository's.
func (r *Repository) GetActive(ctx context.Context, identifier string, purpose domain.OneTimeCodePurpose) (*domain.OneTimeCode, error) {
	query := `
        SELECT id, identifier, purpose, code, expires_at, attempts, verified, created_at
        FROM otp_codes
        WHERE identifier = $1 AND purpose = $2 AND verified = FALSE
        ORDER BY created_at DESC
        LIMIT 1
    `
	var code domain.OneTimeCode
	err := r.db.QueryRow(ctx, query, identifier, purpose).Scan(&code.ID, &code.Identifier, &code.Purpose,
		&code.Code, &code.ExpiresAt, &code.Attempts, &code.Verified, &code.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get one-time code", zap.Error(err))
		return nil, err
	}
	return &code, nil
}

// InvalidatePrior removes unverified codes for the pair so a newly generated
// code is the only active one.
func (r *Repository) InvalidatePrior(ctx context.Context, identifier string, purpose domain.OneTimeCodePurpose) error {
	_, err := r.db.Exec(ctx, "DELETE FROM otp_codes WHERE identifier = $1 AND purpose = $2 AND verified = FALSE", identifier, purpose)
	if err != nil {
		zap.L().Error("can't invalidate prior one-time codes", zap.Error(err))
	}
	return err
}

func (r *Repository) IncrementAttempts(ctx context.Context, id int) (int, error) {
	var attempts int
	err := r.db.QueryRow(ctx, "UPDATE otp_codes SET attempts = attempts + 1 WHERE id = $1 RETURNING attempts", id).Scan(&attempts)
	if err != nil {
		zap.L().Error("can't increment one-time code attempts", zap.Error(err))
		return 0, err
	}
	return attempts, nil
}

// HasVerified reports whether a code for the pair was verified at or after
// the given time.
func (r *Repository) HasVerified(ctx context.Context, identifier string, purpose domain.OneTimeCodePurpose, since time.Time) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM otp_codes
            WHERE identifier = $1 AND purpose = $2 AND verified = TRUE AND created_at >= $3
        )
    `
	var verified bool
	err := r.db.QueryRow(ctx, query, identifier, purpose, since).Scan(&verified)
	if err != nil {
		zap.L().Error("failed to check verified one-time code", zap.Error(err))
		return false, err
	}
	return verified, nil
}

func (r *Repository) MarkVerified(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, "UPDATE otp_codes SET verified = TRUE WHERE id = $1", id)
	if err != nil {
		zap.L().Error("can't mark one-time code verified", zap.Error(err))
	}
	return err
}
