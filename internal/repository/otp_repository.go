package repository

import (
	"context"

	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
)

// OTPRepository keeps one live code per identifier.
type OTPRepository interface {
	// Upsert replaces any existing code for the identifier.
	Upsert(ctx context.Context, record *domain.OTPRecord) error
	Get(ctx context.Context, identifier string) (*domain.OTPRecord, error)
	Delete(ctx context.Context, identifier string) error
}

type otpRepository struct {
	db DB
}

// NewOTPRepository creates a repository backed by the otpstorage table.
func NewOTPRepository(db DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Upsert(ctx context.Context, record *domain.OTPRecord) error {
	const query = `
        INSERT INTO otpstorage (user_input, otp, expiry_time)
        VALUES ($1,$2,$3)
        ON CONFLICT (user_input) DO UPDATE SET otp=EXCLUDED.otp, expiry_time=EXCLUDED.expiry_time`
	_, err := r.db.Exec(ctx, query, record.Identifier, record.Code, record.ExpiresAt)
	return mapError(err)
}

func (r *otpRepository) Get(ctx context.Context, identifier string) (*domain.OTPRecord, error) {
	const query = `SELECT user_input, otp, expiry_time FROM otpstorage WHERE user_input=$1`
	var record domain.OTPRecord
	if err := r.db.QueryRow(ctx, query, identifier).Scan(&record.Identifier, &record.Code, &record.ExpiresAt); err != nil {
		return nil, mapError(err)
	}
	return &record, nil
}

func (r *otpRepository) Delete(ctx context.Context, identifier string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM otpstorage WHERE user_input=$1`, identifier)
	return mapError(err)
}
