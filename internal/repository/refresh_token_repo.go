package repository

import (
	"context"
	"time"

	"cityhub/internal/domain"

	"gorm.io/gorm"
)

// RefreshTokenRepository provides DB access for the refresh-token ledger.
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	if t.Type == "" {
		t.Type = domain.TokenTypeRefresh
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Revoke marks a single ledger row revoked. Idempotent: revoking an already
// revoked row is a no-op.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("id = ? AND is_revoked = ?", id, false).
		Update("is_revoked", true).Error
}

// RevokeAllForUser bulk-revokes every ledger row owned by the user. This is
// the password-change barrier; it is a single update statement.
func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Update("is_revoked", true).Error
}

// DeleteExpired drops rows past their expiry, revoked or not. Run from the
// cleanup binary and the in-process sweep.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&domain.RefreshToken{})
	return tx.RowsAffected, tx.Error
}
