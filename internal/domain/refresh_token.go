package domain

import "time"

const TokenTypeRefresh = "refresh"

// RefreshToken is a ledger row for an issued refresh token.
//
// A user may hold many concurrently valid rows (one per logged-in device).
// A row is usable iff it is not revoked and not past its expiry. Rows past
// expiry are garbage-collected by the cleanup sweep regardless of the
// revocation flag.
type RefreshToken struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	UserID int64 `json:"user_id" gorm:"index;not null"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Token string `json:"-" gorm:"size:512;uniqueIndex;not null"`
	Type  string `json:"type" gorm:"size:16;default:refresh"`

	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
	IsRevoked bool      `json:"is_revoked" gorm:"default:false;index"`

	UserAgent string `json:"user_agent"`
	IPAddress string `json:"ip_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *RefreshToken) IsValid(now time.Time) bool {
	return !t.IsRevoked && now.Before(t.ExpiresAt)
}
