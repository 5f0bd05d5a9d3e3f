package user

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"cityhub/internal/domain"
	"cityhub/internal/pkg/pagination"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type tokenCodec interface {
	GenerateToken(userID int64, role string) (string, error)
	GenerateRefreshToken(userID int64) (string, error)
}

// Service is the session state machine: login, refresh, password change and
// the bulk revocation that goes with it.
type Service struct {
	users      UserRepositoryInterface
	tokens     RefreshTokenRepositoryInterface
	accessJWT  tokenCodec
	refreshJWT tokenCodec
	refreshTTL time.Duration
}

type LoginResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func NewService(
	users UserRepositoryInterface,
	tokens RefreshTokenRepositoryInterface,
	accessJWT tokenCodec,
	refreshJWT tokenCodec,
	refreshTTL time.Duration,
) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		accessJWT:  accessJWT,
		refreshJWT: refreshJWT,
		refreshTTL: refreshTTL,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         req.Name,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	u.PasswordHash = ""
	return u, nil
}

// Login verifies credentials and opens a device session: a short-lived access
// token plus a refresh token recorded in the ledger with the client
// fingerprint. Missing user and wrong password yield the same error so the
// endpoint leaks no account existence signal.
func (s *Service) Login(ctx context.Context, req LoginRequest, userAgent, ip string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	accessToken, err := s.accessJWT.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.refreshJWT.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.tokens.Create(ctx, &domain.RefreshToken{
		UserID:    u.ID,
		Token:     refreshToken,
		ExpiresAt: now.Add(s.refreshTTL),
		UserAgent: userAgent,
		IPAddress: ip,
	}); err != nil {
		return nil, err
	}

	// best-effort; a failed timestamp update must not fail the login
	if err := s.users.UpdateLastLogin(ctx, u.ID, now); err != nil {
		log.Printf("last_login update failed user_id=%d err=%v", u.ID, err)
	}

	u.PasswordHash = ""
	return &LoginResult{User: u, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh mints a new access token against a ledger-backed refresh token.
// The refresh token itself is not rotated; it stays valid until natural
// expiry or a password change. Missing, revoked and expired tokens are
// indistinguishable to the caller.
func (s *Service) Refresh(ctx context.Context, refreshToken, userAgent, ip string) (string, error) {
	row, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}
	if !row.IsValid(time.Now()) {
		return "", ErrInvalidRefreshToken
	}

	u, err := s.users.GetByID(ctx, row.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}
	if !u.IsActive {
		return "", ErrInvalidRefreshToken
	}

	return s.accessJWT.GenerateToken(u.ID, string(u.Role))
}

// ChangePassword re-hashes the password and revokes every refresh token the
// user holds; all other devices must log in again. This is the only bulk
// revocation path.
func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongOldPassword
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	return s.tokens.RevokeAllForUser(ctx, userID)
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// password and role cannot be changed through the profile
	if req.Name != "" {
		u.Name = req.Name
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	u.PasswordHash = ""
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, p pagination.Params) ([]domain.User, int64, error) {
	return s.users.List(ctx, p)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
