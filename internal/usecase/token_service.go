package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/takumi-dev/cliptube/internal/domain/repository"
	"github.com/takumi-dev/cliptube/internal/infrastructure/metrics"
)

// TokenPair is an access/refresh token pair issued for a session.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenService manages the session credential lifecycle: issuing, verifying,
// rotating and revoking token pairs, and replacing the stored credential hash.
type TokenService interface {
	// Issue generates a fresh pair and persists the refresh value onto the
	// user record, overwriting any prior value.
	Issue(ctx context.Context, userID uuid.UUID) (*TokenPair, error)

	// VerifyAccess validates an access token offline and returns the user id.
	// Returns ErrUnauthenticated on any failure. No store lookup.
	VerifyAccess(token string) (uuid.UUID, error)

	// Rotate exchanges a valid refresh token for a fresh pair. The presented
	// value must equal the stored one; a replayed or raced token fails with
	// ErrSessionInvalidated without changing state.
	Rotate(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Revoke clears the stored refresh value (logout). Idempotent.
	Revoke(ctx context.Context, userID uuid.UUID) error

	// ChangePassword replaces the credential hash after verifying the old
	// secret. Outstanding sessions are not revoked; callers wanting forced
	// re-auth call Revoke explicitly.
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

// TokenServiceConfig holds signing configuration.
type TokenServiceConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// DefaultTokenServiceConfig returns TTL defaults; secrets must be provided.
func DefaultTokenServiceConfig(accessSecret, refreshSecret []byte) TokenServiceConfig {
	return TokenServiceConfig{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

type tokenService struct {
	users repository.UserRepository
	cfg   TokenServiceConfig
}

// NewTokenService creates a new TokenService instance.
func NewTokenService(users repository.UserRepository, cfg TokenServiceConfig) TokenService {
	return &tokenService{users: users, cfg: cfg}
}

// Issue generates and persists a fresh token pair.
func (s *tokenService) Issue(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	pair, err := s.mintPair(userID)
	if err != nil {
		metrics.AuthOperationsTotal.WithLabelValues(metrics.AuthOpIssue, metrics.AuthStatusFailure).Inc()
		return nil, err
	}

	if err := s.users.SetRefreshToken(ctx, userID, pair.RefreshToken); err != nil {
		metrics.AuthOperationsTotal.WithLabelValues(metrics.AuthOpIssue, metrics.AuthStatusFailure).Inc()
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	metrics.AuthOperationsTotal.WithLabelValues(metrics.AuthOpIssue, metrics.AuthStatusSuccess).Inc()
	return pair, nil
}

// VerifyAccess validates signature and expiry only; the check is stateless.
func (s *tokenService) VerifyAccess(token string) (uuid.UUID, error) {
	userID, err := s.parseSubject(token, s.cfg.AccessSecret)
	if err != nil {
		metrics.AuthOperationsTotal.WithLabelValues(metrics.AuthOpVerify, metrics.AuthStatusFailure).Inc()
		return uuid.Nil, ErrUnauthenticated
	}

	metrics.AuthOperationsTotal.WithLabelValues(metrics.AuthOpVerify, metrics.AuthStatusSuccess).Inc()
	return userID, nil
}

// Rotate exchanges a refresh token for a fresh pair. The conditional update
// on the stored slot is what makes each refresh value single-use: once a
// newer value is persisted, every previously issued value is dead.
func (s *tokenService) Rotate(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.parseSubject(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		metrics.AuthOperationsTotal.WithLabelValues(metrics.AuthOpRotate, metrics.AuthStatusFailure).Inc()
		return nil, ErrUnauthenticated
	}

	pair, err := s.mintPair(userID)
	if err != nil {
		metrics.AuthOperationsTotal.WithLabelValues(metrics.AuthOpRotate, metrics.AuthStatusFailure).Inc()
		return nil, err
	}

	err = s.users.RotateRefreshToken(ctx, userID, refreshToken, pair.RefreshToken)
	if err != nil {
		metrics.AuthOperationsTotal.WithLabelValues(metrics.AuthOpRotate, metrics.AuthStatusFailure).Inc()
		if errors.Is(err, repository.ErrRefreshTokenMismatch) {
			return nil, ErrSessionInvalidated
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	metrics.AuthOperationsTotal.WithLabelValues(metrics.AuthOpRotate, metrics.AuthStatusSuccess).Inc()
	return pair, nil
}

// Revoke clears the stored refresh value.
func (s *tokenService) Revoke(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil {
		metrics.AuthOperationsTotal.WithLabelValues(metrics.AuthOpRevoke, metrics.AuthStatusFailure).Inc()
		return fmt.Errorf("clear refresh token: %w", err)
	}

	metrics.AuthOperationsTotal.WithLabelValues(metrics.AuthOpRevoke, metrics.AuthStatusSuccess).Inc()
	return nil
}

// ChangePassword verifies the old secret and replaces the stored hash.
func (s *tokenService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}

	return nil
}

// mintPair signs a fresh access/refresh pair for userID.
func (s *tokenService) mintPair(userID uuid.UUID) (*TokenPair, error) {
	now := time.Now()
	accessExp := now.Add(s.cfg.AccessTTL)
	refreshExp := now.Add(s.cfg.RefreshTTL)

	access, err := signToken(userID, now, accessExp, s.cfg.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := signToken(userID, now, refreshExp, s.cfg.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// parseSubject validates the token against secret and extracts the subject id.
func (s *tokenService) parseSubject(token string, secret []byte) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, errors.New("invalid claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse subject: %w", err)
	}

	return userID, nil
}

// signToken creates an HS256 JWT with registered claims only.
func signToken(userID uuid.UUID, issuedAt, expiresAt time.Time, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// HashPassword hashes a plaintext password with bcrypt at default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
