// Package auth issues and verifies session tokens. Tokens are stateless:
// revocation is implied by the account's password-changed timestamp, so no
// session table or blacklist is kept.
package auth

import (
	"context"
	"errors"
	"time"

	"cuentas-server/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID            int64            `json:"uid"`
	Email             string           `json:"email"`
	PasswordChangedAt *jwt.NumericDate `json:"password_changed_at,omitempty"`
}

type service struct {
	users       domain.UserService
	jwtSecret   []byte
	tokenExpiry time.Duration
}

func NewService(users domain.UserService, secret string, expiry time.Duration) domain.AuthService {
	return &service{
		users:       users,
		jwtSecret:   []byte(secret),
		tokenExpiry: expiry,
	}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.users.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	tokenString, err := s.Issue(user)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResponse{
		User:        user,
		AccessToken: tokenString,
	}, nil
}

func (s *service) Issue(user *domain.User) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		},
		UserID: user.ID,
		Email:  user.Email,
	}
	if user.PasswordChangedAt != nil {
		claims.PasswordChangedAt = jwt.NewNumericDate(*user.PasswordChangedAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *service) Verify(ctx context.Context, tokenString string) (*domain.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	// Expired and malformed tokens are reported identically on purpose.
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, domain.ErrInvalidToken
	}

	// Tokens must outlive neither the account nor its current password.
	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	// Epoch-second comparison: a token issued in the same second as the
	// password change remains valid, anything strictly earlier is revoked.
	if user.PasswordChangedAt != nil && claims.IssuedAt.Unix() < user.PasswordChangedAt.Unix() {
		return nil, domain.ErrTokenRevoked
	}

	return &domain.Identity{
		UserID: user.ID,
		Email:  user.Email,
	}, nil
}
