// Package domain
package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrNameAlreadyExists  = errors.New("name already exists")
	ErrWeakPassword       = errors.New("password does not meet security requirements")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrNoChange           = errors.New("no changes applied")
)

type User struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Password   string `json:"-"`
	GivenName  string `json:"nombre"`
	FamilyName string `json:"apellido"`

	// PasswordChangedAt is nil until the first password change. Every token
	// issued before this instant is considered revoked.
	PasswordChangedAt *time.Time `json:"-"`
}

type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	GivenName  string `json:"nombre" validate:"required"`
	FamilyName string `json:"apellido" validate:"required"`
}

type UpdateProfileRequest struct {
	GivenName  string `json:"nombre" validate:"required"`
	FamilyName string `json:"apellido" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByName(ctx context.Context, givenName, familyName string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdateProfile(ctx context.Context, userID int64, givenName, familyName, email string) error
	UpdatePassword(ctx context.Context, userID int64, hash string, changedAt time.Time) error
	Delete(ctx context.Context, userID int64) error
}

type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	VerifyPassword(user *User, candidate string) bool
	VerifyCredentials(ctx context.Context, email, password string) (*User, error)
	Get(ctx context.Context, userID int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) error
	ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error
	Delete(ctx context.Context, userID int64) error
}
