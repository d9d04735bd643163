// Package user implements the account system of record: registration,
// credential verification, profile updates, and password rotation.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cuentas-server/internal/domain"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// Matches the original service's bcrypt work factor of 10 rounds.
const hashCost = bcrypt.DefaultCost

var validate = validator.New()

type service struct {
	repo domain.UserRepository
}

func NewService(repo domain.UserRepository) domain.UserService {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if err := validate.Var(req.Email, "required,email"); err != nil {
		return nil, domain.ErrInvalidEmail
	}

	if !validPassword(req.Password) {
		return nil, domain.ErrWeakPassword
	}

	// Fast-path duplicate checks for better error messages. The DB unique
	// constraints remain the source of truth under concurrent registration.
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.repo.GetByName(ctx, req.GivenName, req.FamilyName); err == nil {
		return nil, domain.ErrNameAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check name: %w", err)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(req.Password), hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:      req.Email,
		Password:   string(hashedPwd),
		GivenName:  req.GivenName,
		FamilyName: req.FamilyName,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return projection(user), nil
}

func (s *service) VerifyPassword(user *domain.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
}

// VerifyCredentials resolves an email/password pair to an account. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *service) VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.VerifyPassword(user, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return projection(user), nil
}

func (s *service) Get(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return projection(user), nil
}

func (s *service) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, projection(u))
	}
	return out, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, req domain.UpdateProfileRequest) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if other, err := s.repo.GetByName(ctx, req.GivenName, req.FamilyName); err == nil {
		if other.ID != userID {
			return domain.ErrNameAlreadyExists
		}
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("failed to check name: %w", err)
	}

	email := user.Email
	if req.Email != "" {
		if err := validate.Var(req.Email, "email"); err != nil {
			return domain.ErrInvalidEmail
		}
		if other, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			if other.ID != userID {
				return domain.ErrEmailAlreadyExists
			}
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}
		email = req.Email
	}

	// An update that would leave the row identical is a client mistake.
	if user.GivenName == req.GivenName && user.FamilyName == req.FamilyName && user.Email == email {
		return domain.ErrNoChange
	}

	return s.repo.UpdateProfile(ctx, userID, req.GivenName, req.FamilyName, email)
}

func (s *service) ChangePassword(ctx context.Context, userID int64, req domain.ChangePasswordRequest) error {
	if !validPassword(req.NewPassword) {
		return domain.ErrWeakPassword
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.VerifyPassword(user, req.OldPassword) {
		return domain.ErrInvalidCredentials
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Hash and changed-at land in the same update; the timestamp is what
	// invalidates every token issued before this moment.
	return s.repo.UpdatePassword(ctx, userID, string(hashedPwd), time.Now().UTC())
}

func (s *service) Delete(ctx context.Context, userID int64) error {
	return s.repo.Delete(ctx, userID)
}

func projection(u *domain.User) *domain.User {
	out := *u
	out.Password = ""
	return &out
}
