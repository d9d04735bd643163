package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cuentas-server/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Constraint names from the users migration. Unique violations are mapped per
// constraint so the application check stays a fast path, not the mechanism.
const (
	emailUniqueConstraint = "users_email_key"
	nameUniqueConstraint  = "users_given_name_family_name_key"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, password, given_name, family_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		user.Email,
		user.Password,
		user.GivenName,
		user.FamilyName,
	).Scan(&user.ID)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := `
		SELECT id, email, password, given_name, family_name, password_changed_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, userID))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password, given_name, family_name, password_changed_at
		FROM users
		WHERE email = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByName(ctx context.Context, givenName, familyName string) (*domain.User, error) {
	query := `
		SELECT id, email, password, given_name, family_name, password_changed_at
		FROM users
		WHERE given_name = $1 AND family_name = $2
	`
	return r.scanOne(r.db.QueryRow(ctx, query, givenName, familyName))
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, email, password, given_name, family_name, password_changed_at
		FROM users
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Password,
			&user.GivenName,
			&user.FamilyName,
			&user.PasswordChangedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan users: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, givenName, familyName, email string) error {
	query := `
		UPDATE users
		SET given_name = $1, family_name = $2, email = $3
		WHERE id = $4
	`

	ct, err := r.db.Exec(ctx, query, givenName, familyName, email, userID)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hash string, changedAt time.Time) error {
	query := `
		UPDATE users
		SET password = $1, password_changed_at = $2
		WHERE id = $3
	`

	ct, err := r.db.Exec(ctx, query, hash, changedAt, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) scanOne(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.GivenName,
		&user.FamilyName,
		&user.PasswordChangedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}

	switch pgErr.ConstraintName {
	case emailUniqueConstraint:
		return domain.ErrEmailAlreadyExists
	case nameUniqueConstraint:
		return domain.ErrNameAlreadyExists
	}
	return nil
}
