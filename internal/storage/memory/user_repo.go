// Package memory provides a map-backed UserRepository. It enforces the same
// uniqueness invariants as the postgres schema and backs the service and
// handler tests.
package memory

import (
	"context"
	"sync"
	"time"

	"cuentas-server/internal/domain"
)

var _ domain.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int64]*domain.User),
		nextID: 1,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
		if u.GivenName == user.GivenName && u.FamilyName == user.FamilyName {
			return domain.ErrNameAlreadyExists
		}
	}

	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = clone(user)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) GetByName(ctx context.Context, givenName, familyName string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.GivenName == givenName && u.FamilyName == familyName {
			return clone(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.users))
	for id := int64(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			users = append(users, clone(u))
		}
	}
	return users, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, givenName, familyName, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}

	for id, other := range r.users {
		if id == userID {
			continue
		}
		if other.Email == email {
			return domain.ErrEmailAlreadyExists
		}
		if other.GivenName == givenName && other.FamilyName == familyName {
			return domain.ErrNameAlreadyExists
		}
	}

	u.GivenName = givenName
	u.FamilyName = familyName
	u.Email = email
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hash string, changedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}

	u.Password = hash
	t := changedAt
	u.PasswordChangedAt = &t
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

func clone(u *domain.User) *domain.User {
	out := *u
	if u.PasswordChangedAt != nil {
		t := *u.PasswordChangedAt
		out.PasswordChangedAt = &t
	}
	return &out
}
