package user_test

import (
	"context"
	"testing"

	"cuentas-server/internal/core/user"
	"cuentas-server/internal/domain"
	"cuentas-server/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture() (domain.UserService, *memory.UserRepository) {
	repo := memory.NewUserRepository()
	return user.NewService(repo), repo
}

func register(t *testing.T, svc domain.UserService, email, password, given, family string) *domain.User {
	t.Helper()

	u, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:      email,
		Password:   password,
		GivenName:  given,
		FamilyName: family,
	})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	t.Parallel()

	svc, repo := newFixture()

	u := register(t, svc, "a@x.com", "Test123!", "A", "B")

	assert.NotZero(t, u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "A", u.GivenName)
	assert.Equal(t, "B", u.FamilyName)
	assert.Empty(t, u.Password, "projection must not carry the hash")
	assert.Nil(t, u.PasswordChangedAt)

	stored, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Test123!", stored.Password, "password must be stored hashed")
}

func TestRegisterInvalidEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newFixture()

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:      "not-an-email",
		Password:   "Test123!",
		GivenName:  "A",
		FamilyName: "B",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestRegisterWeakPassword(t *testing.T) {
	t.Parallel()

	svc, _ := newFixture()

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:      "a@x.com",
		Password:   "test",
		GivenName:  "A",
		FamilyName: "B",
	})
	assert.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newFixture()
	register(t, svc, "a@x.com", "Test123!", "A", "B")

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:      "a@x.com",
		Password:   "Other123!",
		GivenName:  "C",
		FamilyName: "D",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterDuplicateName(t *testing.T) {
	t.Parallel()

	svc, _ := newFixture()
	register(t, svc, "a@x.com", "Test123!", "A", "B")

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:      "b@x.com",
		Password:   "Other123!",
		GivenName:  "A",
		FamilyName: "B",
	})
	assert.ErrorIs(t, err, domain.ErrNameAlreadyExists)
}

func TestVerifyCredentials(t *testing.T) {
	t.Parallel()

	svc, _ := newFixture()
	registered := register(t, svc, "a@x.com", "Test123!", "A", "B")

	u, err := svc.VerifyCredentials(context.Background(), "a@x.com", "Test123!")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.Empty(t, u.Password)

	_, err = svc.VerifyCredentials(context.Background(), "a@x.com", "Wrong123!")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Unknown email is indistinguishable from a wrong password.
	_, err = svc.VerifyCredentials(context.Background(), "nobody@x.com", "Test123!")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	svc, repo := newFixture()
	u := register(t, svc, "a@x.com", "Test123!", "A", "B")

	err := svc.ChangePassword(context.Background(), u.ID, domain.ChangePasswordRequest{
		OldPassword: "Test123!",
		NewPassword: "New123!!",
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordChangedAt)

	_, err = svc.VerifyCredentials(context.Background(), "a@x.com", "New123!!")
	assert.NoError(t, err)
	_, err = svc.VerifyCredentials(context.Background(), "a@x.com", "Test123!")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestChangePasswordWrongOld(t *testing.T) {
	t.Parallel()

	svc, repo := newFixture()
	u := register(t, svc, "a@x.com", "Test123!", "A", "B")

	before, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), u.ID, domain.ChangePasswordRequest{
		OldPassword: "Wrong123!",
		NewPassword: "New123!!",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	after, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Password, after.Password, "hash must be unchanged")
	assert.Nil(t, after.PasswordChangedAt, "timestamp must be unchanged")
}

func TestChangePasswordWeakNew(t *testing.T) {
	t.Parallel()

	svc, _ := newFixture()
	u := register(t, svc, "a@x.com", "Test123!", "A", "B")

	err := svc.ChangePassword(context.Background(), u.ID, domain.ChangePasswordRequest{
		OldPassword: "Test123!",
		NewPassword: "weak",
	})
	assert.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestChangePasswordNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newFixture()

	err := svc.ChangePassword(context.Background(), 99999, domain.ChangePasswordRequest{
		OldPassword: "Test123!",
		NewPassword: "New123!!",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	svc, _ := newFixture()
	u := register(t, svc, "a@x.com", "Test123!", "Pedro", "López")

	err := svc.UpdateProfile(context.Background(), u.ID, domain.UpdateProfileRequest{
		GivenName:  "Adrian",
		FamilyName: "Calderon",
		Email:      "nuevo@x.com",
	})
	require.NoError(t, err)

	updated, err := svc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Adrian", updated.GivenName)
	assert.Equal(t, "Calderon", updated.FamilyName)
	assert.Equal(t, "nuevo@x.com", updated.Email)
}

func TestUpdateProfileNoChange(t *testing.T) {
	t.Parallel()

	svc, _ := newFixture()
	u := register(t, svc, "a@x.com", "Test123!", "A", "B")

	// Identical values, email omitted.
	err := svc.UpdateProfile(context.Background(), u.ID, domain.UpdateProfileRequest{
		GivenName:  "A",
		FamilyName: "B",
	})
	assert.ErrorIs(t, err, domain.ErrNoChange)

	// Identical values, email repeated explicitly.
	err = svc.UpdateProfile(context.Background(), u.ID, domain.UpdateProfileRequest{
		GivenName:  "A",
		FamilyName: "B",
		Email:      "a@x.com",
	})
	assert.ErrorIs(t, err, domain.ErrNoChange)
}

func TestUpdateProfileDuplicates(t *testing.T) {
	t.Parallel()

	svc, _ := newFixture()
	register(t, svc, "juan@x.com", "Test123!", "Juan", "Pérez")
	u := register(t, svc, "carlos@x.com", "Test123!", "Carlos", "Gómez")

	err := svc.UpdateProfile(context.Background(), u.ID, domain.UpdateProfileRequest{
		GivenName:  "Juan",
		FamilyName: "Pérez",
	})
	assert.ErrorIs(t, err, domain.ErrNameAlreadyExists)

	err = svc.UpdateProfile(context.Background(), u.ID, domain.UpdateProfileRequest{
		GivenName:  "Carlos",
		FamilyName: "Gómez",
		Email:      "juan@x.com",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUpdateProfileNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newFixture()

	err := svc.UpdateProfile(context.Background(), 12345, domain.UpdateProfileRequest{
		GivenName:  "A",
		FamilyName: "B",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	svc, _ := newFixture()
	u := register(t, svc, "a@x.com", "Test123!", "A", "B")

	require.NoError(t, svc.Delete(context.Background(), u.ID))

	_, err := svc.Get(context.Background(), u.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	err = svc.Delete(context.Background(), u.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestList(t *testing.T) {
	t.Parallel()

	svc, _ := newFixture()
	register(t, svc, "a@x.com", "Test123!", "A", "B")
	register(t, svc, "b@x.com", "Test123!", "C", "D")

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.Password)
	}
}
