package auth

import (
	"strings"
	"testing"

	"carbon-ledger/internal/domain"
	"carbon-ledger/internal/pkg/constants"
	"carbon-ledger/internal/pkg/validation"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return &Service{DB: db}
}

func TestRegister_AssignsPrincipal(t *testing.T) {
	svc := setupAuthTest(t)

	u, err := svc.Register(RegisterInput{
		Fullname: "Test User",
		Email:    "Test@Example.com",
		Password: "Password1!",
	})
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", u.Email)
	assert.Equal(t, constants.Holder, u.Role)
	assert.True(t, validation.IsValidPrincipal(u.Principal), "principal %q", u.Principal)
	assert.True(t, strings.HasPrefix(u.Principal, "PRN-"))
}

func TestRegister_MissingFields(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.Register(RegisterInput{Email: "a@b.com"})
	assert.Equal(t, ErrEmailPasswordRequired, err)

	_, err = svc.Register(RegisterInput{Password: "Password1!"})
	assert.Equal(t, ErrEmailPasswordRequired, err)
}

func TestRegister_InvalidEmail(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "Password1!"})
	assert.Equal(t, ErrInvalidEmail, err)
}

func TestRegister_WeakPassword(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.Register(RegisterInput{Email: "a@b.com", Password: "short"})
	assert.Equal(t, ErrWeakPassword, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.Register(RegisterInput{Email: "a@b.com", Password: "Password1!"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Email: "A@B.com", Password: "Password1!"})
	assert.Equal(t, ErrEmailTaken, err)
}

func TestRegister_UnknownRoleDefaultsToHolder(t *testing.T) {
	svc := setupAuthTest(t)

	u, err := svc.Register(RegisterInput{Email: "a@b.com", Password: "Password1!", Role: "superuser"})
	require.NoError(t, err)
	assert.Equal(t, constants.Holder, u.Role)

	u, err = svc.Register(RegisterInput{Email: "c@d.com", Password: "Password1!", Role: constants.Issuer})
	require.NoError(t, err)
	assert.Equal(t, constants.Issuer, u.Role)
}

func TestLogin(t *testing.T) {
	svc := setupAuthTest(t)

	reg, err := svc.Register(RegisterInput{Email: "a@b.com", Password: "Password1!"})
	require.NoError(t, err)

	u, err := svc.Login(LoginInput{Email: "a@b.com", Password: "Password1!"})
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, u.UserID)
	assert.Equal(t, reg.Principal, u.Principal)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.Register(RegisterInput{Email: "a@b.com", Password: "Password1!"})
	require.NoError(t, err)

	_, err = svc.Login(LoginInput{Email: "a@b.com", Password: "WrongPass1!"})
	assert.Equal(t, ErrIncorrectPassword, err)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.Login(LoginInput{Email: "nobody@b.com", Password: "Password1!"})
	assert.Equal(t, ErrInvalidEmail, err)
}
