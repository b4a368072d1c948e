package auth

import (
	"errors"
	"strings"

	"carbon-ledger/internal/domain"
	"carbon-ledger/internal/pkg/constants"
	"carbon-ledger/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("Invalid Email")
	ErrIncorrectPassword     = errors.New("Incorrect Password")
	ErrEmailTaken            = errors.New("Email already registered")
	ErrWeakPassword          = errors.New("Password does not meet requirements")
	ErrNotAuthenticated      = errors.New("Not authenticated")
)

type Service struct {
	DB *gorm.DB
}

type RegisterInput struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user and assigns their ledger principal. The principal
// is the identity every core operation sees; it is fixed at registration and
// never changes.
func (s *Service) Register(in RegisterInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, ErrWeakPassword
	}
	role := in.Role
	if role == "" || !constants.IsValidRole(role) {
		role = constants.Holder
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Fullname:     in.Fullname,
		Email:        strings.ToLower(in.Email),
		PasswordHash: string(hash),
		Principal:    "PRN-" + strings.ToUpper(uuid.NewString()[:13]),
		Role:         role,
	}
	if err := s.DB.Create(user).Error; err != nil {
		var existing domain.User
		if s.DB.Where("email = ?", user.Email).First(&existing).Error == nil {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Login finds the user by email and verifies the password.
func (s *Service) Login(in LoginInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var u domain.User
	if err := s.DB.Where("email = ?", strings.ToLower(in.Email)).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &u, nil
}
