package auth

import (
	"context"
	"errors"

	"inventory-manager/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword returns a salted bcrypt hash at the given cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticator checks username/password pairs. Every call performs
// exactly one hash comparison, whether or not the user exists.
type Authenticator struct {
	db        *gorm.DB
	dummyHash []byte

	// Compare is swapped in tests to count comparisons.
	Compare func(hash, password []byte) error
}

// NewAuthenticator prepares the placeholder hash once, at the same cost as
// real passwords, so an unknown username costs as much as a wrong password.
func NewAuthenticator(db *gorm.DB, cost int) (*Authenticator, error) {
	placeholder, err := NewToken()
	if err != nil {
		return nil, err
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(placeholder), cost)
	if err != nil {
		return nil, err
	}
	return &Authenticator{
		db:        db,
		dummyHash: dummy,
		Compare:   bcrypt.CompareHashAndPassword,
	}, nil
}

func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := a.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = a.Compare(a.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := a.Compare([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
