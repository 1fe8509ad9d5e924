package identity

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already used")
)

// Provider is the user directory: lookup by email and account creation.
type Provider interface {
	LookupByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, email, passwordHash string) (*User, error)
}

type GormProvider struct {
	DB *gorm.DB
}

func NewGormProvider(db *gorm.DB) *GormProvider {
	return &GormProvider{DB: db}
}

func (p *GormProvider) LookupByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := p.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (p *GormProvider) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	u := User{Email: email, PasswordHash: passwordHash}
	// the unique index on email is the only guard; TranslateError surfaces
	// its violation as gorm.ErrDuplicatedKey
	if err := p.DB.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &u, nil
}
