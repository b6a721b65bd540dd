package auth

import (
	"errors"
	"strings"

	"brickblock-backend/internal/constants"
	"brickblock-backend/internal/domain"
	"brickblock-backend/internal/infrastructure/database"
	"brickblock-backend/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Credentials for login and register request bodies.
type Credentials struct {
	Address  string `json:"address"`
	Password string `json:"password"`
}

// SessionUserShape is the object stored in session and returned by /me.
type SessionUserShape struct {
	Address string `json:"address"`
	Role    string `json:"role"`
}

// AccountStore abstracts account lookup and creation (GORM in production, doubles in tests).
type AccountStore interface {
	Login(address, password string) (*domain.Account, error)
	Register(address, password string) (*domain.Account, error)
}

// Service implements AccountStore on GORM and bcrypt.
type Service struct {
	DB *gorm.DB
	// Reserved addresses cannot be registered (the custody account).
	Reserved []string
}

func (s *Service) Login(address, password string) (*domain.Account, error) {
	address = strings.TrimSpace(address)
	if address == "" || password == "" {
		return nil, ErrAddressPasswordRequired
	}
	var a domain.Account
	if err := s.DB.Where("address = ?", address).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAddress
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &a, nil
}

// Register creates an investor account.
func (s *Service) Register(address, password string) (*domain.Account, error) {
	address = strings.TrimSpace(address)
	if address == "" || password == "" {
		return nil, ErrAddressPasswordRequired
	}
	if !validation.IsValidAddress(address) {
		return nil, ErrInvalidAddress
	}
	for _, r := range s.Reserved {
		if strings.EqualFold(r, address) {
			return nil, ErrReservedAddress
		}
	}
	if !validation.IsValidPassword(password) {
		return nil, ErrWeakPassword
	}
	return s.create(address, password, constants.Investor)
}

// EnsureAdmin seeds the admin account when it does not exist yet. Existing accounts are left alone.
func (s *Service) EnsureAdmin(address, password string) error {
	if address == "" || password == "" {
		return nil
	}
	var n int64
	if err := s.DB.Model(&domain.Account{}).Where("address = ?", address).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := s.create(address, password, constants.Admin); err != nil {
		return err
	}
	log.Info().Str("address", address).Msg("admin account seeded")
	return nil
}

func (s *Service) create(address, password, role string) (*domain.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	a := domain.Account{Address: address, Role: role, PasswordHash: string(hash)}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Account{}).Where("address = ?", address).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAddressTaken
		}
		return tx.Create(&a).Error
	})
	if database.IsUniqueViolation(err) {
		return nil, ErrAddressTaken
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// VerifyUser validates the session user and returns the shape for /me.
func VerifyUser(sessionUser interface{}) (*SessionUserShape, error) {
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	address, _ := m["address"].(string)
	if address == "" {
		return nil, ErrNotAuthenticated
	}
	role, _ := m["role"].(string)
	return &SessionUserShape{Address: address, Role: role}, nil
}
