package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"peerpay/internal/models"
	"peerpay/internal/repositories"
	"peerpay/internal/utils"
	"peerpay/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
	ErrWeakPassword       = errors.New("password must be at least 8 characters and contain special characters")
	ErrInvalidInput       = errors.New("invalid registration input")
	ErrInvalidToken       = errors.New("invalid token")
)

// RegisterInput carries the fields needed to open an account.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Account, error)
	Login(ctx context.Context, identifier, password string) (*models.Account, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, accountID uint) error
	ChangePassword(ctx context.Context, accountID uint, oldPassword, newPassword string) error
	GetTokenVersion(ctx context.Context, accountID uint) (int, error)
	GetAccountByID(ctx context.Context, accountID uint) (*models.Account, error)
}

type service struct {
	accounts repositories.AccountRepository
}

func NewService(accounts repositories.AccountRepository) Service {
	return &service{accounts: accounts}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Account, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)

	if input.Name == "" || !validation.ValidUsername(input.Username) || !validation.ValidEmail(input.Email) {
		return nil, ErrInvalidInput
	}
	if !validation.ValidPassword(input.Password) {
		return nil, ErrWeakPassword
	}

	if _, err := s.accounts.GetByUsername(ctx, input.Username); err == nil {
		return nil, ErrAccountExists
	}
	if _, err := s.accounts.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrAccountExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	account := &models.Account{
		Name:     input.Name,
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashed),
		Balance:  0,
		Status:   models.AccountStatusActive,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		log.Printf("Registration failed for %s: %v", input.Username, err)
		return nil, errors.New("failed to create account")
	}
	return account, nil
}

// Login authenticates by username or email and returns the account with a
// fresh access/refresh token pair.
func (s *service) Login(ctx context.Context, identifier, password string) (*models.Account, string, string, error) {
	account, err := s.getByIdentifier(ctx, identifier)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		log.Printf("Login failed: incorrect password for account ID: %d", account.ID)
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		AccountID:    account.ID,
		Email:        account.Email,
		TokenVersion: account.TokenVersion,
	})
	if err != nil {
		log.Println("Error generating tokens:", err)
		return nil, "", "", errors.New("error generating tokens")
	}

	return account, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	if account.TokenVersion != claims.TokenVersion {
		return "", "", ErrInvalidToken
	}

	return utils.GenerateTokens(&models.UserClaims{
		AccountID:    account.ID,
		Email:        account.Email,
		TokenVersion: account.TokenVersion,
	})
}

// Logout invalidates every outstanding token for the account.
func (s *service) Logout(ctx context.Context, accountID uint) error {
	return s.accounts.IncrementTokenVersion(ctx, accountID)
}

func (s *service) ChangePassword(ctx context.Context, accountID uint, oldPassword, newPassword string) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return errors.New("failed to get account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(oldPassword)); err != nil {
		return errors.New("invalid old password")
	}

	if !validation.ValidPassword(newPassword) {
		return ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	account.Password = string(hashed)
	account.TokenVersion++ // Invalidate existing tokens

	if err := s.accounts.Update(ctx, account); err != nil {
		return errors.New("failed to update password")
	}
	return nil
}

func (s *service) GetTokenVersion(ctx context.Context, accountID uint) (int, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return account.TokenVersion, nil
}

func (s *service) GetAccountByID(ctx context.Context, accountID uint) (*models.Account, error) {
	return s.accounts.GetByID(ctx, accountID)
}

func (s *service) getByIdentifier(ctx context.Context, identifier string) (*models.Account, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if strings.Contains(identifier, "@") {
		return s.accounts.GetByEmail(ctx, identifier)
	}
	return s.accounts.GetByUsername(ctx, identifier)
}
