package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"prediction-engine/internal/models"
	"prediction-engine/internal/repository"
	"prediction-engine/internal/utils"

	"gorm.io/gorm"
)

// UserService handles wallet onboarding and the points ledger
type UserService struct {
	repo          *repository.Repository
	signupBalance int64
}

// NewUserService creates a new user service. signupBalance is credited
// to every newly registered wallet.
func NewUserService(repo *repository.Repository, signupBalance int64) *UserService {
	return &UserService{repo: repo, signupBalance: signupBalance}
}

// ProcessWalletLogin finds or creates a user by wallet address. New
// users get a generated username and the signup points balance.
func (s *UserService) ProcessWalletLogin(ctx context.Context, walletAddress string) (*models.User, error) {
	user, err := s.repo.GetUserByWallet(ctx, walletAddress)
	if err == nil {
		log.Printf("[UserService] User logged in: wallet=%s (ID: %d)", walletAddress, user.ID)
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: load user: %v", ErrStoreUnavailable, err)
	}

	username, err := utils.GenerateUsername()
	if err != nil {
		return nil, fmt.Errorf("generate username: %w", err)
	}

	user = &models.User{
		WalletAddress: walletAddress,
		Username:      username,
		PointsBalance: s.signupBalance,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		// Concurrent registration of the same wallet: fall back to the
		// row that won
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.repo.GetUserByWallet(ctx, walletAddress)
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrStoreUnavailable, err)
	}

	if s.signupBalance > 0 {
		bonus := &models.PointsTransaction{
			UserID:      user.ID,
			Type:        "signup_bonus",
			Amount:      s.signupBalance,
			Description: "Initial points balance",
		}
		if err := s.repo.CreatePointsTransaction(ctx, bonus); err != nil {
			log.Printf("[UserService] Warning: failed to record signup bonus for user %d: %v", user.ID, err)
		}
	}

	log.Printf("[UserService] New user created: wallet=%s (ID: %d)", walletAddress, user.ID)
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("%w: load user: %v", ErrStoreUnavailable, err)
	}
	return user, nil
}

// GetBalance reads a user's current points balance
func (s *UserService) GetBalance(ctx context.Context, userID uint) (int64, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.PointsBalance, nil
}

// CreditBalance atomically adds a non-negative amount to a user's
// balance and returns the new balance
func (s *UserService) CreditBalance(ctx context.Context, userID uint, amount int64) (int64, error) {
	if amount < 0 {
		return 0, errors.New("credit amount must be non-negative")
	}

	newBalance, err := s.repo.CreditBalance(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("%w: credit balance: %v", ErrStoreUnavailable, err)
	}
	return newBalance, nil
}

// GetUserWagers retrieves a user's wager history
func (s *UserService) GetUserWagers(ctx context.Context, userID uint, limit, offset int) ([]models.Wager, error) {
	wagers, err := s.repo.GetWagersByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: load wagers: %v", ErrStoreUnavailable, err)
	}
	return wagers, nil
}
