package repository

import (
	"context"

	"prediction-engine/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying handle for transaction scoping
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// WithTx returns a Repository bound to the given transaction handle
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreatePrediction creates a new prediction together with its options
func (r *Repository) CreatePrediction(ctx context.Context, prediction *models.Prediction) error {
	return r.db.WithContext(ctx).Create(prediction).Error
}

// GetPredictionByID retrieves a prediction with its options
func (r *Repository) GetPredictionByID(ctx context.Context, predictionID uuid.UUID) (*models.Prediction, error) {
	var prediction models.Prediction
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("prediction_options.position ASC")
		}).
		Where("id = ?", predictionID).
		First(&prediction).Error
	if err != nil {
		return nil, err
	}
	return &prediction, nil
}

// ListPredictions retrieves predictions filtered by status
func (r *Repository) ListPredictions(ctx context.Context, status string, limit, offset int) ([]models.Prediction, error) {
	var predictions []models.Prediction
	query := r.db.WithContext(ctx).Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("prediction_options.position ASC")
	})

	if status != "" {
		query = query.Where("status = ?", status)
	}

	err := query.
		Order("close_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

// TransitionPredictionStatus performs a compare-and-set status update.
// It returns the number of rows affected: 0 means the prediction was not
// in any of the expected statuses and the transition must be rejected.
func (r *Repository) TransitionPredictionStatus(
	ctx context.Context,
	predictionID uuid.UUID,
	from []models.PredictionStatus,
	updates map[string]interface{},
) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Prediction{}).
		Where("id = ? AND status IN ?", predictionID, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// ListExpiredOpenPredictions retrieves open predictions whose close date
// has passed, for the auto-closure job
func (r *Repository) ListExpiredOpenPredictions(ctx context.Context, limit int) ([]models.Prediction, error) {
	var predictions []models.Prediction
	err := r.db.WithContext(ctx).
		Where("status = ? AND close_date <= CURRENT_TIMESTAMP", models.PredictionStatusOpen).
		Order("close_date ASC").
		Limit(limit).
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

// CreateWager inserts a wager. A violation of the (user_id, prediction_id)
// unique index surfaces as gorm.ErrDuplicatedKey.
func (r *Repository) CreateWager(ctx context.Context, wager *models.Wager) error {
	return r.db.WithContext(ctx).Create(wager).Error
}

// GetWager retrieves a user's wager on a prediction
func (r *Repository) GetWager(ctx context.Context, userID uint, predictionID uuid.UUID) (*models.Wager, error) {
	var wager models.Wager
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND prediction_id = ?", userID, predictionID).
		First(&wager).Error
	if err != nil {
		return nil, err
	}
	return &wager, nil
}

// GetWagersByPrediction retrieves all wagers placed on a prediction
func (r *Repository) GetWagersByPrediction(ctx context.Context, predictionID uuid.UUID) ([]models.Wager, error) {
	var wagers []models.Wager
	err := r.db.WithContext(ctx).
		Where("prediction_id = ?", predictionID).
		Order("created_at ASC").
		Find(&wagers).Error
	if err != nil {
		return nil, err
	}
	return wagers, nil
}

// GetWagersByUser retrieves all wagers placed by a user
func (r *Repository) GetWagersByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Wager, error) {
	var wagers []models.Wager
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&wagers).Error
	if err != nil {
		return nil, err
	}
	return wagers, nil
}

// SettleWager records the outcome of a wager. The points_earned IS NULL
// guard makes resolution replay safe: a wager already settled by an
// earlier attempt is skipped, so no user is ever credited twice.
func (r *Repository) SettleWager(
	ctx context.Context,
	wagerID uuid.UUID,
	pointsEarned int64,
	isCorrect bool,
) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Wager{}).
		Where("id = ? AND points_earned IS NULL", wagerID).
		Updates(map[string]interface{}{
			"points_earned": pointsEarned,
			"is_correct":    isCorrect,
			"resolved_at":   gorm.Expr("CURRENT_TIMESTAMP"),
		})
	return result.RowsAffected, result.Error
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByWallet retrieves a user by wallet address
func (r *Repository) GetUserByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("wallet_address = ?", walletAddress).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new user
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// CreditBalance atomically increments a user's points balance and
// returns the new balance
func (r *Repository) CreditBalance(ctx context.Context, userID uint, amount int64) (int64, error) {
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("points_balance", gorm.Expr("points_balance + ?", amount)).Error
	if err != nil {
		return 0, err
	}

	var user models.User
	if err := r.db.WithContext(ctx).Select("points_balance").Where("id = ?", userID).First(&user).Error; err != nil {
		return 0, err
	}
	return user.PointsBalance, nil
}

// GetUsernames resolves a set of user IDs to usernames
func (r *Repository) GetUsernames(ctx context.Context, userIDs []uint) (map[uint]string, error) {
	if len(userIDs) == 0 {
		return map[uint]string{}, nil
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Select("id", "username").
		Where("id IN ?", userIDs).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names, nil
}

// CreatePointsTransaction records a ledger entry
func (r *Repository) CreatePointsTransaction(ctx context.Context, tx *models.PointsTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}
