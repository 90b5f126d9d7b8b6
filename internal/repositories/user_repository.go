package repositories

import (
	"time"

	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser registers a new user
func (r *UserRepository) CreateUser(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return errors.New(errors.ErrCodeConflict, "user already registered")
		}
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

// GetUserByTelegramID retrieves a user by their Telegram ID
func (r *UserRepository) GetUserByTelegramID(telegramID int64) (*models.User, error) {
	var user models.User
	result := r.db.Where("telegram_id = ?", telegramID).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// GetUserByID retrieves a user by internal ID
func (r *UserRepository) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, userID)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// GetUsersByIDs loads a batch of users; missing IDs are silently absent
func (r *UserRepository) GetUsersByIDs(userIDs []uint) ([]models.User, error) {
	var users []models.User
	if len(userIDs) == 0 {
		return users, nil
	}

	if err := r.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get users")
	}

	return users, nil
}

// UpdateProfile applies a partial profile update
func (r *UserRepository) UpdateProfile(userID uint, updates map[string]interface{}) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update profile")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}

	return nil
}

// UpdateLocation updates user's latitude and longitude
func (r *UserRepository) UpdateLocation(userID uint, lat, lng float64) error {
	return r.UpdateProfile(userID, map[string]interface{}{
		"latitude":  lat,
		"longitude": lng,
	})
}

// UpdateLastActivity bumps the activity timestamp
func (r *UserRepository) UpdateLastActivity(userID uint) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_activity", time.Now().UTC()).Error
}
