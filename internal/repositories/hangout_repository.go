package repositories

import (
	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/pkg/errors"
	"gorm.io/gorm"
)

type HangoutRepository struct {
	db *gorm.DB
}

func NewHangoutRepository(db *gorm.DB) *HangoutRepository {
	return &HangoutRepository{db: db}
}

// CreateRequest opens a round. The partial unique index on
// (group_id) WHERE status = 'active' decides the concurrent double-open
// race: the second insert fails and is reported as a conflict.
func (r *HangoutRepository) CreateRequest(groupID, creatorID uint) (*models.HangoutRequest, error) {
	request := &models.HangoutRequest{
		GroupID:   groupID,
		CreatorID: creatorID,
		Status:    models.HangoutStatusActive,
	}

	if err := r.db.Create(request).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.New(errors.ErrCodeConflict, "a round is already active for this group")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to open round")
	}

	return request, nil
}

// GetRequestByID retrieves a hangout request by internal ID
func (r *HangoutRepository) GetRequestByID(requestID uint) (*models.HangoutRequest, error) {
	var request models.HangoutRequest
	result := r.db.Preload("Group").First(&request, requestID)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "round not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get round")
	}

	return &request, nil
}

// GetRequestByPublicID retrieves a hangout request by its public ID
func (r *HangoutRepository) GetRequestByPublicID(publicID string) (*models.HangoutRequest, error) {
	var request models.HangoutRequest
	result := r.db.Preload("Group").Where("public_id = ?", publicID).First(&request)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "round not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get round")
	}

	return &request, nil
}

// GetActiveRequest returns the group's active round, if any
func (r *HangoutRepository) GetActiveRequest(groupID uint) (*models.HangoutRequest, error) {
	var request models.HangoutRequest
	result := r.db.Where("group_id = ? AND status = ?", groupID, models.HangoutStatusActive).
		First(&request)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get active round")
	}

	return &request, nil
}

// GetLatestRequest returns the group's most recent round regardless of status
func (r *HangoutRepository) GetLatestRequest(groupID uint) (*models.HangoutRequest, error) {
	var request models.HangoutRequest
	result := r.db.Where("group_id = ?", groupID).
		Order("created_at DESC").
		First(&request)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get latest round")
	}

	return &request, nil
}

// CreateResponse stores one member's constraints for a round. The unique
// index on (request_id, user_id) serializes the duplicate-submit race.
func (r *HangoutRepository) CreateResponse(response *models.HangoutResponse) error {
	if err := r.db.Create(response).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return errors.New(errors.ErrCodeConflict, "response already submitted for this round")
		}
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to submit response")
	}

	return nil
}

// CountResponses re-reads the current response count for a round
func (r *HangoutRepository) CountResponses(requestID uint) (int64, error) {
	var count int64
	result := r.db.Model(&models.HangoutResponse{}).
		Where("request_id = ?", requestID).
		Count(&count)

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count responses")
	}

	return count, nil
}

// GetResponses loads all responses for a round with their submitters
func (r *HangoutRepository) GetResponses(requestID uint) ([]models.HangoutResponse, error) {
	var responses []models.HangoutResponse

	err := r.db.Where("request_id = ?", requestID).
		Preload("User").
		Order("created_at ASC").
		Find(&responses).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get responses")
	}

	return responses, nil
}

// CompleteRequest is the single terminal transition for a round. The
// status guard makes a second close fail rather than re-complete.
func (r *HangoutRepository) CompleteRequest(requestID uint) error {
	result := r.db.Model(&models.HangoutRequest{}).
		Where("id = ? AND status = ?", requestID, models.HangoutStatusActive).
		Update("status", models.HangoutStatusCompleted)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to complete round")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeInvalidState, "round is not active")
	}

	return nil
}
