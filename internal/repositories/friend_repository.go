package repositories

import (
	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/pkg/errors"
	"gorm.io/gorm"
)

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// CreateRequest creates a new pending friend request. A pending or accepted
// request in either direction blocks a new one; a rejected one does not.
func (r *FriendRepository) CreateRequest(senderID, recipientID uint) (*models.FriendRequest, error) {
	var existing models.FriendRequest
	result := r.db.Where(
		"((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)) AND status <> ?",
		senderID, recipientID, recipientID, senderID, models.FriendRequestStatusRejected,
	).First(&existing)

	if result.Error == nil {
		if existing.Status == models.FriendRequestStatusAccepted {
			return nil, errors.New(errors.ErrCodeConflict, "already friends")
		}
		return nil, errors.New(errors.ErrCodeConflict, "friend request already exists")
	}

	if result.Error != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check existing request")
	}

	request := &models.FriendRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      models.FriendRequestStatusPending,
	}

	if err := r.db.Create(request).Error; err != nil {
		// The partial unique index catches the concurrent double-send
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.New(errors.ErrCodeConflict, "friend request already exists")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create friend request")
	}

	return request, nil
}

// AcceptRequest marks a pending request accepted and creates both friend
// edges in the same transaction. The status-guarded update serializes
// concurrent accept/reject calls: exactly one wins.
func (r *FriendRepository) AcceptRequest(requestID, recipientID uint) (*models.FriendRequest, error) {
	var request models.FriendRequest

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND recipient_id = ?", requestID, recipientID).First(&request)
		if result.Error == gorm.ErrRecordNotFound {
			return errors.New(errors.ErrCodeNotFound, "friend request not found")
		}
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to load friend request")
		}

		update := tx.Model(&models.FriendRequest{}).
			Where("id = ? AND status = ?", requestID, models.FriendRequestStatusPending).
			Update("status", models.FriendRequestStatusAccepted)
		if update.Error != nil {
			return errors.Wrap(update.Error, errors.ErrCodeInternalError, "failed to accept friend request")
		}
		if update.RowsAffected == 0 {
			return errors.New(errors.ErrCodeAlreadyProcessed, "friend request already processed")
		}

		edges := []models.FriendEdge{
			{OwnerID: request.SenderID, FriendID: request.RecipientID, RequestID: request.ID},
			{OwnerID: request.RecipientID, FriendID: request.SenderID, RequestID: request.ID},
		}
		if err := tx.Create(&edges).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create friend edges")
		}

		request.Status = models.FriendRequestStatusAccepted
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &request, nil
}

// RejectRequest marks a pending request rejected. No edges are created and
// a rejected pair may request again later.
func (r *FriendRepository) RejectRequest(requestID, recipientID uint) error {
	var request models.FriendRequest
	result := r.db.Where("id = ? AND recipient_id = ?", requestID, recipientID).First(&request)
	if result.Error == gorm.ErrRecordNotFound {
		return errors.New(errors.ErrCodeNotFound, "friend request not found")
	}
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to load friend request")
	}

	update := r.db.Model(&models.FriendRequest{}).
		Where("id = ? AND status = ?", requestID, models.FriendRequestStatusPending).
		Update("status", models.FriendRequestStatusRejected)
	if update.Error != nil {
		return errors.Wrap(update.Error, errors.ErrCodeInternalError, "failed to reject friend request")
	}
	if update.RowsAffected == 0 {
		return errors.New(errors.ErrCodeAlreadyProcessed, "friend request already processed")
	}

	return nil
}

// GetFriends retrieves the user's friends via the edge set
func (r *FriendRepository) GetFriends(userID uint) ([]models.User, error) {
	var friends []models.User

	err := r.db.Table("users").
		Select("users.*").
		Joins("JOIN friend_edges ON friend_edges.friend_id = users.id").
		Where("friend_edges.owner_id = ?", userID).
		Find(&friends).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friends")
	}

	return friends, nil
}

// GetPendingRequests retrieves pending friend requests addressed to a user,
// newest first
func (r *FriendRepository) GetPendingRequests(userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest

	err := r.db.Where("recipient_id = ? AND status = ?", userID, models.FriendRequestStatusPending).
		Preload("Sender").
		Order("created_at DESC").
		Find(&requests).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get pending requests")
	}

	return requests, nil
}

// AreFriends checks if two users share friend edges
func (r *FriendRepository) AreFriends(user1ID, user2ID uint) (bool, error) {
	var count int64
	result := r.db.Model(&models.FriendEdge{}).
		Where("owner_id = ? AND friend_id = ?", user1ID, user2ID).
		Count(&count)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check friendship")
	}

	return count > 0, nil
}
