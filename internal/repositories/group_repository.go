package repositories

import (
	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/pkg/errors"
	"gorm.io/gorm"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateGroup creates the group and the creator's admin membership in one
// transaction, so a group never exists without at least one member.
func (r *GroupRepository) CreateGroup(group *models.Group) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create group")
		}

		membership := &models.GroupMembership{
			GroupID: group.ID,
			UserID:  group.CreatorID,
			Role:    models.GroupRoleAdmin,
		}
		if err := tx.Create(membership).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create admin membership")
		}

		return nil
	})
}

// GetGroupByID retrieves a group by ID
func (r *GroupRepository) GetGroupByID(groupID uint) (*models.Group, error) {
	var group models.Group
	result := r.db.Preload("Creator").First(&group, groupID)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "group not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get group")
	}

	return &group, nil
}

// IsMember checks whether a user belongs to a group
func (r *GroupRepository) IsMember(groupID, userID uint) (bool, error) {
	var count int64
	result := r.db.Model(&models.GroupMembership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check membership")
	}

	return count > 0, nil
}

// GetMembers returns the current roster
func (r *GroupRepository) GetMembers(groupID uint) ([]models.User, error) {
	var members []models.User

	err := r.db.Table("users").
		Select("users.*").
		Joins("JOIN group_memberships ON group_memberships.user_id = users.id").
		Where("group_memberships.group_id = ?", groupID).
		Find(&members).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get members")
	}

	return members, nil
}

// MemberCount counts the roster without loading member rows
func (r *GroupRepository) MemberCount(groupID uint) (int64, error) {
	var count int64
	result := r.db.Model(&models.GroupMembership{}).
		Where("group_id = ?", groupID).
		Count(&count)

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count members")
	}

	return count, nil
}

// GetUserGroups returns the groups a user belongs to
func (r *GroupRepository) GetUserGroups(userID uint) ([]models.Group, error) {
	var groups []models.Group

	err := r.db.Table("groups").
		Select("groups.*").
		Joins("JOIN group_memberships ON group_memberships.group_id = groups.id").
		Where("group_memberships.user_id = ?", userID).
		Order("groups.created_at DESC").
		Find(&groups).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get user groups")
	}

	return groups, nil
}

// CreateInvitation creates a pending invitation. An existing membership or
// pending invitation for the recipient is a conflict.
func (r *GroupRepository) CreateInvitation(groupID, senderID, recipientID uint) (*models.GroupInvitation, error) {
	isMember, err := r.IsMember(groupID, recipientID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, errors.New(errors.ErrCodeConflict, "user is already a member")
	}

	invitation := &models.GroupInvitation{
		GroupID:     groupID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      models.InvitationStatusPending,
	}

	if err := r.db.Create(invitation).Error; err != nil {
		// Pending invitations are unique per (group, recipient)
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.New(errors.ErrCodeConflict, "invitation already pending")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create invitation")
	}

	return invitation, nil
}

// GetPendingInvitations retrieves pending invitations addressed to a user
func (r *GroupRepository) GetPendingInvitations(userID uint) ([]models.GroupInvitation, error) {
	var invitations []models.GroupInvitation

	err := r.db.Where("recipient_id = ? AND status = ?", userID, models.InvitationStatusPending).
		Preload("Group").
		Preload("Sender").
		Order("created_at DESC").
		Find(&invitations).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get pending invitations")
	}

	return invitations, nil
}

// RespondInvitation resolves a pending invitation. Accepting creates the
// membership in the same transaction; the status-guarded update makes the
// loser of a concurrent double-respond fail with AlreadyProcessed.
func (r *GroupRepository) RespondInvitation(invitationID, recipientID uint, accept bool) (*models.GroupInvitation, error) {
	var invitation models.GroupInvitation

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND recipient_id = ?", invitationID, recipientID).First(&invitation)
		if result.Error == gorm.ErrRecordNotFound {
			return errors.New(errors.ErrCodeNotFound, "invitation not found")
		}
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to load invitation")
		}

		newStatus := models.InvitationStatusRejected
		if accept {
			newStatus = models.InvitationStatusAccepted
		}

		update := tx.Model(&models.GroupInvitation{}).
			Where("id = ? AND status = ?", invitationID, models.InvitationStatusPending).
			Update("status", newStatus)
		if update.Error != nil {
			return errors.Wrap(update.Error, errors.ErrCodeInternalError, "failed to update invitation")
		}
		if update.RowsAffected == 0 {
			return errors.New(errors.ErrCodeAlreadyProcessed, "invitation already processed")
		}

		invitation.Status = newStatus

		if accept {
			membership := &models.GroupMembership{
				GroupID: invitation.GroupID,
				UserID:  invitation.RecipientID,
				Role:    models.GroupRoleMember,
			}
			if err := tx.Create(membership).Error; err != nil {
				if err == gorm.ErrDuplicatedKey {
					return errors.New(errors.ErrCodeConflict, "user is already a member")
				}
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create membership")
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// AddMember inserts a membership directly, used by the invite-link join path
func (r *GroupRepository) AddMember(groupID, userID uint, role string) error {
	membership := &models.GroupMembership{
		GroupID: groupID,
		UserID:  userID,
		Role:    role,
	}

	if err := r.db.Create(membership).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return errors.New(errors.ErrCodeConflict, "user is already a member")
		}
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to add member")
	}

	return nil
}
