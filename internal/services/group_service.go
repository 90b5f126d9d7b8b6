package services

import (
	"time"

	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/internal/repositories"
	"github.com/mehrdadh/hangout_bot/internal/security"
	"github.com/mehrdadh/hangout_bot/pkg/errors"
)

// GroupService owns group creation, the invitation lifecycle, and
// membership derivation.
type GroupService struct {
	groupRepo *repositories.GroupRepository
	userRepo  *repositories.UserRepository

	jwtSecret     string
	inviteLinkTTL time.Duration
}

func NewGroupService(groupRepo *repositories.GroupRepository, userRepo *repositories.UserRepository, jwtSecret string, inviteLinkTTL time.Duration) *GroupService {
	return &GroupService{
		groupRepo:     groupRepo,
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		inviteLinkTTL: inviteLinkTTL,
	}
}

// CreateGroup creates a group whose creator becomes its first admin member.
func (s *GroupService) CreateGroup(creatorID uint, name, description string) (*models.Group, error) {
	name = security.CleanText(name)
	description = security.CleanText(description)

	if name == "" {
		return nil, errors.New(errors.ErrCodeValidation, "group name must not be empty")
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		CreatorID:   creatorID,
	}

	if err := s.groupRepo.CreateGroup(group); err != nil {
		return nil, err
	}

	return group, nil
}

// InviteMember creates a pending invitation. Any current member may invite.
func (s *GroupService) InviteMember(groupID, inviterID, recipientID uint) (*models.GroupInvitation, error) {
	isMember, err := s.groupRepo.IsMember(groupID, inviterID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, errors.New(errors.ErrCodeForbidden, "only group members can invite")
	}

	if _, err := s.userRepo.GetUserByID(recipientID); err != nil {
		return nil, err
	}

	return s.groupRepo.CreateInvitation(groupID, inviterID, recipientID)
}

// InviteMembers invites a batch of recipients. Each recipient resolves
// independently; the returned map carries the per-recipient outcome.
func (s *GroupService) InviteMembers(groupID, inviterID uint, recipientIDs []uint) (map[uint]error, error) {
	isMember, err := s.groupRepo.IsMember(groupID, inviterID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, errors.New(errors.ErrCodeForbidden, "only group members can invite")
	}

	outcomes := make(map[uint]error, len(recipientIDs))
	for _, recipientID := range recipientIDs {
		_, err := s.groupRepo.CreateInvitation(groupID, inviterID, recipientID)
		outcomes[recipientID] = err
	}

	return outcomes, nil
}

// RespondToInvitation accepts or rejects a pending invitation addressed to
// actingUser. Accepting creates the membership atomically.
func (s *GroupService) RespondToInvitation(invitationID, actingUserID uint, accept bool) (*models.GroupInvitation, error) {
	return s.groupRepo.RespondInvitation(invitationID, actingUserID, accept)
}

// PendingInvitationsFor returns pending invitations addressed to the user.
func (s *GroupService) PendingInvitationsFor(userID uint) ([]models.GroupInvitation, error) {
	return s.groupRepo.GetPendingInvitations(userID)
}

// MembersOf returns the group roster, the hangout participant universe.
func (s *GroupService) MembersOf(groupID uint) ([]models.User, error) {
	return s.groupRepo.GetMembers(groupID)
}

// MemberCount counts the roster without loading rows.
func (s *GroupService) MemberCount(groupID uint) (int64, error) {
	return s.groupRepo.MemberCount(groupID)
}

// GroupsOf returns the groups a user belongs to.
func (s *GroupService) GroupsOf(userID uint) ([]models.Group, error) {
	return s.groupRepo.GetUserGroups(userID)
}

// GetGroup returns a single group.
func (s *GroupService) GetGroup(groupID uint) (*models.Group, error) {
	return s.groupRepo.GetGroupByID(groupID)
}

// GenerateInviteLink signs a join token a member can share outside their
// friend list.
func (s *GroupService) GenerateInviteLink(groupID, inviterID uint) (string, error) {
	isMember, err := s.groupRepo.IsMember(groupID, inviterID)
	if err != nil {
		return "", err
	}
	if !isMember {
		return "", errors.New(errors.ErrCodeForbidden, "only group members can create invite links")
	}

	return security.GenerateInviteToken(groupID, inviterID, s.jwtSecret, s.inviteLinkTTL)
}

// JoinByInviteToken redeems a signed invite link for a membership.
func (s *GroupService) JoinByInviteToken(token string, userID uint) (*models.Group, error) {
	claims, err := security.ParseInviteToken(token, s.jwtSecret)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid or expired invite link")
	}

	group, err := s.groupRepo.GetGroupByID(claims.GroupID)
	if err != nil {
		return nil, err
	}

	if err := s.groupRepo.AddMember(group.ID, userID, models.GroupRoleMember); err != nil {
		return nil, err
	}

	return group, nil
}
