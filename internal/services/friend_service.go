package services

import (
	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/internal/repositories"
	"github.com/mehrdadh/hangout_bot/pkg/errors"
)

// FriendService owns the friend-request lifecycle and the derived friend
// edge set.
type FriendService struct {
	friendRepo *repositories.FriendRepository
	userRepo   *repositories.UserRepository
}

func NewFriendService(friendRepo *repositories.FriendRepository, userRepo *repositories.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendRequest creates a pending friend request from sender to recipient.
func (s *FriendService) SendRequest(senderID, recipientID uint) (*models.FriendRequest, error) {
	if senderID == recipientID {
		return nil, errors.New(errors.ErrCodeConflict, "cannot send a friend request to yourself")
	}

	if _, err := s.userRepo.GetUserByID(recipientID); err != nil {
		return nil, err
	}

	return s.friendRepo.CreateRequest(senderID, recipientID)
}

// Accept resolves a pending request addressed to actingUser and creates
// the symmetric friend edges.
func (s *FriendService) Accept(requestID, actingUserID uint) (*models.FriendRequest, error) {
	return s.friendRepo.AcceptRequest(requestID, actingUserID)
}

// Reject resolves a pending request addressed to actingUser without
// creating edges.
func (s *FriendService) Reject(requestID, actingUserID uint) error {
	return s.friendRepo.RejectRequest(requestID, actingUserID)
}

// FriendsOf returns the users reachable via the acting user's friend edges.
func (s *FriendService) FriendsOf(userID uint) ([]models.User, error) {
	return s.friendRepo.GetFriends(userID)
}

// PendingRequestsFor returns pending requests addressed to the user,
// newest first, for the notification layer to surface.
func (s *FriendService) PendingRequestsFor(userID uint) ([]models.FriendRequest, error) {
	return s.friendRepo.GetPendingRequests(userID)
}

// AreFriends reports whether two users are connected.
func (s *FriendService) AreFriends(user1ID, user2ID uint) (bool, error) {
	return s.friendRepo.AreFriends(user1ID, user2ID)
}
