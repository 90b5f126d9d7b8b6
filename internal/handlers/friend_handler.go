package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mehrdadh/hangout_bot/pkg/errors"
	"github.com/mehrdadh/hangout_bot/pkg/logger"
)

// HandleAddFriend sends a friend request to the user behind an add_<id>
// deep link.
func (h *HandlerManager) HandleAddFriend(userID int64, targetUserID uint, bot BotInterface) {
	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		bot.SendMessage(userID, "❌ You're not registered yet. Send /start first!", nil)
		return
	}

	request, err := h.FriendSvc.SendRequest(user.ID, targetUserID)
	if err != nil {
		switch errors.Code(err) {
		case errors.ErrCodeConflict:
			bot.SendMessage(userID, "⚠️ "+friendlyMessage(err, "You two are already connected or a request is pending."), nil)
		case errors.ErrCodeNotFound:
			bot.SendMessage(userID, "❌ That user doesn't exist.", nil)
		default:
			logger.Error("Failed to send friend request", "error", err, "sender_id", user.ID, "recipient_id", targetUserID)
			bot.SendMessage(userID, "⚠️ Couldn't send the request. Try again later.", nil)
		}
		return
	}

	if target, err := h.UserRepo.GetUserByID(targetUserID); err == nil {
		bot.SendMessage(target.TelegramID,
			fmt.Sprintf("👋 %s wants to be your friend!", user.DisplayName),
			FriendRequestKeyboard(request.ID))
	}

	bot.SendMessage(userID, "✅ Friend request sent!", MainMenuKeyboard())
}

// HandleFriendRequests lists pending incoming requests, each with
// accept/reject buttons.
func (h *HandlerManager) HandleFriendRequests(userID int64, bot BotInterface) {
	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		return
	}

	requests, err := h.FriendSvc.PendingRequestsFor(user.ID)
	if err != nil {
		logger.Error("Failed to list friend requests", "error", err, "user_id", user.ID)
		bot.SendMessage(userID, "⚠️ Couldn't load your requests. Try again later.", nil)
		return
	}

	if len(requests) == 0 {
		bot.SendMessage(userID, "📭 No pending friend requests.", MainMenuKeyboard())
		return
	}

	for _, request := range requests {
		bot.SendMessage(userID,
			fmt.Sprintf("📨 Friend request from %s", request.Sender.DisplayName),
			FriendRequestKeyboard(request.ID))
	}
}

// HandleFriendList shows the user's friends.
func (h *HandlerManager) HandleFriendList(userID int64, bot BotInterface) {
	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		return
	}

	friends, err := h.FriendSvc.FriendsOf(user.ID)
	if err != nil {
		logger.Error("Failed to list friends", "error", err, "user_id", user.ID)
		bot.SendMessage(userID, "⚠️ Couldn't load your friends. Try again later.", nil)
		return
	}

	if len(friends) == 0 {
		bot.SendMessage(userID,
			fmt.Sprintf("🤝 No friends yet. Share your link to connect:\nhttps://t.me/%s?start=add_%d", bot.BotUsername(), user.ID),
			MainMenuKeyboard())
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🤝 Your friends (%d):\n\n", len(friends))
	for _, friend := range friends {
		fmt.Fprintf(&b, "• %s\n", friend.DisplayName)
	}
	bot.SendMessage(userID, b.String(), MainMenuKeyboard())
}

// HandleFriendCallback resolves friend_accept_<id> and friend_reject_<id>
// inline button presses.
func (h *HandlerManager) HandleFriendCallback(userID int64, messageID int, data string, bot BotInterface) {
	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		return
	}

	switch {
	case strings.HasPrefix(data, "friend_accept_"):
		requestID := parseUint(strings.TrimPrefix(data, "friend_accept_"))
		request, err := h.FriendSvc.Accept(requestID, user.ID)
		if err != nil {
			bot.EditMessage(userID, messageID, "⚠️ "+friendlyMessage(err, "This request can't be accepted anymore."), nil)
			return
		}
		bot.EditMessage(userID, messageID, "✅ You're friends now!", nil)
		if sender, err := h.UserRepo.GetUserByID(request.SenderID); err == nil {
			bot.SendMessage(sender.TelegramID, fmt.Sprintf("🎉 %s accepted your friend request!", user.DisplayName), nil)
		}

	case strings.HasPrefix(data, "friend_reject_"):
		requestID := parseUint(strings.TrimPrefix(data, "friend_reject_"))
		if err := h.FriendSvc.Reject(requestID, user.ID); err != nil {
			bot.EditMessage(userID, messageID, "⚠️ "+friendlyMessage(err, "This request can't be rejected anymore."), nil)
			return
		}
		bot.EditMessage(userID, messageID, "❌ Request rejected.", nil)
	}
}

func parseUint(s string) uint {
	value, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(value)
}

// friendlyMessage prefers the service's own message for errors meant for
// users, with a fallback for anything internal.
func friendlyMessage(err error, fallback string) string {
	if appErr, ok := err.(*errors.AppError); ok {
		switch appErr.Code {
		case errors.ErrCodeValidation, errors.ErrCodeConflict, errors.ErrCodeForbidden,
			errors.ErrCodeAlreadyProcessed, errors.ErrCodeInvalidState, errors.ErrCodeNotFound:
			return appErr.Message
		}
	}
	return fallback
}
