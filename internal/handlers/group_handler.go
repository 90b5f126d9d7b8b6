package handlers

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/pkg/errors"
	"github.com/mehrdadh/hangout_bot/pkg/logger"
)

// HandleNewGroup starts the group creation conversation.
func (h *HandlerManager) HandleNewGroup(userID int64, session *UserSession, bot BotInterface) {
	if _, err := h.UserRepo.GetUserByTelegramID(userID); err != nil {
		bot.SendMessage(userID, "❌ You're not registered yet. Send /start first!", nil)
		return
	}
	session.State = StateNewGroupName
	bot.SendMessage(userID, "👥 What should the group be called?", CancelKeyboard())
}

// HandleGroupCreation consumes the group name message and creates the group.
func (h *HandlerManager) HandleGroupCreation(message *tgbotapi.Message, session *UserSession, bot BotInterface) {
	userID := message.From.ID

	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		session.State = ""
		return
	}

	group, err := h.GroupSvc.CreateGroup(user.ID, message.Text, "")
	if err != nil {
		if errors.Is(err, errors.ErrCodeValidation) {
			bot.SendMessage(userID, "❌ That name won't work. Try a plain name:", nil)
			return
		}
		logger.Error("Failed to create group", "error", err, "user_id", user.ID)
		bot.SendMessage(userID, "⚠️ Couldn't create the group. Try again later.", MainMenuKeyboard())
		session.State = ""
		return
	}

	session.State = ""
	bot.SendMessage(userID, fmt.Sprintf("✅ Group \"%s\" created! You're its admin.", group.Name), nil)
	h.sendGroupMenu(userID, 0, group.ID, bot)
}

// HandleMyGroups lists the user's groups as inline buttons.
func (h *HandlerManager) HandleMyGroups(userID int64, bot BotInterface) {
	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		bot.SendMessage(userID, "❌ You're not registered yet. Send /start first!", nil)
		return
	}

	groups, err := h.GroupSvc.GroupsOf(user.ID)
	if err != nil {
		logger.Error("Failed to list groups", "error", err, "user_id", user.ID)
		bot.SendMessage(userID, "⚠️ Couldn't load your groups. Try again later.", nil)
		return
	}

	if len(groups) == 0 {
		bot.SendMessage(userID, "👥 You're not in any group yet. Create one from the menu!", MainMenuKeyboard())
		return
	}

	bot.SendMessage(userID, "👥 Your groups:", GroupListKeyboard(groups))
}

// HandleInvitations lists pending group invitations.
func (h *HandlerManager) HandleInvitations(userID int64, bot BotInterface) {
	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		return
	}

	invitations, err := h.GroupSvc.PendingInvitationsFor(user.ID)
	if err != nil {
		logger.Error("Failed to list invitations", "error", err, "user_id", user.ID)
		bot.SendMessage(userID, "⚠️ Couldn't load your invitations. Try again later.", nil)
		return
	}

	if len(invitations) == 0 {
		bot.SendMessage(userID, "📭 No pending invitations.", MainMenuKeyboard())
		return
	}

	for _, invitation := range invitations {
		bot.SendMessage(userID,
			fmt.Sprintf("💌 %s invited you to \"%s\"", invitation.Sender.DisplayName, invitation.Group.Name),
			InvitationKeyboard(invitation.ID))
	}
}

// HandleJoinCommand redeems a /join <token> invite link.
func (h *HandlerManager) HandleJoinCommand(userID int64, token string, bot BotInterface) {
	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		bot.SendMessage(userID, "❌ You're not registered yet. Send /start first!", nil)
		return
	}

	token = strings.TrimSpace(token)
	if token == "" {
		bot.SendMessage(userID, "🔗 Usage: /join <invite code>", nil)
		return
	}

	group, err := h.GroupSvc.JoinByInviteToken(token, user.ID)
	if err != nil {
		switch errors.Code(err) {
		case errors.ErrCodeValidation:
			bot.SendMessage(userID, "❌ That invite code is invalid or expired.", nil)
		case errors.ErrCodeConflict:
			bot.SendMessage(userID, "⚠️ You're already a member of that group.", nil)
		default:
			logger.Error("Failed to redeem invite link", "error", err, "user_id", user.ID)
			bot.SendMessage(userID, "⚠️ Couldn't join the group. Try again later.", nil)
		}
		return
	}

	bot.SendMessage(userID, fmt.Sprintf("🎉 Welcome to \"%s\"!", group.Name), MainMenuKeyboard())
}

// HandleGroupCallback resolves the group_* and ginv_* inline button presses.
func (h *HandlerManager) HandleGroupCallback(userID int64, messageID int, data string, bot BotInterface) {
	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		return
	}

	switch {
	case strings.HasPrefix(data, "group_menu_"):
		groupID := parseUint(strings.TrimPrefix(data, "group_menu_"))
		h.sendGroupMenu(userID, messageID, groupID, bot)

	case strings.HasPrefix(data, "group_members_"):
		groupID := parseUint(strings.TrimPrefix(data, "group_members_"))
		h.showMembers(userID, user.ID, groupID, bot)

	case strings.HasPrefix(data, "group_invite_send_"):
		groupID, friendID, ok := parsePair(strings.TrimPrefix(data, "group_invite_send_"))
		if !ok {
			return
		}
		h.sendInvitation(userID, user.ID, groupID, friendID, bot)

	case strings.HasPrefix(data, "group_invite_"):
		groupID := parseUint(strings.TrimPrefix(data, "group_invite_"))
		h.showInvitableFriends(userID, user.ID, groupID, bot)

	case strings.HasPrefix(data, "group_link_"):
		groupID := parseUint(strings.TrimPrefix(data, "group_link_"))
		h.sendInviteLink(userID, user.ID, groupID, bot)

	case strings.HasPrefix(data, "ginv_accept_"):
		invitationID := parseUint(strings.TrimPrefix(data, "ginv_accept_"))
		h.respondInvitation(userID, user.ID, messageID, invitationID, true, bot)

	case strings.HasPrefix(data, "ginv_reject_"):
		invitationID := parseUint(strings.TrimPrefix(data, "ginv_reject_"))
		h.respondInvitation(userID, user.ID, messageID, invitationID, false, bot)
	}
}

func (h *HandlerManager) sendGroupMenu(userID int64, messageID int, groupID uint, bot BotInterface) {
	group, err := h.GroupSvc.GetGroup(groupID)
	if err != nil {
		bot.SendMessage(userID, "❌ Group not found.", nil)
		return
	}

	count, _ := h.GroupSvc.MemberCount(groupID)
	active, err := h.HangoutSvc.ActiveRound(groupID)
	if err != nil {
		logger.Error("Failed to check active round", "error", err, "group_id", groupID)
	}

	text := fmt.Sprintf("👥 %s\n🫂 %d member(s)", group.Name, count)
	if active != nil {
		text += "\n🎉 A hangout round is open — send your constraints!"
	}

	keyboard := GroupMenuKeyboard(groupID, active != nil)
	if messageID != 0 {
		bot.EditMessage(userID, messageID, text, keyboard)
	} else {
		bot.SendMessage(userID, text, keyboard)
	}
}

func (h *HandlerManager) showMembers(userID int64, selfID, groupID uint, bot BotInterface) {
	isMember, err := h.isMember(groupID, selfID)
	if err != nil || !isMember {
		bot.SendMessage(userID, "❌ You're not a member of this group.", nil)
		return
	}

	members, err := h.GroupSvc.MembersOf(groupID)
	if err != nil {
		logger.Error("Failed to list members", "error", err, "group_id", groupID)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🫂 Members (%d):\n\n", len(members))
	for _, member := range members {
		fmt.Fprintf(&b, "• %s\n", member.DisplayName)
	}
	bot.SendMessage(userID, b.String(), nil)
}

func (h *HandlerManager) showInvitableFriends(userID int64, selfID, groupID uint, bot BotInterface) {
	friends, err := h.FriendSvc.FriendsOf(selfID)
	if err != nil {
		logger.Error("Failed to list friends for invite", "error", err, "user_id", selfID)
		return
	}

	members, err := h.GroupSvc.MembersOf(groupID)
	if err != nil {
		return
	}
	memberIDs := make(map[uint]bool, len(members))
	for _, member := range members {
		memberIDs[member.ID] = true
	}

	invitable := make([]models.User, 0, len(friends))
	for _, friend := range friends {
		if !memberIDs[friend.ID] {
			invitable = append(invitable, friend)
		}
	}

	if len(invitable) == 0 {
		bot.SendMessage(userID, "📭 All your friends are already in this group (or you have none to invite yet).", nil)
		return
	}

	bot.SendMessage(userID, "📨 Who do you want to invite?", InviteFriendsKeyboard(groupID, invitable))
}

func (h *HandlerManager) sendInvitation(userID int64, inviterID, groupID, friendID uint, bot BotInterface) {
	invitation, err := h.GroupSvc.InviteMember(groupID, inviterID, friendID)
	if err != nil {
		bot.SendMessage(userID, "⚠️ "+friendlyMessage(err, "Couldn't send that invitation."), nil)
		return
	}

	inviter, _ := h.UserRepo.GetUserByID(inviterID)
	group, _ := h.GroupSvc.GetGroup(groupID)
	if friend, err := h.UserRepo.GetUserByID(friendID); err == nil && inviter != nil && group != nil {
		bot.SendMessage(friend.TelegramID,
			fmt.Sprintf("💌 %s invited you to \"%s\"", inviter.DisplayName, group.Name),
			InvitationKeyboard(invitation.ID))
	}

	bot.SendMessage(userID, "✅ Invitation sent!", nil)
}

func (h *HandlerManager) sendInviteLink(userID int64, selfID, groupID uint, bot BotInterface) {
	token, err := h.GroupSvc.GenerateInviteLink(groupID, selfID)
	if err != nil {
		bot.SendMessage(userID, "⚠️ "+friendlyMessage(err, "Couldn't create an invite link."), nil)
		return
	}

	bot.SendMessage(userID, fmt.Sprintf("🔗 Share this with anyone you want in the group. They join by sending me:\n\n/join %s", token), nil)
}

func (h *HandlerManager) respondInvitation(userID int64, selfID uint, messageID int, invitationID uint, accept bool, bot BotInterface) {
	invitation, err := h.GroupSvc.RespondToInvitation(invitationID, selfID, accept)
	if err != nil {
		bot.EditMessage(userID, messageID, "⚠️ "+friendlyMessage(err, "This invitation can't be answered anymore."), nil)
		return
	}

	if accept {
		if group, err := h.GroupSvc.GetGroup(invitation.GroupID); err == nil {
			bot.EditMessage(userID, messageID, fmt.Sprintf("🎉 You joined \"%s\"!", group.Name), nil)
		} else {
			bot.EditMessage(userID, messageID, "🎉 You joined the group!", nil)
		}
	} else {
		bot.EditMessage(userID, messageID, "❌ Invitation declined.", nil)
	}
}

func (h *HandlerManager) isMember(groupID, userID uint) (bool, error) {
	members, err := h.GroupSvc.MembersOf(groupID)
	if err != nil {
		return false, err
	}
	for _, member := range members {
		if member.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

func parsePair(s string) (uint, uint, bool) {
	parts := strings.SplitN(s, "_", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	return parseUint(parts[0]), parseUint(parts[1]), true
}
