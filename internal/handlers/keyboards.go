package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mehrdadh/hangout_bot/internal/models"
)

// Main menu button labels
const (
	BtnMyProfile      = "👤 My Profile"
	BtnFriends        = "🤝 Friends"
	BtnFriendRequests = "📨 Friend Requests"
	BtnGroups         = "👥 My Groups"
	BtnNewGroup       = "➕ New Group"
	BtnInvitations    = "💌 Invitations"
	BtnCancel         = "❌ Cancel"
)

func MainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnMyProfile),
			tgbotapi.NewKeyboardButton(BtnFriends),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnFriendRequests),
			tgbotapi.NewKeyboardButton(BtnInvitations),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnGroups),
			tgbotapi.NewKeyboardButton(BtnNewGroup),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func CancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnCancel)),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func LocationRequestKeyboard() tgbotapi.ReplyKeyboardMarkup {
	button := tgbotapi.NewKeyboardButton("📍 Share my location")
	button.RequestLocation = true

	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(button),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnCancel)),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func FriendRequestKeyboard(requestID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Accept", fmt.Sprintf("friend_accept_%d", requestID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", fmt.Sprintf("friend_reject_%d", requestID)),
		),
	)
}

func InvitationKeyboard(invitationID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Join", fmt.Sprintf("ginv_accept_%d", invitationID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Decline", fmt.Sprintf("ginv_reject_%d", invitationID)),
		),
	)
}

func GroupListKeyboard(groups []models.Group) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(group.Name, fmt.Sprintf("group_menu_%d", group.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func GroupMenuKeyboard(groupID uint, hasActiveRound bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🫂 Members", fmt.Sprintf("group_members_%d", groupID)),
			tgbotapi.NewInlineKeyboardButtonData("📨 Invite friends", fmt.Sprintf("group_invite_%d", groupID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔗 Invite link", fmt.Sprintf("group_link_%d", groupID)),
		),
	}

	if hasActiveRound {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Round status", fmt.Sprintf("round_status_%d", groupID)),
			tgbotapi.NewInlineKeyboardButtonData("🏁 Close round", fmt.Sprintf("round_close_%d", groupID)),
		))
	} else {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎉 Plan a hangout", fmt.Sprintf("round_open_%d", groupID)),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func InviteFriendsKeyboard(groupID uint, friends []models.User) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(friends))
	for _, friend := range friends {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				friend.DisplayName,
				fmt.Sprintf("group_invite_send_%d_%d", groupID, friend.ID),
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func RespondKeyboard(publicID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Send my constraints", "round_respond_"+publicID),
		),
	)
}
