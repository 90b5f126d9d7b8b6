package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mehrdadh/hangout_bot/internal/services"
	"github.com/mehrdadh/hangout_bot/pkg/errors"
	"github.com/mehrdadh/hangout_bot/pkg/logger"
)

// closeTimeout bounds the recommendation call, which may hit the external
// place search.
const closeTimeout = 15 * time.Second

// HandleHangoutCallback resolves the round_* inline button presses.
func (h *HandlerManager) HandleHangoutCallback(userID int64, messageID int, data string, session *UserSession, bot BotInterface) {
	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		return
	}

	switch {
	case strings.HasPrefix(data, "round_open_"):
		groupID := parseUint(strings.TrimPrefix(data, "round_open_"))
		h.openRound(userID, user.ID, groupID, bot)

	case strings.HasPrefix(data, "round_respond_"):
		publicID := strings.TrimPrefix(data, "round_respond_")
		session.RoundPublicID = publicID
		session.State = StateRoundPrice
		bot.SendMessage(userID, "💰 What's the most you want to spend per person? Send a number (e.g. 30):", CancelKeyboard())

	case strings.HasPrefix(data, "round_status_"):
		groupID := parseUint(strings.TrimPrefix(data, "round_status_"))
		h.showReadiness(userID, groupID, bot)

	case strings.HasPrefix(data, "round_close_"):
		groupID := parseUint(strings.TrimPrefix(data, "round_close_"))
		h.closeRound(userID, user.ID, groupID, bot)
	}
}

func (h *HandlerManager) openRound(userID int64, creatorID, groupID uint, bot BotInterface) {
	round, err := h.HangoutSvc.OpenRound(groupID, creatorID)
	if err != nil {
		bot.SendMessage(userID, "⚠️ "+friendlyMessage(err, "Couldn't open a round."), nil)
		return
	}

	group, err := h.GroupSvc.GetGroup(groupID)
	if err != nil {
		return
	}
	creator, _ := h.UserRepo.GetUserByID(creatorID)
	creatorName := "Someone"
	if creator != nil {
		creatorName = creator.DisplayName
	}

	members, err := h.GroupSvc.MembersOf(groupID)
	if err != nil {
		logger.Error("Failed to load members for round announcement", "error", err, "group_id", groupID)
		return
	}

	announcement := fmt.Sprintf("🎉 %s wants to hang out with \"%s\"!\n\nSend your constraints so I can pick a spot that works for everyone.", creatorName, group.Name)
	for _, member := range members {
		bot.SendMessage(member.TelegramID, announcement, RespondKeyboard(round.PublicID))
	}
}

// HandleConstraintConversation advances the price → distance → time →
// preference conversation one message at a time.
func (h *HandlerManager) HandleConstraintConversation(message *tgbotapi.Message, session *UserSession, bot BotInterface) {
	userID := message.From.ID
	text := strings.TrimSpace(message.Text)

	switch session.State {
	case StateRoundPrice:
		price, err := strconv.Atoi(text)
		if err != nil || price <= 0 {
			bot.SendMessage(userID, "❌ Send a whole number above zero (e.g. 30):", nil)
			return
		}
		session.DraftPrice = price
		session.State = StateRoundDistance
		bot.SendMessage(userID, "🚗 How far are you willing to travel, in km? (e.g. 10 or 7.5):", CancelKeyboard())

	case StateRoundDistance:
		distance, err := strconv.ParseFloat(text, 64)
		if err != nil || distance <= 0 {
			bot.SendMessage(userID, "❌ Send a number above zero (e.g. 10):", nil)
			return
		}
		session.DraftDistance = distance
		session.State = StateRoundTime
		bot.SendMessage(userID, "🕐 What time suits you best? Send an hour from 0 to 24 (e.g. 19 or 19.5 for half past):", CancelKeyboard())

	case StateRoundTime:
		timeOfDay, err := strconv.ParseFloat(text, 64)
		if err != nil || timeOfDay < 0 || timeOfDay > 24 {
			bot.SendMessage(userID, "❌ Send an hour between 0 and 24 (e.g. 19):", nil)
			return
		}
		session.DraftTime = timeOfDay
		session.State = StateRoundPreference
		bot.SendMessage(userID, "🍕 Anything you're in the mood for? (e.g. \"sushi or a quiet cafe\") Send - to skip:", CancelKeyboard())

	case StateRoundPreference:
		preference := text
		if preference == "-" {
			preference = ""
		}
		h.submitConstraints(message, session, preference, bot)

	default:
		logger.Warn("Unknown constraint state", "state", session.State, "telegram_id", userID)
	}
}

func (h *HandlerManager) submitConstraints(message *tgbotapi.Message, session *UserSession, preference string, bot BotInterface) {
	userID := message.From.ID

	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		session.State = ""
		return
	}

	round, err := h.HangoutSvc.GetRound(session.RoundPublicID)
	if err != nil {
		session.State = ""
		session.RoundPublicID = ""
		bot.SendMessage(userID, "⚠️ That round doesn't exist anymore.", MainMenuKeyboard())
		return
	}

	constraints := services.Constraints{
		PriceLimit:      session.DraftPrice,
		DistanceLimitKm: session.DraftDistance,
		TimeOfDay:       session.DraftTime,
		Preference:      preference,
	}

	if _, err := h.HangoutSvc.SubmitResponse(round.ID, user.ID, constraints); err != nil {
		session.State = ""
		session.RoundPublicID = ""
		switch errors.Code(err) {
		case errors.ErrCodeConflict:
			bot.SendMessage(userID, "⚠️ You already answered this round.", MainMenuKeyboard())
		case errors.ErrCodeInvalidState:
			bot.SendMessage(userID, "⚠️ This round is already closed.", MainMenuKeyboard())
		default:
			bot.SendMessage(userID, "⚠️ "+friendlyMessage(err, "Couldn't record your answer."), MainMenuKeyboard())
		}
		return
	}

	session.State = ""
	session.RoundPublicID = ""

	readiness, err := h.HangoutSvc.GetReadiness(round.ID)
	if err != nil {
		bot.SendMessage(userID, "✅ Got it, your constraints are in!", MainMenuKeyboard())
		return
	}
	bot.SendMessage(userID,
		fmt.Sprintf("✅ Got it! %d of %d members have answered so far.", readiness.ResponsesReceived, readiness.TotalMembers),
		MainMenuKeyboard())
}

func (h *HandlerManager) showReadiness(userID int64, groupID uint, bot BotInterface) {
	round, err := h.HangoutSvc.ActiveRound(groupID)
	if err != nil || round == nil {
		bot.SendMessage(userID, "📭 No round is open for this group right now.", nil)
		return
	}

	readiness, err := h.HangoutSvc.GetReadiness(round.ID)
	if err != nil {
		logger.Error("Failed to get readiness", "error", err, "request_id", round.ID)
		return
	}

	bot.SendMessage(userID,
		fmt.Sprintf("📊 %d of %d members have sent their constraints.", readiness.ResponsesReceived, readiness.TotalMembers),
		RespondKeyboard(round.PublicID))
}

func (h *HandlerManager) closeRound(userID int64, actingUserID, groupID uint, bot BotInterface) {
	round, err := h.HangoutSvc.ActiveRound(groupID)
	if err != nil || round == nil {
		bot.SendMessage(userID, "📭 No round is open for this group right now.", nil)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	candidates, err := h.HangoutSvc.CloseRound(ctx, round.ID, actingUserID)
	if err != nil {
		bot.SendMessage(userID, "⚠️ "+friendlyMessage(err, "Couldn't close the round."), nil)
		return
	}

	group, err := h.GroupSvc.GetGroup(groupID)
	if err != nil {
		return
	}
	members, err := h.GroupSvc.MembersOf(groupID)
	if err != nil {
		logger.Error("Failed to load members for results", "error", err, "group_id", groupID)
		return
	}

	text := formatCandidates(group.Name, candidates)
	for _, member := range members {
		bot.SendMessage(member.TelegramID, text, nil)
	}
}

func formatCandidates(groupName string, candidates []services.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏁 The \"%s\" round is closed!\n\n", groupName)

	if len(candidates) == 0 {
		b.WriteString("😕 Nothing matched everyone's constraints. Maybe loosen the budget or distance next time?")
		return b.String()
	}

	b.WriteString("Here's where you could go:\n\n")
	for i, candidate := range candidates {
		fmt.Fprintf(&b, "%d. %s (%s)\n   %.1f km away · %s · ⭐ %.1f\n",
			i+1, candidate.Name, candidate.Category,
			candidate.DistanceKm, priceTag(candidate.PriceTier), candidate.Rating)
		if candidate.Description != "" {
			fmt.Fprintf(&b, "   %s\n", candidate.Description)
		}
	}
	return b.String()
}

func priceTag(tier int) string {
	if tier < 1 {
		tier = 1
	}
	if tier > 4 {
		tier = 4
	}
	return strings.Repeat("$", tier)
}
