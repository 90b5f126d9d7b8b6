package handlers

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/internal/security"
	"github.com/mehrdadh/hangout_bot/pkg/logger"
)

const (
	StateRegisterName        = "register_name"
	StateRegisterInterests   = "register_interests"
	StateRegisterPreferences = "register_preferences"
	StateRegisterLocation    = "register_location"

	StateNewGroupName = "new_group_name"

	StateRoundPrice      = "round_price"
	StateRoundDistance   = "round_distance"
	StateRoundTime       = "round_time"
	StateRoundPreference = "round_preference"
)

// HandleStart greets a new user and begins registration, or shows the main
// menu for a known one. Deep-link payloads (friend add, group invite links)
// are handled before this is reached.
func (h *HandlerManager) HandleStart(message *tgbotapi.Message, session *UserSession, bot BotInterface) {
	userID := message.From.ID

	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err == nil && user != nil {
		h.UserRepo.UpdateLastActivity(user.ID)
		bot.SendMessage(userID, fmt.Sprintf("👋 Welcome back, %s!", user.DisplayName), MainMenuKeyboard())
		return
	}

	session.State = StateRegisterName
	bot.SendMessage(userID, "👋 Hey! I help groups of friends pick a place to hang out.\n\nFirst, what should I call you?", CancelKeyboard())
}

// HandleRegistration advances the registration conversation one step per
// incoming message.
func (h *HandlerManager) HandleRegistration(message *tgbotapi.Message, session *UserSession, bot BotInterface) {
	userID := message.From.ID

	switch session.State {
	case StateRegisterName:
		name := security.CleanText(message.Text)
		if len([]rune(name)) < 2 {
			bot.SendMessage(userID, "❌ That name is too short. Try at least 2 characters:", nil)
			return
		}
		if len([]rune(name)) > 64 {
			bot.SendMessage(userID, "❌ That name is too long. Keep it under 64 characters:", nil)
			return
		}
		session.DraftName = name
		session.State = StateRegisterInterests
		bot.SendMessage(userID, fmt.Sprintf("Nice to meet you, %s! What are you into? Send a comma-separated list (e.g. hiking, sushi, board games):", name), CancelKeyboard())

	case StateRegisterInterests:
		session.DraftInterests = security.CleanText(message.Text)
		session.State = StateRegisterPreferences
		bot.SendMessage(userID, "Got it. Anything I should know about your likes and dislikes? (e.g. \"vegetarian, no loud bars\") Send - to skip:", CancelKeyboard())

	case StateRegisterPreferences:
		preferences := security.CleanText(message.Text)
		if preferences == "-" {
			preferences = ""
		}
		h.completeRegistration(message, session, preferences, bot)

	case StateRegisterLocation:
		if message.Location == nil {
			bot.SendMessage(userID, "📍 Please use the button below to share your location, or tap Cancel.", LocationRequestKeyboard())
			return
		}
		user, err := h.UserRepo.GetUserByTelegramID(userID)
		if err != nil {
			logger.Error("Failed to load user for location update", "error", err, "telegram_id", userID)
			return
		}
		if err := h.UserRepo.UpdateLocation(user.ID, message.Location.Latitude, message.Location.Longitude); err != nil {
			logger.Error("Failed to save location", "error", err, "user_id", user.ID)
			bot.SendMessage(userID, "⚠️ Couldn't save your location. Try again later.", MainMenuKeyboard())
			session.State = ""
			return
		}
		session.State = ""
		bot.SendMessage(userID, "📍 Location saved! You're all set.", MainMenuKeyboard())

	default:
		logger.Warn("Unknown registration state", "state", session.State, "telegram_id", userID)
	}
}

func (h *HandlerManager) completeRegistration(message *tgbotapi.Message, session *UserSession, preferences string, bot BotInterface) {
	userID := message.From.ID

	user := &models.User{
		TelegramID:  userID,
		DisplayName: session.DraftName,
		Preferences: preferences,
	}
	user.SetInterestTags(splitTags(session.DraftInterests))

	if err := h.UserRepo.CreateUser(user); err != nil {
		logger.Error("Failed to create user", "error", err, "telegram_id", userID)
		bot.SendMessage(userID, "⚠️ Something went wrong creating your profile. Send /start to try again.", nil)
		session.State = ""
		return
	}

	session.DraftName = ""
	session.DraftInterests = ""
	session.State = StateRegisterLocation
	bot.SendMessage(userID, "✅ Profile created! One last thing: share your location so I can suggest places near your group.", LocationRequestKeyboard())
}

// HandleMyProfile shows the user's own profile plus a share deep link.
func (h *HandlerManager) HandleMyProfile(userID int64, bot BotInterface) {
	user, err := h.UserRepo.GetUserByTelegramID(userID)
	if err != nil {
		bot.SendMessage(userID, "❌ You're not registered yet. Send /start first!", nil)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n", user.DisplayName)
	if tags := user.InterestTags(); len(tags) > 0 {
		fmt.Fprintf(&b, "🎯 Interests: %s\n", strings.Join(tags, ", "))
	}
	if user.Preferences != "" {
		fmt.Fprintf(&b, "📝 Preferences: %s\n", user.Preferences)
	}
	if user.HasLocation() {
		b.WriteString("📍 Location: on file\n")
	} else {
		b.WriteString("📍 Location: not set — share it from the menu\n")
	}
	fmt.Fprintf(&b, "\n🔗 Share this link so friends can add you:\nhttps://t.me/%s?start=add_%d", bot.BotUsername(), user.ID)

	bot.SendMessage(userID, b.String(), MainMenuKeyboard())
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
