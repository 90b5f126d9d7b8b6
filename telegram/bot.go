package telegram

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"github.com/mehrdadh/hangout_bot/internal/config"
	"github.com/mehrdadh/hangout_bot/internal/handlers"
	"github.com/mehrdadh/hangout_bot/internal/middleware"
	"github.com/mehrdadh/hangout_bot/internal/places"
	"github.com/mehrdadh/hangout_bot/internal/repositories"
	"github.com/mehrdadh/hangout_bot/internal/services"
	"github.com/mehrdadh/hangout_bot/pkg/logger"
)

const workerCount = 10

type Bot struct {
	api         *tgbotapi.BotAPI
	config      *config.Config
	db          *gorm.DB
	handlers    *handlers.HandlerManager
	rateLimiter *middleware.RateLimiter

	// User sessions for conversation state
	sessions map[int64]*handlers.UserSession
	mu       sync.RWMutex

	// Worker pool for parallel processing
	workerChans []chan tgbotapi.Update
}

func InitBot(cfg *config.Config, db *gorm.DB) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	friendRepo := repositories.NewFriendRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	hangoutRepo := repositories.NewHangoutRepository(db)
	placeRepo := repositories.NewPlaceRepository(db)

	// Initialize services
	searcher := places.NewBreakerClient(places.NewClient(cfg))
	recommender := services.NewRecommendationService(searcher, placeRepo, cfg.MaxCandidates, cfg.FallbackPlaceLimit)
	friendSvc := services.NewFriendService(friendRepo, userRepo)
	groupSvc := services.NewGroupService(groupRepo, userRepo, cfg.JWTSecret, cfg.GetInviteLinkTTL())
	hangoutSvc := services.NewHangoutService(hangoutRepo, groupRepo, recommender)

	handlerMgr := handlers.NewHandlerManager(cfg, db, userRepo, friendSvc, groupSvc, hangoutSvc)

	bot := &Bot{
		api:         api,
		config:      cfg,
		db:          db,
		handlers:    handlerMgr,
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerChat, time.Minute),
		sessions:    make(map[int64]*handlers.UserSession),
		workerChans: make([]chan tgbotapi.Update, workerCount),
	}

	// Start workers
	for i := 0; i < workerCount; i++ {
		bot.workerChans[i] = make(chan tgbotapi.Update, 100)
		go bot.startWorker(bot.workerChans[i])
	}

	// Start update listener
	go bot.startUpdateListener()

	return bot, nil
}

func (b *Bot) startUpdateListener() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for {
		logger.Info("Starting update listener...")
		updates := b.api.GetUpdatesChan(u)

		for update := range updates {
			var userID int64
			if update.Message != nil {
				userID = update.Message.From.ID
			} else if update.CallbackQuery != nil {
				userID = update.CallbackQuery.From.ID
			}

			if userID != 0 {
				// Hashed dispatch to workers to ensure per-user ordered processing
				workerIdx := userID % int64(len(b.workerChans))
				if workerIdx < 0 {
					workerIdx = -workerIdx
				}
				b.workerChans[workerIdx] <- update
			} else {
				go b.handleUpdate(update)
			}
		}

		logger.Warn("Update channel closed. Restarting in 5 seconds...")
		time.Sleep(5 * time.Second)
	}
}

func (b *Bot) startWorker(ch chan tgbotapi.Update) {
	for update := range ch {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in handleUpdate", "error", r)
		}
	}()

	if update.Message != nil {
		b.handleMessage(update.Message)
	} else if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	userID := message.From.ID

	logger.Debug("Received message",
		"user_id", userID,
		"text", message.Text,
		"has_location", message.Location != nil,
	)

	if !b.rateLimiter.CheckUserLimit(userID) || !b.rateLimiter.CheckChatLimit(message.Chat.ID) {
		logger.Warn("Rate limit exceeded", "user_id", userID, "chat_id", message.Chat.ID)
		return
	}

	session := b.getSession(userID)

	user, err := b.handlers.UserRepo.GetUserByTelegramID(userID)
	isRegistered := err == nil && user != nil
	if isRegistered {
		b.handlers.UserRepo.UpdateLastActivity(user.ID)
	}

	if message.IsCommand() {
		b.handleCommand(message, session)
		return
	}

	// Global cancel
	if message.Text == handlers.BtnCancel {
		b.clearSession(userID)
		if isRegistered {
			b.sendMessage(userID, "Cancelled. What next?", handlers.MainMenuKeyboard())
		} else {
			b.sendMessage(userID, "Cancelled. Send /start whenever you're ready.", nil)
		}
		return
	}

	// Conversation flows (highest priority state)
	switch {
	case strings.HasPrefix(session.State, "register_"):
		b.handlers.HandleRegistration(message, session, b)
		return
	case session.State == handlers.StateNewGroupName:
		b.handlers.HandleGroupCreation(message, session, b)
		return
	case strings.HasPrefix(session.State, "round_"):
		b.handlers.HandleConstraintConversation(message, session, b)
		return
	}

	if !isRegistered {
		b.sendMessage(userID, "👋 Send /start to set up your profile first!", nil)
		return
	}

	// Standalone location share updates the stored location
	if message.Location != nil {
		if err := b.handlers.UserRepo.UpdateLocation(user.ID, message.Location.Latitude, message.Location.Longitude); err == nil {
			b.sendMessage(userID, "📍 Location updated!", handlers.MainMenuKeyboard())
		}
		return
	}

	b.handleButtonPress(message, session)
}

func (b *Bot) handleCommand(message *tgbotapi.Message, session *handlers.UserSession) {
	userID := message.From.ID

	switch message.Command() {
	case "start":
		payload := message.CommandArguments()
		if strings.HasPrefix(payload, "add_") {
			targetID := parsePayloadID(strings.TrimPrefix(payload, "add_"))
			if targetID != 0 {
				b.handlers.HandleAddFriend(userID, targetID, b)
				return
			}
		}
		b.handlers.HandleStart(message, session, b)

	case "join":
		b.handlers.HandleJoinCommand(userID, message.CommandArguments(), b)

	case "cancel":
		b.clearSession(userID)
		b.sendMessage(userID, "Cancelled. What next?", handlers.MainMenuKeyboard())

	case "help":
		b.sendMessage(userID, "I help groups of friends pick a place to hang out.\n\n"+
			"• Add friends via your profile link\n"+
			"• Create a group and invite friends\n"+
			"• Open a hangout round; everyone sends budget, distance and time\n"+
			"• Close the round to get places that work for the whole group\n\n"+
			"Commands: /start, /join <code>, /cancel", handlers.MainMenuKeyboard())

	default:
		b.sendMessage(userID, "🤔 I don't know that command. Try /help.", nil)
	}
}

func (b *Bot) handleButtonPress(message *tgbotapi.Message, session *handlers.UserSession) {
	userID := message.From.ID

	switch message.Text {
	case handlers.BtnMyProfile:
		b.handlers.HandleMyProfile(userID, b)
	case handlers.BtnFriends:
		b.handlers.HandleFriendList(userID, b)
	case handlers.BtnFriendRequests:
		b.handlers.HandleFriendRequests(userID, b)
	case handlers.BtnInvitations:
		b.handlers.HandleInvitations(userID, b)
	case handlers.BtnGroups:
		b.handlers.HandleMyGroups(userID, b)
	case handlers.BtnNewGroup:
		b.handlers.HandleNewGroup(userID, session, b)
	default:
		b.sendMessage(userID, "🤔 Pick something from the menu below.", handlers.MainMenuKeyboard())
	}
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	data := query.Data

	logger.Debug("Received callback", "user_id", userID, "data", data)

	if !b.rateLimiter.CheckUserLimit(userID) {
		b.AnswerCallbackQuery(query.ID, "⏳ Slow down a little!", false)
		return
	}

	b.AnswerCallbackQuery(query.ID, "", false)

	session := b.getSession(userID)
	messageID := 0
	if query.Message != nil {
		messageID = query.Message.MessageID
	}

	switch {
	case strings.HasPrefix(data, "friend_"):
		b.handlers.HandleFriendCallback(userID, messageID, data, b)
	case strings.HasPrefix(data, "group_"), strings.HasPrefix(data, "ginv_"):
		b.handlers.HandleGroupCallback(userID, messageID, data, b)
	case strings.HasPrefix(data, "round_"):
		b.handlers.HandleHangoutCallback(userID, messageID, data, session, b)
	default:
		logger.Warn("Unknown callback data", "data", data, "user_id", userID)
	}
}

func (b *Bot) getSession(userID int64) *handlers.UserSession {
	b.mu.Lock()
	defer b.mu.Unlock()

	if session, exists := b.sessions[userID]; exists {
		return session
	}

	session := &handlers.UserSession{}
	b.sessions[userID] = session
	return session
}

func (b *Bot) clearSession(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, userID)
}

func (b *Bot) sendMessage(chatID int64, text string, keyboard interface{}) int {
	msg := tgbotapi.NewMessage(chatID, text)

	switch kb := keyboard.(type) {
	case tgbotapi.ReplyKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.InlineKeyboardMarkup:
		msg.ReplyMarkup = kb
	case tgbotapi.ReplyKeyboardRemove:
		msg.ReplyMarkup = kb
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		sentMsg, err := b.api.Send(msg)
		if err != nil {
			logger.Error("Failed to send message", "error", err, "chat_id", chatID, "attempt", i+1)

			if strings.Contains(err.Error(), "connection reset") ||
				strings.Contains(err.Error(), "timeout") ||
				strings.Contains(err.Error(), "network is unreachable") {
				time.Sleep(time.Duration(i+1) * time.Second)
				continue
			}
			return 0
		}
		return sentMsg.MessageID
	}
	return 0
}

// SendMessage implements handlers.BotInterface
func (b *Bot) SendMessage(chatID int64, text string, keyboard interface{}) int {
	return b.sendMessage(chatID, text, keyboard)
}

// EditMessage implements handlers.BotInterface
func (b *Bot) EditMessage(chatID int64, messageID int, text string, keyboard interface{}) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if kb, ok := keyboard.(tgbotapi.InlineKeyboardMarkup); ok {
		edit.ReplyMarkup = &kb
	}
	if _, err := b.api.Send(edit); err != nil {
		logger.Error("Failed to edit message", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

// BotUsername implements handlers.BotInterface
func (b *Bot) BotUsername() string {
	return b.api.Self.UserName
}

func (b *Bot) AnswerCallbackQuery(queryID string, text string, showAlert bool) {
	callback := tgbotapi.NewCallback(queryID, text)
	callback.ShowAlert = showAlert
	if _, err := b.api.Request(callback); err != nil {
		logger.Error("Failed to answer callback query", "error", err)
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

func parsePayloadID(s string) uint {
	var id uint
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil {
		return 0
	}
	return id
}
