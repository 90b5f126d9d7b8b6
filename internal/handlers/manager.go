package handlers

import (
	"github.com/mehrdadh/hangout_bot/internal/config"
	"github.com/mehrdadh/hangout_bot/internal/repositories"
	"github.com/mehrdadh/hangout_bot/internal/services"
	"gorm.io/gorm"
)

// BotInterface is the slice of the Telegram bot the handlers need. Keeps
// handlers testable without a live bot API.
type BotInterface interface {
	SendMessage(chatID int64, text string, keyboard interface{}) int
	EditMessage(chatID int64, messageID int, text string, keyboard interface{})
	BotUsername() string
}

type HandlerManager struct {
	Config     *config.Config
	DB         *gorm.DB
	UserRepo   *repositories.UserRepository
	FriendSvc  *services.FriendService
	GroupSvc   *services.GroupService
	HangoutSvc *services.HangoutService
}

func NewHandlerManager(
	cfg *config.Config,
	db *gorm.DB,
	userRepo *repositories.UserRepository,
	friendSvc *services.FriendService,
	groupSvc *services.GroupService,
	hangoutSvc *services.HangoutService,
) *HandlerManager {
	return &HandlerManager{
		Config:     cfg,
		DB:         db,
		UserRepo:   userRepo,
		FriendSvc:  friendSvc,
		GroupSvc:   groupSvc,
		HangoutSvc: hangoutSvc,
	}
}

// UserSession holds per-user conversation state between updates.
type UserSession struct {
	State string

	// Registration / profile drafts
	DraftName      string
	DraftInterests string

	// Group creation draft
	DraftGroupName string

	// Constraint entry draft
	RoundPublicID string
	DraftPrice    int
	DraftDistance float64
	DraftTime     float64

	// Target group for invite flows
	GroupID uint
}
