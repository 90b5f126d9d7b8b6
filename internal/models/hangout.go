package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HangoutRequest struct {
	ID        uint      `gorm:"primaryKey"`
	PublicID  string    `gorm:"type:varchar(36);uniqueIndex"`
	GroupID   uint      `gorm:"not null;index:idx_active_hangout,unique,where:status = 'active'"`
	Group     Group     `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	CreatorID uint      `gorm:"not null;index"`
	Creator   User      `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
	Status    string    `gorm:"type:varchar(20);default:'active';index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Hangout request status constants
const (
	HangoutStatusActive    = "active"
	HangoutStatusCompleted = "completed"
)

// BeforeCreate hook to assign a public ID used in deep links and callbacks
func (h *HangoutRequest) BeforeCreate(tx *gorm.DB) error {
	if h.PublicID == "" {
		h.PublicID = uuid.NewString()
	}
	return nil
}

func (HangoutRequest) TableName() string {
	return "hangout_requests"
}

// HangoutResponse holds one member's constraints for a round. Responses are
// immutable once created; there is no edit path.
type HangoutResponse struct {
	ID              uint           `gorm:"primaryKey"`
	RequestID       uint           `gorm:"not null;index:idx_hangout_response,unique"`
	Request         HangoutRequest `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	UserID          uint           `gorm:"not null;index:idx_hangout_response,unique"`
	User            User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PriceLimit      int            `gorm:"not null"`
	DistanceLimitKm float64        `gorm:"not null"`
	TimeOfDay       float64        `gorm:"not null"` // wall clock in [0,24), fraction encodes minutes
	Preference      string         `gorm:"type:text"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
}

func (HangoutResponse) TableName() string {
	return "hangout_responses"
}
