package models

import (
	"encoding/json"
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	TelegramID   int64     `gorm:"uniqueIndex;not null"`
	DisplayName  string    `gorm:"type:varchar(255);not null"`
	AvatarFileID string    `gorm:"type:varchar(500)"`
	Interests    string    `gorm:"type:text;default:'[]'"` // JSON array of tags
	Preferences  string    `gorm:"type:text"`              // free-text likes/dislikes
	Latitude     float64   `gorm:"type:float"`
	Longitude    float64   `gorm:"type:float"`
	LastActivity time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// InterestTags decodes the stored JSON tag list. A corrupt or empty value
// decodes as no tags.
func (u *User) InterestTags() []string {
	if u.Interests == "" {
		return nil
	}

	var tags []string
	if err := json.Unmarshal([]byte(u.Interests), &tags); err != nil {
		return nil
	}
	return tags
}

// SetInterestTags encodes the tag list back into the JSON column.
func (u *User) SetInterestTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return
	}
	u.Interests = string(data)
}

// HasLocation reports whether the user has shared a usable location.
// (0,0) is in the Atlantic, not a place anyone hangs out.
func (u *User) HasLocation() bool {
	return u.Latitude != 0 || u.Longitude != 0
}
