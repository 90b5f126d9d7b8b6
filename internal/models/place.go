package models

import (
	"time"
)

// Place is a curated catalog entry used when the external place search is
// unavailable. Seeded at startup and importable from a spreadsheet.
type Place struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Category    string    `gorm:"type:varchar(100);index"`
	PriceTier   int       `gorm:"not null;default:1"`
	Rating      float64   `gorm:"default:0"`
	Latitude    float64   `gorm:"type:float;not null"`
	Longitude   float64   `gorm:"type:float;not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Place) TableName() string {
	return "places"
}
