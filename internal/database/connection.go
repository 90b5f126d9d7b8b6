package database

import (
	"fmt"
	"time"

	"github.com/mehrdadh/hangout_bot/internal/config"
	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// Unique-index violations must surface as gorm.ErrDuplicatedKey so
		// repositories can map them to conflict errors
		TranslateError:         true,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetMaxOpenConns(200)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("Database connected successfully")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.FriendRequest{},
		&models.FriendEdge{},
		&models.Group{},
		&models.GroupMembership{},
		&models.GroupInvitation{},
		&models.HangoutRequest{},
		&models.HangoutResponse{},
		&models.Place{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedPlaces inserts a small built-in place catalog so recommendation
// fallback has something to serve before a real import has been run.
func SeedPlaces(db *gorm.DB) error {
	var count int64
	db.Model(&models.Place{}).Count(&count)
	if count > 0 {
		return nil
	}

	logger.Info("Seeding fallback place catalog...")
	places := []models.Place{
		{Name: "Central Park Cafe", Category: "cafe", PriceTier: 2, Rating: 4.3, Latitude: 35.7009, Longitude: 51.3920, Description: "Quiet cafe next to the park entrance, good for long conversations."},
		{Name: "Grill House", Category: "restaurant", PriceTier: 3, Rating: 4.1, Latitude: 35.7102, Longitude: 51.4001, Description: "Casual grill restaurant with large shared tables."},
		{Name: "City Museum of Art", Category: "museum", PriceTier: 1, Rating: 4.6, Latitude: 35.6955, Longitude: 51.4210, Description: "Rotating exhibitions, open late on weekends."},
		{Name: "Riverside Walk", Category: "outdoors", PriceTier: 0, Rating: 4.4, Latitude: 35.7203, Longitude: 51.3855, Description: "Paved riverside path with rental bikes and food stalls."},
		{Name: "Board & Bean", Category: "cafe", PriceTier: 2, Rating: 4.5, Latitude: 35.7055, Longitude: 51.4100, Description: "Board game cafe, groups can reserve tables."},
		{Name: "Sunset Rooftop", Category: "restaurant", PriceTier: 4, Rating: 4.2, Latitude: 35.6899, Longitude: 51.3950, Description: "Rooftop dining with a city view, pricier menu."},
		{Name: "Old Bazaar Food Hall", Category: "food hall", PriceTier: 1, Rating: 4.0, Latitude: 35.6801, Longitude: 51.4190, Description: "Dozens of cheap food stalls under one roof."},
		{Name: "Lakeside Picnic Grounds", Category: "outdoors", PriceTier: 0, Rating: 4.1, Latitude: 35.7350, Longitude: 51.3700, Description: "Open picnic area by the lake, busy on holidays."},
	}

	return db.Create(&places).Error
}
