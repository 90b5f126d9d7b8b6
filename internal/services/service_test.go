package services

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mehrdadh/hangout_bot/internal/models"
	"github.com/mehrdadh/hangout_bot/internal/repositories"
)

const testJWTSecret = "this_is_a_test_secret_key_with_32_chars_minimum"

// newTestDB opens a fresh in-memory store per test. A single connection
// keeps the in-memory database alive across the pool.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
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
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

type testEnv struct {
	db          *gorm.DB
	userRepo    *repositories.UserRepository
	friendRepo  *repositories.FriendRepository
	groupRepo   *repositories.GroupRepository
	hangoutRepo *repositories.HangoutRepository
	placeRepo   *repositories.PlaceRepository

	friendSvc *FriendService
	groupSvc  *GroupService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	env := &testEnv{
		db:          db,
		userRepo:    repositories.NewUserRepository(db),
		friendRepo:  repositories.NewFriendRepository(db),
		groupRepo:   repositories.NewGroupRepository(db),
		hangoutRepo: repositories.NewHangoutRepository(db),
		placeRepo:   repositories.NewPlaceRepository(db),
	}

	env.friendSvc = NewFriendService(env.friendRepo, env.userRepo)
	env.groupSvc = NewGroupService(env.groupRepo, env.userRepo, testJWTSecret, time.Hour)

	return env
}

// newHangoutService builds a coordinator whose aggregator uses the given
// searcher.
func (e *testEnv) newHangoutService(search searcherFunc) *HangoutService {
	rec := NewRecommendationService(search, e.placeRepo, 7, 50)
	return NewHangoutService(e.hangoutRepo, e.groupRepo, rec)
}

// createUser registers a test user with a location near central Tehran.
func (e *testEnv) createUser(t *testing.T, name string) *models.User {
	t.Helper()
	return e.createUserAt(t, name, 35.70, 51.40)
}

// seedPlaces inserts a small catalog around central Tehran.
func (e *testEnv) seedPlaces(t *testing.T) {
	t.Helper()

	places := []models.Place{
		{Name: "Near Cafe", Category: "cafe", PriceTier: 1, Rating: 4.5, Latitude: 35.701, Longitude: 51.401},
		{Name: "Mid Restaurant", Category: "restaurant", PriceTier: 2, Rating: 4.0, Latitude: 35.71, Longitude: 51.41},
		{Name: "Far Rooftop", Category: "restaurant", PriceTier: 4, Rating: 4.8, Latitude: 35.80, Longitude: 51.55},
	}

	if err := e.db.Create(&places).Error; err != nil {
		t.Fatalf("failed to seed places: %v", err)
	}
}

// uniqueTelegramID avoids collisions when many users are created in one test.
var telegramIDCounter int64 = 500000

func (e *testEnv) createUserAt(t *testing.T, name string, lat, lng float64) *models.User {
	t.Helper()

	telegramIDCounter++
	user := &models.User{
		TelegramID:  telegramIDCounter,
		DisplayName: fmt.Sprintf("%s-%d", name, telegramIDCounter),
		Latitude:    lat,
		Longitude:   lng,
	}

	if err := e.userRepo.CreateUser(user); err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}
