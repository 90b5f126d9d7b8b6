package middleware

import (
	"sync"
	"time"
)

// RateLimiter implements a simple in-memory rate limiter keyed by Telegram
// user and chat
type RateLimiter struct {
	userLimits map[int64]*windowCounter
	chatLimits map[int64]*windowCounter
	mu         sync.RWMutex

	userMaxRequests int
	chatMaxRequests int
	window          time.Duration
}

type windowCounter struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(userMaxRequests, chatMaxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		userLimits:      make(map[int64]*windowCounter),
		chatLimits:      make(map[int64]*windowCounter),
		userMaxRequests: userMaxRequests,
		chatMaxRequests: chatMaxRequests,
		window:          window,
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// CheckUserLimit checks if a user has exceeded their rate limit
func (rl *RateLimiter) CheckUserLimit(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return allow(rl.userLimits, userID, rl.userMaxRequests, rl.window)
}

// CheckChatLimit checks if a chat has exceeded its rate limit
func (rl *RateLimiter) CheckChatLimit(chatID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return allow(rl.chatLimits, chatID, rl.chatMaxRequests, rl.window)
}

func allow(limits map[int64]*windowCounter, key int64, max int, window time.Duration) bool {
	now := time.Now()

	limit, exists := limits[key]
	if !exists || now.After(limit.resetTime) {
		limits[key] = &windowCounter{
			requests:  1,
			resetTime: now.Add(window),
		}
		return true
	}

	if limit.requests >= max {
		return false
	}

	limit.requests++
	return true
}

// GetUserRemaining returns remaining requests for a user within the window
func (rl *RateLimiter) GetUserRemaining(userID int64) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	limit, exists := rl.userLimits[userID]
	if !exists || time.Now().After(limit.resetTime) {
		return rl.userMaxRequests
	}

	remaining := rl.userMaxRequests - limit.requests
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanup periodically removes expired entries
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, limit := range rl.userLimits {
			if now.After(limit.resetTime) {
				delete(rl.userLimits, key)
			}
		}
		for key, limit := range rl.chatLimits {
			if now.After(limit.resetTime) {
				delete(rl.chatLimits, key)
			}
		}
		rl.mu.Unlock()
	}
}
