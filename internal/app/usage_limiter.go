package app

import (
	"time"

	"lexportal/internal/model"
)

// UnlimitedRemaining marks a privileged caller's quota snapshot.
const UnlimitedRemaining = -1

// Usage is a point-in-time snapshot of a user's daily conversational quota.
type Usage struct {
	Allowed   bool  `json:"allowed"`
	Used      int64 `json:"used"`
	Remaining int64 `json:"remaining"`
	Limit     int64 `json:"limit"`
}

// UsageLimiter enforces the per-user daily quota on conversational turns.
// The count is derived from stored turns on every call, never cached, so
// deleting a session immediately stops its turns from counting.
type UsageLimiter struct {
	turns      TurnStore
	dailyLimit int64
	now        func() time.Time
}

func NewUsageLimiter(turns TurnStore, dailyLimit int) *UsageLimiter {
	if dailyLimit <= 0 {
		dailyLimit = 2
	}
	return &UsageLimiter{
		turns:      turns,
		dailyLimit: int64(dailyLimit),
		now:        time.Now,
	}
}

// Check is read-only and idempotent: safe to call for display as well as for
// enforcement. The admin role is always allowed with unlimited remaining.
func (l *UsageLimiter) Check(userID uint, role string) (Usage, error) {
	if userID == 0 {
		return Usage{}, ErrInvalidInput
	}

	now := l.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	used, err := l.turns.CountUserTurnsSince(userID, midnight)
	if err != nil {
		return Usage{}, err
	}

	if role == model.RoleNameAdmin {
		return Usage{
			Allowed:   true,
			Used:      used,
			Remaining: UnlimitedRemaining,
			Limit:     l.dailyLimit,
		}, nil
	}

	remaining := l.dailyLimit - used
	if remaining < 0 {
		remaining = 0
	}
	return Usage{
		Allowed:   used < l.dailyLimit,
		Used:      used,
		Remaining: remaining,
		Limit:     l.dailyLimit,
	}, nil
}
