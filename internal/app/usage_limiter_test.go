package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexportal/internal/model"
)

func TestUsageLimiter_UnderLimit(t *testing.T) {
	turns := &mockTurnStore{usedCount: 1}
	limiter := NewUsageLimiter(turns, 2)

	usage, err := limiter.Check(1, model.RoleNameUser)
	require.NoError(t, err)
	assert.True(t, usage.Allowed)
	assert.Equal(t, int64(1), usage.Used)
	assert.Equal(t, int64(1), usage.Remaining)
	assert.Equal(t, int64(2), usage.Limit)
}

func TestUsageLimiter_AtLimit(t *testing.T) {
	turns := &mockTurnStore{usedCount: 2}
	limiter := NewUsageLimiter(turns, 2)

	usage, err := limiter.Check(1, model.RoleNameUser)
	require.NoError(t, err)
	assert.False(t, usage.Allowed)
	assert.Equal(t, int64(0), usage.Remaining)
}

func TestUsageLimiter_OverLimitRemainingClamped(t *testing.T) {
	turns := &mockTurnStore{usedCount: 5}
	limiter := NewUsageLimiter(turns, 2)

	usage, err := limiter.Check(1, model.RoleNameUser)
	require.NoError(t, err)
	assert.False(t, usage.Allowed)
	assert.Equal(t, int64(0), usage.Remaining)
	assert.Equal(t, int64(5), usage.Used)
}

func TestUsageLimiter_AdminAlwaysAllowed(t *testing.T) {
	turns := &mockTurnStore{usedCount: 99}
	limiter := NewUsageLimiter(turns, 2)

	usage, err := limiter.Check(1, model.RoleNameAdmin)
	require.NoError(t, err)
	assert.True(t, usage.Allowed)
	assert.Equal(t, int64(UnlimitedRemaining), usage.Remaining)
}

func TestUsageLimiter_WindowStartsAtLocalMidnight(t *testing.T) {
	turns := &mockTurnStore{}
	limiter := NewUsageLimiter(turns, 2)
	fixed := time.Date(2025, 3, 14, 15, 30, 45, 0, time.Local)
	limiter.now = func() time.Time { return fixed }

	_, err := limiter.Check(1, model.RoleNameUser)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local), turns.lastSince)
}

func TestUsageLimiter_ZeroUserID(t *testing.T) {
	limiter := NewUsageLimiter(&mockTurnStore{}, 2)

	_, err := limiter.Check(0, model.RoleNameUser)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUsageLimiter_StoreError(t *testing.T) {
	storeErr := errors.New("db down")
	limiter := NewUsageLimiter(&mockTurnStore{countErr: storeErr}, 2)

	_, err := limiter.Check(1, model.RoleNameUser)
	assert.ErrorIs(t, err, storeErr)
}

func TestUsageLimiter_DefaultLimit(t *testing.T) {
	limiter := NewUsageLimiter(&mockTurnStore{}, 0)

	usage, err := limiter.Check(1, model.RoleNameUser)
	require.NoError(t, err)
	assert.Equal(t, int64(2), usage.Limit)
}
