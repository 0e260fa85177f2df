package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lexportal/internal/model"
)

type TurnRepository struct {
	db *gorm.DB
}

func NewTurnRepository(db *gorm.DB) *TurnRepository {
	return &TurnRepository{db: db}
}

func (r *TurnRepository) ListBySessionID(sessionID uint) ([]model.Turn, error) {
	var turns []model.Turn
	if err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC, id ASC").Find(&turns).Error; err != nil {
		return nil, fmt.Errorf("list turns failed: %w", err)
	}
	return turns, nil
}

// FirstUserTurn returns the opening user message of a session, used to derive
// the session title in listings; nil when the session has no turns yet.
func (r *TurnRepository) FirstUserTurn(sessionID uint) (*model.Turn, error) {
	var turn model.Turn
	err := r.db.
		Where("session_id = ? AND role = ?", sessionID, model.RoleUser).
		Order("created_at ASC, id ASC").
		First(&turn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get first user turn failed: %w", err)
	}
	return &turn, nil
}

// CountBySessions returns turn counts keyed by session id for one user.
func (r *TurnRepository) CountBySessions(userID uint) (map[uint]int64, error) {
	type row struct {
		SessionID uint
		Total     int64
	}
	var rows []row
	err := r.db.Model(&model.Turn{}).
		Select("session_id, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("session_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count turns by session failed: %w", err)
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.SessionID] = r.Total
	}
	return counts, nil
}

// CountUserTurnsSince counts the user's own user-role turns created at or
// after the given instant. The usage limiter derives today's consumption from
// this, never from a cached tally, so deleted sessions stop counting.
func (r *TurnRepository) CountUserTurnsSince(userID uint, since time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&model.Turn{}).
		Where("user_id = ? AND role = ? AND created_at >= ?", userID, model.RoleUser, since).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("count user turns failed: %w", err)
	}
	return total, nil
}
