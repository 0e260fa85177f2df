package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lexportal/internal/model"
)

type ChatSessionRepository struct {
	db *gorm.DB
}

func NewChatSessionRepository(db *gorm.DB) *ChatSessionRepository {
	return &ChatSessionRepository{db: db}
}

func (r *ChatSessionRepository) GetByIDAndUserID(sessionID, userID uint) (*model.ChatSession, error) {
	var session model.ChatSession
	if err := r.db.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chat session failed: %w", err)
	}
	return &session, nil
}

func (r *ChatSessionRepository) ListByUserID(userID uint) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	if err := r.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list chat sessions failed: %w", err)
	}
	return sessions, nil
}

// AppendExchange persists one user/assistant pair in a single transaction,
// creating the session first when it has no id yet, and bumps the session's
// UpdatedAt. Either both turns land or neither does.
func (r *ChatSessionRepository) AppendExchange(session *model.ChatSession, userTurn, assistantTurn *model.Turn) error {
	if userTurn.Role != model.RoleUser || assistantTurn.Role != model.RoleAssistant {
		return fmt.Errorf("append exchange requires one user and one assistant turn")
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if session.ID == 0 {
			if err := tx.Create(session).Error; err != nil {
				return fmt.Errorf("create chat session failed: %w", err)
			}
		}
		userTurn.SessionID = session.ID
		assistantTurn.SessionID = session.ID
		if err := tx.Create(userTurn).Error; err != nil {
			return fmt.Errorf("create user turn failed: %w", err)
		}
		if err := tx.Create(assistantTurn).Error; err != nil {
			return fmt.Errorf("create assistant turn failed: %w", err)
		}
		now := time.Now()
		if err := tx.Model(&model.ChatSession{}).
			Where("id = ?", session.ID).
			UpdateColumn("updated_at", now).Error; err != nil {
			return fmt.Errorf("touch chat session failed: %w", err)
		}
		session.UpdatedAt = now
		return nil
	})
	return err
}

// DeleteByIDAndUserID removes a session and all of its turns.
func (r *ChatSessionRepository) DeleteByIDAndUserID(sessionID, userID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&model.Turn{}).Error; err != nil {
			return fmt.Errorf("delete session turns failed: %w", err)
		}
		if err := tx.Where("id = ? AND user_id = ?", sessionID, userID).Delete(&model.ChatSession{}).Error; err != nil {
			return fmt.Errorf("delete chat session failed: %w", err)
		}
		return nil
	})
	return err
}
