package model

import (
	"encoding/json"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DocumentRef is the summary of one retrieved document recorded on an
// assistant turn.
type DocumentRef struct {
	ID      uint     `json:"id"`
	Title   string   `json:"title"`
	Snippet string   `json:"snippet"`
	Cities  []string `json:"cities"`
}

// Turn is one message in a chat session. Results and TotalFound are set only
// on assistant turns; use NewUserTurn / NewAssistantTurn so the shape stays
// consistent.
type Turn struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SessionID  uint      `gorm:"not null;index" json:"session_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Role       string    `gorm:"size:16;not null;index" json:"role"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Results    string    `gorm:"type:text" json:"-"` // JSON array of DocumentRef
	TotalFound int64     `gorm:"not null;default:0" json:"total_found"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewUserTurn(userID uint, content string) Turn {
	return Turn{
		UserID:  userID,
		Role:    RoleUser,
		Content: content,
	}
}

func NewAssistantTurn(userID uint, content string, refs []DocumentRef, totalFound int64) Turn {
	t := Turn{
		UserID:     userID,
		Role:       RoleAssistant,
		Content:    content,
		TotalFound: totalFound,
	}
	t.SetResults(refs)
	return t
}

// ResultRefs returns the parsed document summaries; empty on parse error.
func (t *Turn) ResultRefs() []DocumentRef {
	if t.Results == "" {
		return []DocumentRef{}
	}
	var refs []DocumentRef
	if err := json.Unmarshal([]byte(t.Results), &refs); err != nil || refs == nil {
		return []DocumentRef{}
	}
	return refs
}

// SetResults stores the document summaries as JSON.
func (t *Turn) SetResults(refs []DocumentRef) {
	if len(refs) == 0 {
		t.Results = "[]"
		return
	}
	b, _ := json.Marshal(refs)
	t.Results = string(b)
}
