package app

import (
	"context"
	"time"

	"lexportal/internal/model"
	"lexportal/internal/repository"
)

// Store interfaces are declared here, at the consumer, so services can be
// exercised against substitutes in tests. The gorm repositories satisfy them.

type DocumentStore interface {
	CreateGuarded(doc *model.Document) (*model.Document, error)
	Finalize(id uint, content, cities, keywords string) error
	Delete(id uint) error
	GetByID(id uint) (*model.Document, error)
	SearchRanked(query string, cityPatterns []string, limit, offset int, headlineOpts string) ([]repository.SearchHit, error)
	CountRanked(query string, cityPatterns []string) (int64, error)
	ListRecent(cityPatterns []string, limit, offset int) ([]model.Document, error)
	CountRecent(cityPatterns []string) (int64, error)
}

type SessionStore interface {
	GetByIDAndUserID(sessionID, userID uint) (*model.ChatSession, error)
	ListByUserID(userID uint) ([]model.ChatSession, error)
	AppendExchange(session *model.ChatSession, userTurn, assistantTurn *model.Turn) error
	DeleteByIDAndUserID(sessionID, userID uint) error
}

type TurnStore interface {
	ListBySessionID(sessionID uint) ([]model.Turn, error)
	FirstUserTurn(sessionID uint) (*model.Turn, error)
	CountBySessions(userID uint) (map[uint]int64, error)
	CountUserTurnsSince(userID uint, since time.Time) (int64, error)
}

type HistoryCache interface {
	GetHistory(ctx context.Context, sessionID uint) ([]model.Turn, bool, error)
	SetHistory(ctx context.Context, sessionID uint, turns []model.Turn) error
	DeleteHistory(ctx context.Context, sessionID uint) error
	MarkDirty(ctx context.Context, sessionID uint) error
	IsDirty(ctx context.Context, sessionID uint) (bool, error)
}

// Completer is the external natural-language completion service.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
