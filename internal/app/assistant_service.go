package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"lexportal/internal/model"
	"lexportal/internal/search"
)

const systemPrompt = "You are a legal research assistant for a court document portal. " +
	"Answer strictly from the retrieved documents listed in the message: you may " +
	"summarize and cite them by title, but never quote or invent sentences that " +
	"are not in the supplied excerpts. If the total match count is zero, say " +
	"explicitly that no documents matched and suggest how the user could refine " +
	"the query. Reply in the language of the user's question."

// AssistantService is the conversation session manager: it derives lexical
// terms from a free-form message, runs the query planner, asks the external
// completion service for a synthesis, and appends the exchange to a session.
type AssistantService struct {
	sessions  SessionStore
	turns     TurnStore
	limiter   *UsageLimiter
	searcher  *SearchService
	completer Completer
	extractor *search.TermExtractor
	cache     HistoryCache

	searchPageSize int
	maxPromptDocs  int

	// Per-session append serialization; never a global lock.
	locks sync.Map // session id -> *sync.Mutex
}

func NewAssistantService(
	sessions SessionStore,
	turns TurnStore,
	limiter *UsageLimiter,
	searcher *SearchService,
	completer Completer,
	extractor *search.TermExtractor,
	cache HistoryCache,
	searchPageSize int,
	maxPromptDocs int,
) *AssistantService {
	if searchPageSize <= 0 {
		searchPageSize = 5
	}
	if maxPromptDocs <= 0 {
		maxPromptDocs = 5
	}
	return &AssistantService{
		sessions:       sessions,
		turns:          turns,
		limiter:        limiter,
		searcher:       searcher,
		completer:      completer,
		extractor:      extractor,
		cache:          cache,
		searchPageSize: searchPageSize,
		maxPromptDocs:  maxPromptDocs,
	}
}

type SendInput struct {
	UserID    uint
	Role      string
	SessionID uint // 0 = start a new session
	Message   string
}

type SendResult struct {
	Response   string              `json:"response"`
	Documents  []model.DocumentRef `json:"documents"`
	TotalFound int64               `json:"total_found"`
	SessionID  uint                `json:"session_id"`
}

// SessionSummary is one row of the session listing.
type SessionSummary struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int64     `json:"message_count"`
}

type SessionDetail struct {
	Session model.ChatSession `json:"session"`
	Turns   []model.Turn      `json:"turns"`
}

// SendMessage processes one conversational turn. The quota check runs before
// any retrieval or completion work; an upstream failure appends nothing, so a
// session never ends up with a dangling user-only turn.
func (s *AssistantService) SendMessage(ctx context.Context, input SendInput) (*SendResult, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrMessageEmpty
	}

	usage, err := s.limiter.Check(input.UserID, input.Role)
	if err != nil {
		return nil, err
	}
	if !usage.Allowed {
		return nil, &QuotaError{Usage: usage}
	}

	session, err := s.resolveSession(input.UserID, input.SessionID, message)
	if err != nil {
		return nil, err
	}

	terms := s.extractor.Extract(message)
	searchResult, err := s.searcher.Search(SearchInput{
		Query:    strings.Join(terms, " "),
		Page:     1,
		PageSize: s.searchPageSize,
	})
	if err != nil {
		return nil, err
	}

	refs := s.documentRefs(searchResult)
	answer, err := s.completer.Complete(ctx, systemPrompt, s.buildPrompt(message, searchResult, refs))
	if err != nil {
		log.Printf("completion service call failed: %v", err)
		return nil, ErrUpstreamService
	}
	if answer == "" {
		answer = "The assistant returned an empty response. Please try again."
	}

	userTurn := model.NewUserTurn(input.UserID, message)
	assistantTurn := model.NewAssistantTurn(input.UserID, answer, refs, searchResult.Pagination.Total)

	if session.ID != 0 {
		mu := s.sessionLock(session.ID)
		mu.Lock()
		defer mu.Unlock()
	}
	if err := s.sessions.AppendExchange(session, &userTurn, &assistantTurn); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.MarkDirty(ctx, session.ID)
		_ = s.cache.DeleteHistory(ctx, session.ID)
	}

	return &SendResult{
		Response:   answer,
		Documents:  refs,
		TotalFound: searchResult.Pagination.Total,
		SessionID:  session.ID,
	}, nil
}

// ListSessions returns summaries newest-first, with titles derived from the
// opening user turn.
func (s *AssistantService) ListSessions(userID uint) ([]SessionSummary, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	sessions, err := s.sessions.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.turns.CountBySessions(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		title := session.Title
		if title == "" {
			if first, err := s.turns.FirstUserTurn(session.ID); err == nil && first != nil {
				title = deriveTitle(first.Content)
			}
		}
		summaries = append(summaries, SessionSummary{
			ID:           session.ID,
			Title:        title,
			UpdatedAt:    session.UpdatedAt,
			MessageCount: counts[session.ID],
		})
	}
	return summaries, nil
}

// GetSession returns the full ordered turn history, ownership-checked,
// reading through the history cache when it is clean.
func (s *AssistantService) GetSession(ctx context.Context, userID, sessionID uint) (*SessionDetail, error) {
	if userID == 0 || sessionID == 0 {
		return nil, ErrInvalidInput
	}
	session, err := s.sessions.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if s.cache != nil {
		dirty, dirtyErr := s.cache.IsDirty(ctx, sessionID)
		if dirtyErr == nil && !dirty {
			if cached, hit, cacheErr := s.cache.GetHistory(ctx, sessionID); cacheErr == nil && hit {
				return &SessionDetail{Session: *session, Turns: cached}, nil
			}
		}
	}

	turns, err := s.turns.ListBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if dirty, dirtyErr := s.cache.IsDirty(ctx, sessionID); dirtyErr == nil && !dirty {
			_ = s.cache.SetHistory(ctx, sessionID, turns)
		}
	}
	return &SessionDetail{Session: *session, Turns: turns}, nil
}

// DeleteSession removes the caller's session and its turns.
func (s *AssistantService) DeleteSession(ctx context.Context, userID, sessionID uint) error {
	if userID == 0 || sessionID == 0 {
		return ErrInvalidInput
	}
	session, err := s.sessions.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if err := s.sessions.DeleteByIDAndUserID(sessionID, userID); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.DeleteHistory(ctx, sessionID)
	}
	s.locks.Delete(sessionID)
	return nil
}

// Usage exposes the limiter snapshot for the limit endpoint.
func (s *AssistantService) Usage(userID uint, role string) (Usage, error) {
	return s.limiter.Check(userID, role)
}

func (s *AssistantService) resolveSession(userID, sessionID uint, message string) (*model.ChatSession, error) {
	if sessionID == 0 {
		return &model.ChatSession{
			UserID: userID,
			Title:  deriveTitle(message),
		}, nil
	}
	session, err := s.sessions.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *AssistantService) documentRefs(result *SearchResult) []model.DocumentRef {
	limit := s.maxPromptDocs
	if limit > len(result.Documents) {
		limit = len(result.Documents)
	}
	refs := make([]model.DocumentRef, 0, limit)
	for _, doc := range result.Documents[:limit] {
		refs = append(refs, model.DocumentRef{
			ID:      doc.ID,
			Title:   doc.Title,
			Snippet: doc.Snippet,
			Cities:  doc.Cities,
		})
	}
	return refs
}

func (s *AssistantService) buildPrompt(message string, result *SearchResult, refs []model.DocumentRef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User question: %s\n\n", message)
	fmt.Fprintf(&b, "Total matching documents in the archive: %d\n\n", result.Pagination.Total)
	if len(refs) == 0 {
		b.WriteString("Retrieved documents: none.\n")
		return b.String()
	}
	b.WriteString("Retrieved documents:\n")
	for i, ref := range refs {
		fmt.Fprintf(&b, "%d. %s", i+1, ref.Title)
		if len(ref.Cities) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(ref.Cities, ", "))
		}
		b.WriteString("\n")
		if ref.Snippet != "" && ref.Snippet != NoSnippetText {
			fmt.Fprintf(&b, "   Excerpt: %s\n", ref.Snippet)
		}
	}
	return b.String()
}

func (s *AssistantService) sessionLock(sessionID uint) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func deriveTitle(message string) string {
	const maxTitleRunes = 48
	message = strings.TrimSpace(message)
	runes := []rune(message)
	if len(runes) <= maxTitleRunes {
		return message
	}
	return string(runes[:maxTitleRunes]) + "..."
}
