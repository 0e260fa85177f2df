package app

import (
	"context"
	"time"

	"lexportal/internal/model"
	"lexportal/internal/repository"
)

// Hand-written substitutes for the store interfaces.

type mockDocumentStore struct {
	docs        map[uint]*model.Document
	nextID      uint
	conflict    *model.Document
	createErr   error
	finalizeErr error
	searchHits  []repository.SearchHit
	searchErr   error
	countErr    error
	recent      []model.Document

	finalized    []finalizeCall
	deletedIDs   []uint
	lastQuery    string
	lastPatterns []string
	lastLimit    int
	lastOffset   int
}

type finalizeCall struct {
	id       uint
	content  string
	cities   string
	keywords string
}

func newMockDocumentStore() *mockDocumentStore {
	return &mockDocumentStore{docs: map[uint]*model.Document{}, nextID: 1}
}

func (m *mockDocumentStore) CreateGuarded(doc *model.Document) (*model.Document, error) {
	if m.createErr != nil {
		return m.conflict, m.createErr
	}
	doc.ID = m.nextID
	m.nextID++
	m.docs[doc.ID] = doc
	return nil, nil
}

func (m *mockDocumentStore) Finalize(id uint, content, cities, keywords string) error {
	if m.finalizeErr != nil {
		return m.finalizeErr
	}
	m.finalized = append(m.finalized, finalizeCall{id: id, content: content, cities: cities, keywords: keywords})
	return nil
}

func (m *mockDocumentStore) Delete(id uint) error {
	m.deletedIDs = append(m.deletedIDs, id)
	delete(m.docs, id)
	return nil
}

func (m *mockDocumentStore) GetByID(id uint) (*model.Document, error) {
	return m.docs[id], nil
}

func (m *mockDocumentStore) SearchRanked(query string, cityPatterns []string, limit, offset int, headlineOpts string) ([]repository.SearchHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	m.lastQuery = query
	m.lastPatterns = cityPatterns
	m.lastLimit = limit
	m.lastOffset = offset
	return m.searchHits, nil
}

func (m *mockDocumentStore) CountRanked(query string, cityPatterns []string) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.searchHits)), nil
}

func (m *mockDocumentStore) ListRecent(cityPatterns []string, limit, offset int) ([]model.Document, error) {
	m.lastPatterns = cityPatterns
	m.lastLimit = limit
	m.lastOffset = offset
	return m.recent, nil
}

func (m *mockDocumentStore) CountRecent(cityPatterns []string) (int64, error) {
	return int64(len(m.recent)), nil
}

type mockSessionStore struct {
	sessions  map[uint]*model.ChatSession
	nextID    uint
	appendErr error
	appended  [][2]*model.Turn
	deleted   []uint
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: map[uint]*model.ChatSession{}, nextID: 1}
}

func (m *mockSessionStore) seed(session model.ChatSession) *model.ChatSession {
	if session.ID == 0 {
		session.ID = m.nextID
		m.nextID++
	}
	m.sessions[session.ID] = &session
	return &session
}

func (m *mockSessionStore) GetByIDAndUserID(sessionID, userID uint) (*model.ChatSession, error) {
	session, ok := m.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, nil
	}
	return session, nil
}

func (m *mockSessionStore) ListByUserID(userID uint) ([]model.ChatSession, error) {
	var out []model.ChatSession
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockSessionStore) AppendExchange(session *model.ChatSession, userTurn, assistantTurn *model.Turn) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	if session.ID == 0 {
		session.ID = m.nextID
		m.nextID++
		m.sessions[session.ID] = session
	}
	userTurn.SessionID = session.ID
	assistantTurn.SessionID = session.ID
	m.appended = append(m.appended, [2]*model.Turn{userTurn, assistantTurn})
	return nil
}

func (m *mockSessionStore) DeleteByIDAndUserID(sessionID, userID uint) error {
	delete(m.sessions, sessionID)
	m.deleted = append(m.deleted, sessionID)
	return nil
}

type mockTurnStore struct {
	turns     []model.Turn
	usedCount int64
	countErr  error
	lastSince time.Time
}

func (m *mockTurnStore) ListBySessionID(sessionID uint) ([]model.Turn, error) {
	var out []model.Turn
	for _, t := range m.turns {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTurnStore) FirstUserTurn(sessionID uint) (*model.Turn, error) {
	for i := range m.turns {
		if m.turns[i].SessionID == sessionID && m.turns[i].Role == model.RoleUser {
			return &m.turns[i], nil
		}
	}
	return nil, nil
}

func (m *mockTurnStore) CountBySessions(userID uint) (map[uint]int64, error) {
	counts := map[uint]int64{}
	for _, t := range m.turns {
		if t.UserID == userID {
			counts[t.SessionID]++
		}
	}
	return counts, nil
}

func (m *mockTurnStore) CountUserTurnsSince(userID uint, since time.Time) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	m.lastSince = since
	return m.usedCount, nil
}

type mockHistoryCache struct {
	histories map[uint][]model.Turn
	dirty     map[uint]bool
	setCalls  int
}

func newMockHistoryCache() *mockHistoryCache {
	return &mockHistoryCache{histories: map[uint][]model.Turn{}, dirty: map[uint]bool{}}
}

func (m *mockHistoryCache) GetHistory(_ context.Context, sessionID uint) ([]model.Turn, bool, error) {
	turns, ok := m.histories[sessionID]
	return turns, ok, nil
}

func (m *mockHistoryCache) SetHistory(_ context.Context, sessionID uint, turns []model.Turn) error {
	m.histories[sessionID] = turns
	m.setCalls++
	return nil
}

func (m *mockHistoryCache) DeleteHistory(_ context.Context, sessionID uint) error {
	delete(m.histories, sessionID)
	return nil
}

func (m *mockHistoryCache) MarkDirty(_ context.Context, sessionID uint) error {
	m.dirty[sessionID] = true
	return nil
}

func (m *mockHistoryCache) IsDirty(_ context.Context, sessionID uint) (bool, error) {
	return m.dirty[sessionID], nil
}

type mockCompleter struct {
	answer      string
	err         error
	calls       int
	lastUserMsg string
}

func (m *mockCompleter) Complete(_ context.Context, _ string, userPrompt string) (string, error) {
	m.calls++
	m.lastUserMsg = userPrompt
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}
