package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexportal/internal/model"
	"lexportal/internal/repository"
)

func rankedHit(id uint, title, snippet string) repository.SearchHit {
	doc := model.Document{ID: id, Title: title}
	doc.SetCities(nil)
	doc.SetKeywords(nil)
	return repository.SearchHit{Document: doc, Rank: 0.5, Snippet: snippet}
}

func TestSearch_RankedResultsCarrySnippets(t *testing.T) {
	docs := newMockDocumentStore()
	docs.searchHits = []repository.SearchHit{
		rankedHit(1, "Sentenza Verona.pdf", "la <mark>usucapione</mark> del fondo"),
	}
	svc := NewSearchService(docs, 10, 50, SnippetOptions{})

	result, err := svc.Search(SearchInput{Query: "usucapione"})
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
	assert.True(t, result.Documents[0].Highlighted)
	assert.Equal(t, "la <mark>usucapione</mark> del fondo", result.Documents[0].Snippet)
	assert.Equal(t, "usucapione", docs.lastQuery)
}

func TestSearch_EmptySnippetFallsBackToPlaceholder(t *testing.T) {
	docs := newMockDocumentStore()
	docs.searchHits = []repository.SearchHit{rankedHit(1, "Sentenza Verona.pdf", "   ")}
	svc := NewSearchService(docs, 10, 50, SnippetOptions{})

	result, err := svc.Search(SearchInput{Query: "usucapione"})
	require.NoError(t, err)
	assert.Equal(t, NoSnippetText, result.Documents[0].Snippet)
}

func TestSearch_BlankQueryBrowsesRecent(t *testing.T) {
	docs := newMockDocumentStore()
	doc := model.Document{ID: 4, Title: "Decreto Milano.pdf"}
	doc.SetCities([]string{"Milano"})
	docs.recent = []model.Document{doc}
	svc := NewSearchService(docs, 10, 50, SnippetOptions{})

	result, err := svc.Search(SearchInput{Query: "   "})
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
	assert.False(t, result.Documents[0].Highlighted)
	assert.Empty(t, result.Documents[0].Snippet)
	assert.Equal(t, []string{"Milano"}, result.Documents[0].Cities)
}

func TestSearch_PaginationMath(t *testing.T) {
	docs := newMockDocumentStore()
	for i := 0; i < 7; i++ {
		docs.searchHits = append(docs.searchHits, rankedHit(uint(i+1), "doc", "s"))
	}
	svc := NewSearchService(docs, 10, 50, SnippetOptions{})

	result, err := svc.Search(SearchInput{Query: "usucapione", Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.Pagination.Total)
	assert.Equal(t, 2, result.Pagination.Page)
	assert.Equal(t, 3, result.Pagination.Limit)
	assert.Equal(t, int64(3), result.Pagination.TotalPages)
	assert.Equal(t, 3, docs.lastLimit)
	assert.Equal(t, 3, docs.lastOffset)
}

func TestSearch_ZeroTotalMeansZeroPages(t *testing.T) {
	svc := NewSearchService(newMockDocumentStore(), 10, 50, SnippetOptions{})

	result, err := svc.Search(SearchInput{Query: "niente"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Pagination.Total)
	assert.Equal(t, int64(0), result.Pagination.TotalPages)
	assert.Empty(t, result.Documents)
}

func TestSearch_PageAndSizeClamped(t *testing.T) {
	docs := newMockDocumentStore()
	svc := NewSearchService(docs, 10, 50, SnippetOptions{})

	result, err := svc.Search(SearchInput{Query: "q", Page: -3, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, 50, result.Pagination.Limit)
	assert.Equal(t, 0, docs.lastOffset)

	result, err = svc.Search(SearchInput{Query: "q", PageSize: 0})
	require.NoError(t, err)
	assert.Equal(t, 10, result.Pagination.Limit)
}

func TestSearch_CityFacetBecomesTitlePatterns(t *testing.T) {
	docs := newMockDocumentStore()
	svc := NewSearchService(docs, 10, 50, SnippetOptions{})

	_, err := svc.Search(SearchInput{Query: "q", Cities: []string{" Verona ", "", "Milano"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"%Verona%", "%Milano%"}, docs.lastPatterns)
}

func TestSearch_SubstrateErrorSurfaces(t *testing.T) {
	docs := newMockDocumentStore()
	docs.searchErr = errors.New("index offline")
	svc := NewSearchService(docs, 10, 50, SnippetOptions{})

	_, err := svc.Search(SearchInput{Query: "q"})
	assert.ErrorIs(t, err, docs.searchErr)
}

func TestHeadlineOptions_DefaultsAndFormatting(t *testing.T) {
	got := headlineOptions(SnippetOptions{})
	assert.Equal(t, "StartSel=<mark>, StopSel=</mark>, MaxFragments=2, MaxWords=30, MinWords=10", got)

	got = headlineOptions(SnippetOptions{StartSel: "[", StopSel: "]", MaxFragments: 1, MaxWords: 20, MinWords: 5})
	assert.Equal(t, "StartSel=[, StopSel=], MaxFragments=1, MaxWords=20, MinWords=5", got)
}
