package app

import (
	"fmt"
	"strings"
	"time"

	"lexportal/internal/model"
)

// NoSnippetText is returned in place of a snippet when the substrate produced
// none for a matching document.
const NoSnippetText = "no snippet available"

// SnippetOptions mirrors the substrate's headline generator knobs.
type SnippetOptions struct {
	StartSel     string
	StopSel      string
	MaxFragments int
	MaxWords     int
	MinWords     int
}

// SearchService is the query planner: free text plus optional jurisdiction
// facets in, ranked paginated results out.
type SearchService struct {
	docs            DocumentStore
	defaultPageSize int
	maxPageSize     int
	headlineOpts    string
}

func NewSearchService(docs DocumentStore, defaultPageSize, maxPageSize int, snippet SnippetOptions) *SearchService {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	if maxPageSize <= 0 {
		maxPageSize = 50
	}
	return &SearchService{
		docs:            docs,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		headlineOpts:    headlineOptions(snippet),
	}
}

type SearchInput struct {
	Query    string
	Cities   []string
	Page     int
	PageSize int
}

// DocumentResult is one search hit as exposed to callers.
type DocumentResult struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Cities        []string  `json:"cities"`
	Keywords      []string  `json:"keywords"`
	Snippet       string    `json:"snippet,omitempty"`
	Highlighted   bool      `json:"highlighted"`
	ViewCount     int64     `json:"view_count"`
	DownloadCount int64     `json:"download_count"`
	FavoriteCount int64     `json:"favorite_count"`
	UploadDate    time.Time `json:"upload_date"`
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

type SearchResult struct {
	Documents  []DocumentResult `json:"documents"`
	Pagination Pagination       `json:"pagination"`
}

// Search runs the ranked full-text query, or the reverse-chronological browse
// listing when the query is blank. The city facet is a title-substring filter
// ANDed with the match in both modes. Any substrate failure surfaces as an
// error, never as a silently empty result set.
func (s *SearchService) Search(input SearchInput) (*SearchResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	offset := (page - 1) * pageSize

	cityPatterns := buildCityPatterns(input.Cities)
	query := strings.TrimSpace(input.Query)

	var (
		documents []DocumentResult
		total     int64
		err       error
	)
	if query == "" {
		documents, total, err = s.browse(cityPatterns, pageSize, offset)
	} else {
		documents, total, err = s.ranked(query, cityPatterns, pageSize, offset)
	}
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Documents: documents,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			Limit:      pageSize,
			TotalPages: totalPages(total, pageSize),
		},
	}, nil
}

func (s *SearchService) ranked(query string, cityPatterns []string, limit, offset int) ([]DocumentResult, int64, error) {
	hits, err := s.docs.SearchRanked(query, cityPatterns, limit, offset, s.headlineOpts)
	if err != nil {
		return nil, 0, err
	}
	// The count runs over the identical predicate, independent of the page
	// slice: the last page is usually short.
	total, err := s.docs.CountRanked(query, cityPatterns)
	if err != nil {
		return nil, 0, err
	}

	results := make([]DocumentResult, 0, len(hits))
	for i := range hits {
		r := toDocumentResult(&hits[i].Document)
		r.Highlighted = true
		r.Snippet = strings.TrimSpace(hits[i].Snippet)
		if r.Snippet == "" {
			r.Snippet = NoSnippetText
		}
		results = append(results, r)
	}
	return results, total, nil
}

func (s *SearchService) browse(cityPatterns []string, limit, offset int) ([]DocumentResult, int64, error) {
	docs, err := s.docs.ListRecent(cityPatterns, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.docs.CountRecent(cityPatterns)
	if err != nil {
		return nil, 0, err
	}

	results := make([]DocumentResult, 0, len(docs))
	for i := range docs {
		results = append(results, toDocumentResult(&docs[i]))
	}
	return results, total, nil
}

func toDocumentResult(doc *model.Document) DocumentResult {
	return DocumentResult{
		ID:            doc.ID,
		Title:         doc.Title,
		Description:   doc.Description,
		Cities:        doc.CityList(),
		Keywords:      doc.KeywordList(),
		ViewCount:     doc.ViewCount,
		DownloadCount: doc.DownloadCount,
		FavoriteCount: doc.FavoriteCount,
		UploadDate:    doc.UploadDate,
	}
}

func buildCityPatterns(cities []string) []string {
	patterns := make([]string, 0, len(cities))
	for _, city := range cities {
		city = strings.TrimSpace(city)
		if city == "" {
			continue
		}
		patterns = append(patterns, "%"+city+"%")
	}
	return patterns
}

func totalPages(total int64, pageSize int) int64 {
	if total == 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}

func headlineOptions(o SnippetOptions) string {
	if o.StartSel == "" {
		o.StartSel = "<mark>"
	}
	if o.StopSel == "" {
		o.StopSel = "</mark>"
	}
	if o.MaxFragments <= 0 {
		o.MaxFragments = 2
	}
	if o.MaxWords <= 0 {
		o.MaxWords = 30
	}
	if o.MinWords <= 0 {
		o.MinWords = 10
	}
	return fmt.Sprintf("StartSel=%s, StopSel=%s, MaxFragments=%d, MaxWords=%d, MinWords=%d",
		o.StartSel, o.StopSel, o.MaxFragments, o.MaxWords, o.MinWords)
}
