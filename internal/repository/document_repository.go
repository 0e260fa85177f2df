package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"lexportal/internal/model"
)

// searchVectorExpr recomputes the tsvector in the same statement as every
// content write, so the index can never go stale relative to content.
const searchVectorExpr = "to_tsvector('italian', unaccent(?))"

// tsQueryExpr is the shared match predicate for ranked search and its count.
const tsQueryExpr = "websearch_to_tsquery('italian', unaccent(?))"

// ErrDuplicate reports that the duplicate guard found an existing record.
// The conflicting document travels alongside via FindConflict.
var ErrDuplicate = errors.New("document already exists")

type DocumentRepository struct {
	db *gorm.DB
}

// SearchHit is one ranked search result with its substrate-generated snippet.
type SearchHit struct {
	model.Document
	Rank    float64 `gorm:"column:rank"`
	Snippet string  `gorm:"column:snippet"`
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// FindConflict returns an existing document matching the storage path or the
// case-insensitively equal title; nil when the slot is free.
func (r *DocumentRepository) FindConflict(filePath, title string) (*model.Document, error) {
	var doc model.Document
	err := r.db.
		Where("file_path = ? OR lower(title) = lower(?)", filePath, title).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("duplicate check failed: %w", err)
	}
	return &doc, nil
}

// CreateGuarded runs the duplicate check and the stub insert in one
// transaction. On conflict it returns the existing record and ErrDuplicate;
// the unique indexes on file_path and lower(title) back the check against
// concurrent uploads that pass the read at the same time.
func (r *DocumentRepository) CreateGuarded(doc *model.Document) (*model.Document, error) {
	var existing *model.Document
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var found model.Document
		lookupErr := tx.
			Where("file_path = ? OR lower(title) = lower(?)", doc.FilePath, doc.Title).
			First(&found).Error
		if lookupErr == nil {
			existing = &found
			return ErrDuplicate
		}
		if !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return fmt.Errorf("duplicate check failed: %w", lookupErr)
		}
		if createErr := tx.Create(doc).Error; createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return fmt.Errorf("create document failed: %w", createErr)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) && existing == nil {
			// Lost the race after the read; fetch the winner for the caller.
			if winner, findErr := r.FindConflict(doc.FilePath, doc.Title); findErr == nil {
				existing = winner
			}
		}
		return existing, err
	}
	return nil, nil
}

// Finalize writes the extracted content, tags, and keyword seeds, recomputing
// the search vector in the same UPDATE.
func (r *DocumentRepository) Finalize(id uint, content, cities, keywords string) error {
	err := r.db.Model(&model.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":       content,
			"cities":        cities,
			"keywords":      keywords,
			"search_vector": gorm.Expr(searchVectorExpr, content),
		}).Error
	if err != nil {
		return fmt.Errorf("finalize document failed: %w", err)
	}
	return nil
}

// Delete removes a document record; used to unwind a stub whose finalize
// failed so no half-indexed record survives.
func (r *DocumentRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Document{}, id).Error; err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

// SearchRanked issues the full-text match ordered by relevance, recency,
// then id, selecting a ts_headline snippet per row. cityPatterns are
// pre-built ILIKE patterns ANDed with the text match.
func (r *DocumentRepository) SearchRanked(query string, cityPatterns []string, limit, offset int, headlineOpts string) ([]SearchHit, error) {
	var hits []SearchHit
	tx := r.db.Model(&model.Document{}).
		Select(
			"documents.*, "+
				"ts_rank(search_vector, "+tsQueryExpr+") AS rank, "+
				"ts_headline('italian', content, "+tsQueryExpr+", ?) AS snippet",
			query, query, headlineOpts,
		).
		Where("search_vector @@ "+tsQueryExpr, query)
	tx = applyCityFilter(tx, cityPatterns)
	err := tx.
		Order("rank DESC, upload_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&hits).Error
	if err != nil {
		return nil, fmt.Errorf("ranked search failed: %w", err)
	}
	return hits, nil
}

// CountRanked counts matches over the identical predicate as SearchRanked,
// independent of the page slice.
func (r *DocumentRepository) CountRanked(query string, cityPatterns []string) (int64, error) {
	var total int64
	tx := r.db.Model(&model.Document{}).
		Where("search_vector @@ "+tsQueryExpr, query)
	tx = applyCityFilter(tx, cityPatterns)
	if err := tx.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("ranked count failed: %w", err)
	}
	return total, nil
}

// ListRecent is the browse fallback: reverse-chronological, no ranking.
func (r *DocumentRepository) ListRecent(cityPatterns []string, limit, offset int) ([]model.Document, error) {
	var docs []model.Document
	tx := applyCityFilter(r.db.Model(&model.Document{}), cityPatterns)
	err := tx.
		Order("upload_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) CountRecent(cityPatterns []string) (int64, error) {
	var total int64
	tx := applyCityFilter(r.db.Model(&model.Document{}), cityPatterns)
	if err := tx.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count documents failed: %w", err)
	}
	return total, nil
}

// IncrementCounter atomically bumps one of the monotonic counters at the
// storage layer; no read-modify-write in application code.
func (r *DocumentRepository) IncrementCounter(id uint, column string) error {
	switch column {
	case "view_count", "download_count", "favorite_count":
	default:
		return fmt.Errorf("unknown counter column %q", column)
	}
	err := r.db.Model(&model.Document{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("increment %s failed: %w", column, err)
	}
	return nil
}

// applyCityFilter narrows by title substring: tags are derived from titles at
// ingestion, so the facet filter matches on titles for the same precision.
func applyCityFilter(tx *gorm.DB, cityPatterns []string) *gorm.DB {
	if len(cityPatterns) == 0 {
		return tx
	}
	clause := strings.TrimSuffix(strings.Repeat("title ILIKE ? OR ", len(cityPatterns)), " OR ")
	args := make([]interface{}, len(cityPatterns))
	for i, p := range cityPatterns {
		args[i] = p
	}
	return tx.Where("("+clause+")", args...)
}
