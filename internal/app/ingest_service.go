package app

import (
	"errors"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"lexportal/internal/model"
	"lexportal/internal/pkg/pdfextract"
	"lexportal/internal/repository"
	"lexportal/internal/tagging"
)

const storagePrefix = "/uploads/documents"

// IngestService runs the ingestion pipeline: duplicate guard, stub persist,
// text extraction, entity tagging, finalize write.
type IngestService struct {
	docs    DocumentStore
	tagger  *tagging.Tagger
	extract func(io.Reader) (string, error)
}

func NewIngestService(docs DocumentStore, tagger *tagging.Tagger) *IngestService {
	return &IngestService{
		docs:    docs,
		tagger:  tagger,
		extract: pdfextract.ExtractText,
	}
}

type UploadInput struct {
	Filename    string
	Description string
	File        io.Reader
}

// UploadResult summarizes one newly created document.
type UploadResult struct {
	ID     uint     `json:"id"`
	Title  string   `json:"title"`
	Cities []string `json:"cities"`
}

// BulkFile is one unit of work in a bulk upload.
type BulkFile struct {
	Filename    string
	Description string
	File        io.Reader
}

// BulkFailure records why one file of a bulk upload was not ingested.
type BulkFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// BulkResult aggregates the independent per-file outcomes of a bulk upload.
type BulkResult struct {
	Total      int            `json:"total"`
	Successful int            `json:"successful"`
	Failed     int            `json:"failed"`
	Skipped    int            `json:"skipped"`
	Documents  []UploadResult `json:"documents"`
	Failures   []BulkFailure  `json:"failures"`
}

// Upload ingests a single document. The title keeps the original filename,
// extension included. Extraction failure degrades to an empty-content record;
// a failed finalize unwinds the stub so no half-indexed record survives.
func (s *IngestService) Upload(input UploadInput) (*UploadResult, error) {
	filename := strings.TrimSpace(input.Filename)
	if filename == "" || input.File == nil {
		return nil, ErrInvalidInput
	}

	doc := &model.Document{
		Title:       filename,
		FilePath:    path.Join(storagePrefix, filename),
		Description: strings.TrimSpace(input.Description),
		UploadDate:  time.Now(),
	}
	doc.SetCities(nil)
	doc.SetKeywords(nil)

	existing, err := s.docs.CreateGuarded(doc)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			dup := &DuplicateError{}
			if existing != nil {
				dup.ExistingID = existing.ID
				dup.ExistingTitle = existing.Title
			}
			return nil, dup
		}
		return nil, err
	}

	content, extractErr := s.extract(input.File)
	if extractErr != nil {
		// A discoverable-but-untagged record beats no record.
		log.Printf("text extraction failed for %q: %v", filename, extractErr)
		content = ""
	}
	content = strings.TrimSpace(content)

	cities := s.tagger.Cities(filename)
	keywords := s.tagger.Keywords(filename)

	tagged := &model.Document{}
	tagged.SetCities(cities)
	tagged.SetKeywords(keywords)
	if err := s.docs.Finalize(doc.ID, content, tagged.Cities, tagged.Keywords); err != nil {
		if delErr := s.docs.Delete(doc.ID); delErr != nil {
			log.Printf("unwind stub %d failed: %v", doc.ID, delErr)
		}
		return nil, err
	}

	return &UploadResult{
		ID:     doc.ID,
		Title:  doc.Title,
		Cities: cities,
	}, nil
}

// UploadBulk processes each file independently: a duplicate counts as
// skipped, any other failure counts as failed, and neither stops the rest.
func (s *IngestService) UploadBulk(files []BulkFile) (*BulkResult, error) {
	if len(files) == 0 {
		return nil, ErrInvalidInput
	}

	result := &BulkResult{
		Total:     len(files),
		Documents: []UploadResult{},
		Failures:  []BulkFailure{},
	}
	for _, f := range files {
		created, err := s.Upload(UploadInput{
			Filename:    f.Filename,
			Description: f.Description,
			File:        f.File,
		})
		if err != nil {
			var dup *DuplicateError
			if errors.As(err, &dup) {
				result.Skipped++
				continue
			}
			result.Failed++
			result.Failures = append(result.Failures, BulkFailure{
				Filename: f.Filename,
				Reason:   err.Error(),
			})
			continue
		}
		result.Successful++
		result.Documents = append(result.Documents, *created)
	}
	return result, nil
}
