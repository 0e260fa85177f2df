package handler

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"lexportal/internal/app"
	"lexportal/internal/event"
	"lexportal/internal/model"
	"lexportal/internal/pkg/snippet"
	"lexportal/internal/transport/http/response"
)

const maxUploadSize = 10 << 20 // 10 MB

type DocumentHandler struct {
	ingestService *app.IngestService
	searchService *app.SearchService
	docs          app.DocumentStore
	publisher     counterPublisherFunc
}

// counterPublisherFunc enqueues view/download counter events; increments
// happen asynchronously in the counter worker.
type counterPublisherFunc func(c *gin.Context, evt event.CounterEvent)

func NewDocumentHandler(
	ingestService *app.IngestService,
	searchService *app.SearchService,
	docs app.DocumentStore,
	publish counterPublisherFunc,
) *DocumentHandler {
	if publish == nil {
		publish = func(*gin.Context, event.CounterEvent) {}
	}
	return &DocumentHandler{
		ingestService: ingestService,
		searchService: searchService,
		docs:          docs,
		publisher:     publish,
	}
}

// Upload ingests a single PDF from a multipart form with "file" and optional
// "title"/"description" fields.
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if msg := validateUpload(file); msg != "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, msg)
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	filename := strings.TrimSpace(c.PostForm("title"))
	if filename == "" {
		filename = file.Filename
	}

	result, err := h.ingestService.Upload(app.UploadInput{
		Filename:    filename,
		Description: c.PostForm("description"),
		File:        f,
	})
	if err != nil {
		var dup *app.DuplicateError
		switch {
		case errors.As(err, &dup):
			response.ErrorWithData(c, http.StatusConflict, response.CodeDuplicateDocument, dup.Error(), gin.H{
				"existing_id":    dup.ExistingID,
				"existing_title": dup.ExistingTitle,
			})
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			log.Printf("document upload failed: %v", err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "upload failed, please try again")
		}
		return
	}

	response.OK(c, result)
}

// UploadBulk ingests every "files" part independently; per-file failures and
// duplicates are reported in the aggregate, never aborting the batch.
func (h *DocumentHandler) UploadBulk(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid multipart form")
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no files provided")
		return
	}

	var bulkFiles []app.BulkFile
	var rejected []app.BulkFailure
	var openFiles []multipart.File
	defer func() {
		for _, f := range openFiles {
			_ = f.Close()
		}
	}()

	for _, header := range fileHeaders {
		if msg := validateUpload(header); msg != "" {
			rejected = append(rejected, app.BulkFailure{Filename: header.Filename, Reason: msg})
			continue
		}
		f, openErr := header.Open()
		if openErr != nil {
			rejected = append(rejected, app.BulkFailure{Filename: header.Filename, Reason: "failed to read file"})
			continue
		}
		openFiles = append(openFiles, f)
		bulkFiles = append(bulkFiles, app.BulkFile{Filename: header.Filename, File: f})
	}

	result := &app.BulkResult{Total: len(fileHeaders), Documents: []app.UploadResult{}, Failures: []app.BulkFailure{}}
	if len(bulkFiles) > 0 {
		processed, bulkErr := h.ingestService.UploadBulk(bulkFiles)
		if bulkErr != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "bulk upload failed")
			return
		}
		result = processed
		result.Total = len(fileHeaders)
	}
	result.Failed += len(rejected)
	result.Failures = append(result.Failures, rejected...)

	response.OK(c, result)
}

// Search answers ranked full-text queries; on a planner failure it falls back
// to the degraded browse listing rather than returning an empty result set.
func (h *DocumentHandler) Search(c *gin.Context) {
	query := c.Query("search")
	if query == "" {
		query = c.Query("searchTerm")
	}

	input := app.SearchInput{
		Query:    query,
		Cities:   parseCities(c),
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parsePageSize(c),
	}

	result, err := h.searchService.Search(input)
	if err != nil && input.Query != "" {
		log.Printf("ranked search failed, falling back to browse: %v", err)
		input.Query = ""
		result, err = h.searchService.Search(input)
	}
	if err != nil {
		log.Printf("document search failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "search failed, please try again")
		return
	}

	response.OK(c, result)
}

// Get returns one document's metadata and publishes a view event.
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, ok := h.fetchDocument(c)
	if !ok {
		return
	}

	h.publisher(c, event.CounterEvent{DocumentID: doc.ID, Counter: event.CounterView})

	response.OK(c, gin.H{
		"id":             doc.ID,
		"title":          doc.Title,
		"description":    doc.Description,
		"cities":         doc.CityList(),
		"keywords":       doc.KeywordList(),
		"view_count":     doc.ViewCount,
		"download_count": doc.DownloadCount,
		"favorite_count": doc.FavoriteCount,
		"upload_date":    doc.UploadDate,
	})
}

// Download resolves the storage locator and publishes a download event; the
// file itself is served by external storage.
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, ok := h.fetchDocument(c)
	if !ok {
		return
	}

	h.publisher(c, event.CounterEvent{DocumentID: doc.ID, Counter: event.CounterDownload})

	response.OK(c, gin.H{
		"id":       doc.ID,
		"title":    doc.Title,
		"file_url": doc.FilePath,
	})
}

// Preview is the admin-facing substring-match highlighter over raw content,
// the fallback to the index's native snippet generator.
func (h *DocumentHandler) Preview(c *gin.Context) {
	doc, ok := h.fetchDocument(c)
	if !ok {
		return
	}

	phrase := strings.TrimSpace(c.Query("q"))
	if phrase == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing q parameter")
		return
	}

	excerpt := snippet.Extract(doc.Content, phrase, snippet.DefaultOptions())
	if excerpt == "" {
		excerpt = app.NoSnippetText
	}
	response.OK(c, gin.H{"id": doc.ID, "title": doc.Title, "snippet": excerpt})
}

func (h *DocumentHandler) fetchDocument(c *gin.Context) (*model.Document, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return nil, false
	}

	doc, err := h.docs.GetByID(uint(id64))
	if err != nil {
		log.Printf("get document failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get document failed")
		return nil, false
	}
	if doc == nil {
		response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, "document not found")
		return nil, false
	}
	return doc, true
}

func validateUpload(header *multipart.FileHeader) string {
	if header.Size > maxUploadSize {
		return "file too large (max 10MB)"
	}
	if strings.ToLower(filepath.Ext(header.Filename)) != ".pdf" {
		return "only PDF files are allowed"
	}
	return ""
}

func parseCities(c *gin.Context) []string {
	var cities []string
	for _, raw := range c.QueryArray("cities") {
		for _, city := range strings.Split(raw, ",") {
			if city = strings.TrimSpace(city); city != "" {
				cities = append(cities, city)
			}
		}
	}
	return cities
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func parsePageSize(c *gin.Context) int {
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			return parsed
		}
	}
	return parseIntQuery(c, "pageSize", 0)
}
