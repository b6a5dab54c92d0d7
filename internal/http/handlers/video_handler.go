// Video HTTP handlers.
//
// This file exposes REST endpoints for the ingestion/analysis pipeline:
//   - POST   /videos/{id}/ingestion  (trigger comment ingestion, idempotent)
//   - POST   /videos/{id}/analysis   (run an analysis pass, return the result)
//   - GET    /videos                 (list stored videos, paginated, ETag)
//   - GET    /videos/{id}            (stored metadata + analysis summary)
//   - GET    /videos/{id}/comments   (stored comments, paginated)
//   - GET    /search?q=              (proxy upstream video search)
//   - DELETE /videos/{id}            (administrative cascade delete)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses (including conditional
// responses). The {id} segment accepts a bare video ID; full URLs go through
// the same reference parser in the service layer.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-audience-insights/internal/analysis"
	"github.com/tbourn/go-audience-insights/internal/domain"
	"github.com/tbourn/go-audience-insights/internal/repo"
	"github.com/tbourn/go-audience-insights/internal/services"
	"github.com/tbourn/go-audience-insights/internal/utils"
	"github.com/tbourn/go-audience-insights/internal/youtube"
)

//
// Service contracts (context-aware)
//

// IngestService triggers comment ingestion for one video.
// Implementations must be safe for concurrent use and honor the context.
type IngestService interface {
	Ingest(ctx context.Context, ref string) (*services.IngestReport, error)
}

// AnalysisService runs an analysis pass over a video's stored comments.
type AnalysisService interface {
	Analyze(ctx context.Context, ref string) (*analysis.AnalysisResult, error)
}

// VideoService exposes the stored catalog and upstream search.
type VideoService interface {
	Get(ctx context.Context, ref string) (*domain.Video, error)
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Video, int64, error)
	CommentsPage(ctx context.Context, ref string, page, pageSize int) ([]domain.Comment, int64, error)
	Search(ctx context.Context, q string, maxResults int64) ([]youtube.SearchResult, error)
	Delete(ctx context.Context, ref string) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the API. It depends on abstract
// service interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	ingestSvc   IngestService
	analysisSvc AnalysisService
	videoSvc    VideoService

	// DB is used only for cheap ETag statistics on list responses.
	DB *gorm.DB
}

// New constructs a Handlers instance bound to the given services.
func New(ing IngestService, ana AnalysisService, vid VideoService, db *gorm.DB) *Handlers {
	return &Handlers{ingestSvc: ing, analysisSvc: ana, videoSvc: vid, DB: db}
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListVideosResponse contains a page of stored videos.
type ListVideosResponse struct {
	Videos     []domain.Video `json:"videos"`
	Pagination Pagination     `json:"pagination"`
}

// ListCommentsResponse contains a page of a video's stored comments.
type ListCommentsResponse struct {
	Comments   []domain.Comment `json:"comments"`
	Pagination Pagination       `json:"pagination"`
}

// SearchResponse contains upstream search hits.
type SearchResponse struct {
	Query   string                 `json:"query"`
	Results []youtube.SearchResult `json:"results"`
}

// clampPagination parses page/page_size from query parameters, applies sane
// defaults and caps, and returns the validated (page, pageSize).
func clampPagination(c *gin.Context, defaultSize, maxSize int) (page, pageSize int) {
	page = utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return
}

func paginationMeta(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

//
// Handlers
//

// PostIngestion triggers comment ingestion for the referenced video. The
// operation is idempotent: a video whose comments are already stored is
// reported as skipped without consuming upstream quota.
func (h *Handlers) PostIngestion(c *gin.Context) {
	ctx := c.Request.Context()

	report, err := h.ingestSvc.Ingest(ctx, c.Param("id"))
	if err != nil {
		var pe *services.PartialIngestionError
		var rle *youtube.RateLimitedError
		switch {
		case errors.Is(err, services.ErrBadVideoRef):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a video id or youtube url")
		case errors.Is(err, services.ErrVideoNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "video not found")
		case errors.As(err, &pe):
			fail(c, http.StatusBadGateway, ErrCodePartialIngestion,
				fmt.Sprintf("ingestion interrupted after %d comments; stored data is incomplete", pe.Inserted))
		case errors.As(err, &rle):
			if rle.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(rle.RetryAfter/time.Second)))
			}
			fail(c, http.StatusServiceUnavailable, ErrCodeIngestFailed, "upstream quota exhausted")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeIngestFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, report)
}

// PostAnalysis runs an analysis pass over the video's stored comments,
// ingesting them first when absent, and returns the grounded result.
func (h *Handlers) PostAnalysis(c *gin.Context) {
	ctx := c.Request.Context()

	res, err := h.analysisSvc.Analyze(ctx, c.Param("id"))
	if err != nil {
		var rle *youtube.RateLimitedError
		switch {
		case errors.Is(err, services.ErrBadVideoRef):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a video id or youtube url")
		case errors.Is(err, services.ErrVideoNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "video not found")
		case errors.As(err, &rle):
			if rle.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(rle.RetryAfter/time.Second)))
			}
			fail(c, http.StatusServiceUnavailable, ErrCodeAnalysisFailed, "upstream quota exhausted")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeAnalysisFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, res)
}

// ListVideos returns a page of stored videos, newest first, with a weak ETag
// derived from catalog statistics.
func (h *Handlers) ListVideos(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	if h.DB != nil {
		count, maxTS, err := repo.VideoStats(ctx, h.DB)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"videos:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	page, pageSize := clampPagination(c, 20, 100)
	items, total, err := h.videoSvc.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ListVideosResponse{
		Videos:     items,
		Pagination: paginationMeta(page, pageSize, total),
	})
}

// GetVideo returns stored metadata and, when present, the analysis summary.
func (h *Handlers) GetVideo(c *gin.Context) {
	v, err := h.videoSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadVideoRef):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a video id or youtube url")
		case errors.Is(err, services.ErrVideoNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "video not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, v)
}

// ListComments returns a page of the video's stored comments in the
// deterministic store order.
func (h *Handlers) ListComments(c *gin.Context) {
	page, pageSize := clampPagination(c, 50, 200)
	items, total, err := h.videoSvc.CommentsPage(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadVideoRef):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a video id or youtube url")
		case errors.Is(err, services.ErrVideoNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "video not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, ListCommentsResponse{
		Comments:   items,
		Pagination: paginationMeta(page, pageSize, total),
	})
}

// Search proxies an upstream video search.
func (h *Handlers) Search(c *gin.Context) {
	q := c.Query("q")
	maxResults := utils.Atoi64Default(c.Query("max_results"), 10)

	hits, err := h.videoSvc.Search(c.Request.Context(), q, maxResults)
	if err != nil {
		var rle *youtube.RateLimitedError
		switch {
		case errors.Is(err, services.ErrEmptyQuery):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q is required")
		case errors.As(err, &rle):
			fail(c, http.StatusServiceUnavailable, ErrCodeSearchFailed, "upstream quota exhausted")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeSearchFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, SearchResponse{Query: q, Results: hits})
}

// DeleteVideo removes a stored video and, via the schema cascade, all of its
// comments. Administrative use only.
func (h *Handlers) DeleteVideo(c *gin.Context) {
	err := h.videoSvc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadVideoRef):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a video id or youtube url")
		case errors.Is(err, services.ErrVideoNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "video not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		}
		return
	}
	noContent(c)
}
