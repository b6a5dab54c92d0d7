// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Video model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a video is not found, functions return gorm.ErrRecordNotFound
//     (exported in this package as ErrNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated; use IsUnavailable and
//     IsConstraintViolation to classify.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-audience-insights/internal/domain"
)

// UpsertVideo inserts the video row or, when the row already exists, refreshes
// only the columns that are allowed to drift: public counters and display
// metadata. The identifier and publish timestamp are immutable once stored
// and are deliberately excluded from the update set.
func UpsertVideo(ctx context.Context, db *gorm.DB, v *domain.Video) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "url", "description", "channel_title", "duration",
				"comment_count", "like_count", "view_count", "updated_at",
			}),
		}).
		Create(v).Error
}

// GetVideo fetches a single video by its provider-assigned ID. If the record
// does not exist, it returns ErrNotFound. On other DB errors, the raw error
// is returned.
func GetVideo(ctx context.Context, db *gorm.DB, id string) (*domain.Video, error) {
	var v domain.Video
	if err := db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// SetAnalysisSummary attaches the completed analysis text to a video row.
// It returns ErrNotFound when the video is absent (no rows affected), which
// is the only mutation of a video row the analysis path performs.
func SetAnalysisSummary(ctx context.Context, db *gorm.DB, id, summary string) error {
	res := db.WithContext(ctx).
		Model(&domain.Video{}).
		Where("id = ?", id).
		Updates(map[string]any{"analysis_summary": summary, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListVideos returns a paginated slice of stored videos ordered by creation
// time descending. Use VideoStats to obtain totals for pagination metadata.
func ListVideos(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Video, error) {
	var out []domain.Video
	q := db.WithContext(ctx).Order("created_at desc, id asc").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// DeleteVideo removes a video row. This is an administrative operation, never
// invoked by the ingestion or analysis paths; the schema cascades the delete
// to all comment rows of the video. Returns ErrNotFound when no row matched.
func DeleteVideo(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Video{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
