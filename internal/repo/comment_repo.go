// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Comment
// model, including the idempotent batch insert the ingestion coordinator
// depends on.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-audience-insights/internal/domain"
)

// HasComments reports whether at least one comment row references videoID.
// It probes with a LIMIT 1 existence query so comment bodies are never loaded.
//
// This is the ingestion gate: "any comment present" is treated as "already
// ingested, skip re-fetch". A partial ingestion that persisted at least one
// comment will therefore not be re-fetched.
func HasComments(ctx context.Context, db *gorm.DB, videoID string) (bool, error) {
	var one int
	err := db.WithContext(ctx).
		Raw("SELECT 1 FROM comments WHERE video_id = ? LIMIT 1", videoID).
		Scan(&one).Error
	if err != nil {
		return false, err
	}
	return one == 1, nil
}

// InsertComments persists a batch of comments for videoID and returns the
// number of rows actually inserted. Comments whose identifier already exists
// are skipped via ON CONFLICT DO NOTHING, not duplicated and not errored:
// the primary-key constraint, not an application lock, is what makes
// concurrent or repeated ingestion safe.
func InsertComments(ctx context.Context, db *gorm.DB, videoID string, comments []domain.Comment) (int64, error) {
	if len(comments) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	rows := make([]domain.Comment, len(comments))
	for i, c := range comments {
		c.VideoID = videoID
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		rows[i] = c
	}
	res := db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ListComments returns comments for a video ordered deterministically
// (CreatedAt ASC, ID ASC). A limit <= 0 returns all rows.
func ListComments(ctx context.Context, db *gorm.DB, videoID string, limit int) ([]domain.Comment, error) {
	var out []domain.Comment
	q := db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListCommentsPage returns a paginated slice ordered (CreatedAt ASC, ID ASC).
func ListCommentsPage(ctx context.Context, db *gorm.DB, videoID string, offset, limit int) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountComments uses a raw COUNT so a missing table surfaces as an error.
func CountComments(ctx context.Context, db *gorm.DB, videoID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM comments WHERE video_id = ?", videoID).
		Scan(&total).Error
	return total, err
}
