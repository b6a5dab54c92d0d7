// Package repo – aggregate statistics used for cheap cache validators.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-audience-insights/internal/domain"
)

// VideoStats returns the number of stored videos and the most recent
// updated_at timestamp (nil when the table is empty). The pair is cheap to
// compute and changes whenever the catalog changes, which makes it a good
// weak-ETag source for the list endpoint.
func VideoStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error) {
	q := db.WithContext(ctx).Model(&domain.Video{})

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err := q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return count, nil, err
	}
	return count, &row.UpdatedAt, nil
}
