// Package domain defines the persistence models for videos and their
// comments. These types are mapped with GORM and form the core data layer
// of the audience-insights application.
package domain

import (
	"time"
)

// Video represents a single YouTube video whose comments are ingested and
// analyzed. The row is created on the first successful metadata fetch and is
// only ever updated to refresh public counters or to attach the analysis
// summary once an analysis pass completes.
//
// Fields:
//   - ID: provider-assigned video identifier (primary key, immutable).
//   - PublishedAt: upstream publish timestamp (immutable once stored).
//   - Title / URL / Description / ChannelTitle / Duration: display metadata.
//   - CommentCount / LikeCount / ViewCount: refreshable public counters.
//   - AnalysisSummary: nil until an analysis pass has completed.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Video struct {
	ID              string    `json:"id"               gorm:"type:varchar(64);primaryKey"`
	PublishedAt     time.Time `json:"published_at"`
	Title           string    `json:"title"            gorm:"type:varchar(255);not null"`
	URL             string    `json:"url"              gorm:"type:varchar(255);not null"`
	Description     string    `json:"description"      gorm:"type:text"`
	ChannelTitle    string    `json:"channel_title"    gorm:"type:varchar(255)"`
	Duration        string    `json:"duration"         gorm:"type:varchar(32)"`
	CommentCount    int64     `json:"comment_count"`
	LikeCount       int64     `json:"like_count"`
	ViewCount       int64     `json:"view_count"`
	AnalysisSummary *string   `json:"analysis_summary,omitempty" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the database table name for Video.
func (Video) TableName() string { return "videos" }

// Comment is a single top-level comment on a video. Comments are written
// exactly once during ingestion and are immutable afterwards; the store is
// the source of truth and rows are never re-fetched once present.
//
// Fields:
//   - ID: provider-assigned comment identifier (primary key). The primary-key
//     uniqueness constraint is the sole defense against duplicate rows from
//     racing ingestions, so inserts must use an idempotent ON CONFLICT path.
//   - VideoID: foreign key to the owning video (indexed).
//   - Text: raw display text as returned by the provider, not re-encoded.
//   - LikeCount / ReplyCount: public counters captured at ingestion time.
//   - CreatedAt: ingestion timestamp.
//   - Video: FK association; comments are cascade-deleted with their video.
type Comment struct {
	ID         string    `json:"id"          gorm:"type:varchar(64);primaryKey"`
	VideoID    string    `json:"video_id"    gorm:"type:varchar(64);not null;index:idx_video_comments"`
	Text       string    `json:"text"        gorm:"type:text;not null"`
	LikeCount  int64     `json:"like_count"`
	ReplyCount int64     `json:"reply_count"`
	CreatedAt  time.Time `json:"created_at"`

	// Video is the parent video. Comment rows are removed when their video
	// is deleted by an administrative action.
	Video Video `json:"-" gorm:"foreignKey:VideoID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }
