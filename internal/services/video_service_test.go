package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-audience-insights/internal/repo"
	"github.com/tbourn/go-audience-insights/internal/youtube"
)

func TestVideoServiceGet(t *testing.T) {
	db := newTestDB(t)
	seedVideo(t, db, "vid123456")
	s := NewVideoService(db, &fakeSource{})

	v, err := s.Get(context.Background(), "https://youtu.be/vid123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ID != "vid123456" {
		t.Fatalf("wrong video: %+v", v)
	}

	if _, err := s.Get(context.Background(), "missing99"); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound, got %v", err)
	}
	if _, err := s.Get(context.Background(), "!!!"); !errors.Is(err, ErrBadVideoRef) {
		t.Fatalf("expected ErrBadVideoRef, got %v", err)
	}
}

func TestVideoServiceListPage(t *testing.T) {
	db := newTestDB(t)
	for _, id := range []string{"video0001", "video0002", "video0003"} {
		seedVideo(t, db, id)
	}
	s := NewVideoService(db, &fakeSource{})

	items, total, err := s.ListPage(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(items) != 2 {
		t.Fatalf("expected page of 2, got %d", len(items))
	}

	// Defaults kick in for invalid paging input.
	items, total, err = s.ListPage(context.Background(), 0, -5)
	if err != nil || total != 3 || len(items) != 3 {
		t.Fatalf("default paging failed: items=%d total=%d err=%v", len(items), total, err)
	}
}

func TestVideoServiceListPageEmpty(t *testing.T) {
	s := NewVideoService(newTestDB(t), &fakeSource{})
	items, total, err := s.ListPage(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Fatalf("expected empty catalog, got items=%d total=%d", len(items), total)
	}
}

func TestVideoServiceCommentsPage(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedVideo(t, db, "vid123456")
	if _, err := repo.InsertComments(ctx, db, "vid123456", mkComments("pg", 5)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := NewVideoService(db, &fakeSource{})

	items, total, err := s.CommentsPage(ctx, "vid123456", 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(items) != 2 {
		t.Fatalf("expected page of 2, got %d", len(items))
	}
	if items[0].ID != "pgc" || items[1].ID != "pgd" {
		t.Fatalf("unexpected page order: %q %q", items[0].ID, items[1].ID)
	}

	if _, _, err := s.CommentsPage(ctx, "missing99", 1, 10); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestVideoServiceDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedVideo(t, db, "vid123456")
	if _, err := repo.InsertComments(ctx, db, "vid123456", mkComments("dc", 3)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := NewVideoService(db, &fakeSource{})

	if err := s.Delete(ctx, "vid123456"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetVideo(ctx, db, "vid123456"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("video should be gone, got %v", err)
	}
	total, err := repo.CountComments(ctx, db, "vid123456")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 0 {
		t.Fatalf("comments should cascade, %d left", total)
	}

	if err := s.Delete(ctx, "vid123456"); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound on second delete, got %v", err)
	}
}

func TestVideoServiceSearch(t *testing.T) {
	src := &fakeSource{searchHits: []youtube.SearchResult{
		{VideoID: "vid123456", Title: "Go Tutorial"},
	}}
	s := NewVideoService(nil, src)

	hits, err := s.Search(context.Background(), "  go tutorial  ", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].VideoID != "vid123456" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
	if src.searchQ != "go tutorial" {
		t.Fatalf("query not trimmed: %q", src.searchQ)
	}

	if _, err := s.Search(context.Background(), "   ", 10); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}
