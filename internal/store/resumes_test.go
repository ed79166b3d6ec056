package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"resumeflow/internal/database"
	"resumeflow/internal/resume"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.User{}, &database.Resume{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGateway(db)
}

func TestSaveCreatesAndStamps(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)

	rec := resume.DefaultRecord()
	rec.Contact.FullName = "Jane Doe"

	saved, err := g.Save(ctx, rec, 1)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("id not assigned on create")
	}
	if saved.OwnerID != 1 {
		t.Fatalf("ownerID = %d, want 1", saved.OwnerID)
	}
	if saved.LastUpdated.IsZero() {
		t.Fatal("lastUpdated not stamped")
	}
	if saved.Contact.FullName != "Jane Doe" {
		t.Fatalf("content lost: %+v", saved.Contact)
	}
}

func TestSaveUnauthenticated(t *testing.T) {
	g := newTestGateway(t)

	_, err := g.Save(context.Background(), resume.DefaultRecord(), 0)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}

	count, err := g.Count(context.Background(), 0)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("unauthenticated save wrote %d rows", count)
	}
}

func TestSaveUpdatesExistingRecord(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)

	created, err := g.Save(ctx, resume.DefaultRecord(), 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	firstStamp := created.LastUpdated

	created.Title = "Updated Title"
	created.Summary = "now with a summary"
	time.Sleep(5 * time.Millisecond)

	updated, err := g.Save(ctx, created, 1)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("update created a new record: %s -> %s", created.ID, updated.ID)
	}
	if updated.Title != "Updated Title" || updated.Summary != "now with a summary" {
		t.Fatalf("update lost fields: %+v", updated)
	}
	if !updated.LastUpdated.After(firstStamp) {
		t.Fatalf("lastUpdated not re-stamped: %v -> %v", firstStamp, updated.LastUpdated)
	}

	records, err := g.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("list = %d records, want 1", len(records))
	}
}

func TestSaveWrongOwner(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)

	created, err := g.Save(ctx, resume.DefaultRecord(), 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := g.Save(ctx, created, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for foreign owner", err)
	}
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)

	older, err := g.Save(ctx, resume.DefaultRecord(), 1)
	if err != nil {
		t.Fatalf("save older: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	newer := resume.DefaultRecord()
	newer.Title = "Newest"
	newest, err := g.Save(ctx, newer, 1)
	if err != nil {
		t.Fatalf("save newer: %v", err)
	}

	// 缺少 lastUpdated 的记录按最旧排序。
	if err := g.db.Create(&database.Resume{Title: "No Stamp", UserID: 1, Content: []byte("{}")}).Error; err != nil {
		t.Fatalf("insert unstamped: %v", err)
	}

	records, err := g.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("list = %d records, want 3", len(records))
	}
	if records[0].ID != newest.ID {
		t.Fatalf("first record = %s, want newest %s", records[0].ID, newest.ID)
	}
	if records[1].ID != older.ID {
		t.Fatalf("second record = %s, want older %s", records[1].ID, older.ID)
	}
	if records[2].Title != "No Stamp" {
		t.Fatalf("unstamped record not last: %+v", records[2])
	}
}

func TestGetNotFound(t *testing.T) {
	g := newTestGateway(t)

	if _, err := g.Get(context.Background(), "999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := g.Get(context.Background(), "not-a-number"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("err = %v, want ErrInvalidID", err)
	}
}

func TestGetNormalizesSparseContent(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)

	row := database.Resume{
		Title:   "Sparse",
		UserID:  1,
		Content: []byte(`{"contact":{"fullName":"Jane Doe"}}`),
	}
	if err := g.db.Create(&row).Error; err != nil {
		t.Fatalf("insert sparse row: %v", err)
	}

	rec, err := g.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Contact.FullName != "Jane Doe" {
		t.Fatalf("content lost: %+v", rec.Contact)
	}
	if len(rec.WorkExperience) == 0 || len(rec.Skills) == 0 || rec.Theme != resume.ThemeLight {
		t.Fatalf("sparse content not normalized: %+v", rec)
	}
	if rec.Title != "Sparse" {
		t.Fatalf("title = %q", rec.Title)
	}
}

func TestDeleteIsScopedAndReported(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)

	created, err := g.Save(ctx, resume.DefaultRecord(), 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := g.Delete(ctx, created.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete err = %v, want ErrNotFound", err)
	}
	if err := g.Delete(ctx, created.ID, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := g.Delete(ctx, created.ID, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}

	records, err := g.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("deleted record still listed: %+v", records)
	}
}
