package jobs_test

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/mshibata/fleamarket/database"
	"github.com/mshibata/fleamarket/jobs"
	"github.com/mshibata/fleamarket/models"
	"github.com/mshibata/fleamarket/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingStorage struct {
	deleted []string
	failFor map[string]bool
}

func (r *recordingStorage) Store(context.Context, *multipart.FileHeader, string) (string, error) {
	return "", fmt.Errorf("not used")
}

func (r *recordingStorage) Delete(_ context.Context, path string) error {
	r.deleted = append(r.deleted, path)
	if r.failFor[path] {
		return fmt.Errorf("storage unreachable")
	}
	return nil
}

func setupDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.ImageCleanup{}); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	database.DB = db
}

func TestRetryImageCleanups(t *testing.T) {
	setupDB(t)

	rec := &recordingStorage{failFor: map[string]bool{"chat_images/stuck.png": true}}
	prev := storage.Default
	storage.Default = rec
	t.Cleanup(func() { storage.Default = prev })

	for _, path := range []string{"chat_images/gone.png", "chat_images/stuck.png"} {
		if err := database.DB.Create(&models.ImageCleanup{ImagePath: path}).Error; err != nil {
			t.Fatalf("queue %s: %v", path, err)
		}
	}

	jobs.RetryImageCleanups()

	if len(rec.deleted) != 2 {
		t.Fatalf("storage.Delete calls = %d, want 2", len(rec.deleted))
	}

	var remaining []models.ImageCleanup
	if err := database.DB.Find(&remaining).Error; err != nil {
		t.Fatalf("load queue: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("rows left = %d, want 1 (only the failing path stays queued)", len(remaining))
	}
	if remaining[0].ImagePath != "chat_images/stuck.png" {
		t.Fatalf("remaining path = %s, want chat_images/stuck.png", remaining[0].ImagePath)
	}
	if remaining[0].Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", remaining[0].Attempts)
	}
}
