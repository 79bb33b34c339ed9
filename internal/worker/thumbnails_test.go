package worker

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/KNehe/alx-files-manager/internal/config"
	"github.com/KNehe/alx-files-manager/internal/database"
	"github.com/KNehe/alx-files-manager/internal/models"
	"github.com/KNehe/alx-files-manager/internal/queue"
	"github.com/KNehe/alx-files-manager/internal/storage"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupWorker(t *testing.T) (*ThumbnailWorker, *gorm.DB, *storage.LocalStorage) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed migrating models: %v", err)
	}

	store := storage.NewLocal(config.StorageConfig{FolderPath: t.TempDir()})
	q := queue.NewThumbnailQueue(4)

	return NewThumbnailWorker(db, store, q), db, store
}

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed encoding test png: %v", err)
	}
	return buf.Bytes()
}

func TestProcessGeneratesThumbnails(t *testing.T) {
	w, db, store := setupWorker(t)

	path, err := store.Save(encodeTestPNG(t, 800, 600))
	if err != nil {
		t.Fatalf("failed storing image bytes: %v", err)
	}

	file := models.File{
		Name:      "photo.png",
		Type:      models.FileTypeImage,
		UserID:    newTestUser(t, db),
		LocalPath: path,
	}
	if err := db.Create(&file).Error; err != nil {
		t.Fatalf("failed creating file record: %v", err)
	}

	w.Process(queue.Job{UserID: file.UserID.String(), FileID: file.ID.String()})

	for _, width := range []int{500, 250, 100} {
		target := fmt.Sprintf("%s_%d", path, width)

		f, err := os.Open(target)
		if err != nil {
			t.Fatalf("thumbnail %d missing: %v", width, err)
		}
		thumb, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("thumbnail %d not decodable: %v", width, err)
		}
		if got := thumb.Bounds().Dx(); got != width {
			t.Fatalf("thumbnail width %d, want %d", got, width)
		}
	}
}

func TestProcessSkipsNonImages(t *testing.T) {
	w, db, store := setupWorker(t)

	path, err := store.Save([]byte("plain text"))
	if err != nil {
		t.Fatalf("failed storing bytes: %v", err)
	}

	file := models.File{
		Name:      "notes.txt",
		Type:      models.FileTypeFile,
		UserID:    newTestUser(t, db),
		LocalPath: path,
	}
	if err := db.Create(&file).Error; err != nil {
		t.Fatalf("failed creating file record: %v", err)
	}

	w.Process(queue.Job{UserID: file.UserID.String(), FileID: file.ID.String()})

	if _, err := os.Stat(fmt.Sprintf("%s_500", path)); !os.IsNotExist(err) {
		t.Fatalf("non-image produced a thumbnail: %v", err)
	}
}

func TestProcessToleratesMissingRecord(t *testing.T) {
	w, _, _ := setupWorker(t)

	// Must log and return, never panic.
	w.Process(queue.Job{UserID: "nobody", FileID: "00000000-0000-0000-0000-000000000000"})
}

func newTestUser(t *testing.T, db *gorm.DB) (id uuid.UUID) {
	t.Helper()

	user := models.User{Email: uuid.New().String() + "@test.com", PasswordHash: "irrelevant"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed creating user: %v", err)
	}
	return user.ID
}
