package worker

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/KNehe/alx-files-manager/internal/models"
	"github.com/KNehe/alx-files-manager/internal/queue"
	"github.com/KNehe/alx-files-manager/internal/storage"
	"github.com/KNehe/alx-files-manager/pkg/logger"
	"github.com/disintegration/imaging"
	"gorm.io/gorm"
)

var thumbnailWidths = []int{500, 250, 100}

// ThumbnailWorker drains the queue and writes width-capped variants of
// stored images next to the original as <localPath>_<width>. It runs off
// the request path; every failure is logged and swallowed.
type ThumbnailWorker struct {
	DB      *gorm.DB
	Storage *storage.LocalStorage
	Queue   *queue.ThumbnailQueue
}

func NewThumbnailWorker(db *gorm.DB, store *storage.LocalStorage, q *queue.ThumbnailQueue) *ThumbnailWorker {
	return &ThumbnailWorker{DB: db, Storage: store, Queue: q}
}

func (w *ThumbnailWorker) Run(ctx context.Context) {
	for {
		select {
		case job, ok := <-w.Queue.Jobs():
			if !ok {
				return
			}
			w.Process(job)
		case <-ctx.Done():
			return
		}
	}
}

func (w *ThumbnailWorker) Process(job queue.Job) {
	var file models.File
	if err := w.DB.First(&file, "id = ?", job.FileID).Error; err != nil {
		logger.Error("thumbnail_file_lookup_failed", err, map[string]interface{}{
			"file_id": job.FileID,
		})
		return
	}
	if file.Type != models.FileTypeImage || file.LocalPath == "" {
		return
	}

	data, err := w.Storage.Read(file.LocalPath)
	if err != nil {
		logger.Error("thumbnail_read_failed", err, map[string]interface{}{
			"file_id": job.FileID,
			"path":    file.LocalPath,
		})
		return
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Error("thumbnail_decode_failed", err, map[string]interface{}{
			"file_id": job.FileID,
		})
		return
	}

	for _, width := range thumbnailWidths {
		thumb := imaging.Resize(src, width, 0, imaging.Lanczos)
		target := fmt.Sprintf("%s_%d", file.LocalPath, width)
		if err := saveImage(target, thumb, format); err != nil {
			logger.Error("thumbnail_write_failed", err, map[string]interface{}{
				"file_id": job.FileID,
				"path":    target,
			})
			return
		}
	}

	logger.InfoWithUser(job.UserID, "thumbnails_generated", map[string]interface{}{
		"file_id": job.FileID,
		"widths":  thumbnailWidths,
	})
}

// saveImage encodes in the source image's format. The target path carries
// no extension, so the format cannot be inferred from it.
func saveImage(path string, img image.Image, format string) error {
	f, err := imaging.FormatFromExtension("." + format)
	if err != nil {
		f = imaging.PNG
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	return imaging.Encode(out, img, f, imaging.JPEGQuality(90))
}
