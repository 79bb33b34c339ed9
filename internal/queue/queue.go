package queue

import (
	"github.com/KNehe/alx-files-manager/pkg/logger"
)

// Job references a stored image awaiting thumbnail generation.
type Job struct {
	UserID string
	FileID string
}

// Notifier is the fire-and-forget post-processing signal consumed by the
// file service. Emission failures must never fail an upload.
type Notifier interface {
	Enqueue(userID, fileID string) error
}

// ThumbnailQueue buffers jobs on a channel drained by the worker. Enqueue
// never blocks the request path: a full buffer drops the job with a warning.
type ThumbnailQueue struct {
	jobs chan Job
}

func NewThumbnailQueue(bufferSize int) *ThumbnailQueue {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &ThumbnailQueue{jobs: make(chan Job, bufferSize)}
}

func (q *ThumbnailQueue) Enqueue(userID, fileID string) error {
	select {
	case q.jobs <- Job{UserID: userID, FileID: fileID}:
		logger.Info("thumbnail_job_enqueued", map[string]interface{}{
			"user_id": userID,
			"file_id": fileID,
		})
	default:
		logger.Warn("thumbnail_queue_full", map[string]interface{}{
			"user_id": userID,
			"file_id": fileID,
		})
	}
	return nil
}

// Jobs exposes the drain side of the queue to the worker.
func (q *ThumbnailQueue) Jobs() <-chan Job {
	return q.jobs
}

func (q *ThumbnailQueue) Close() {
	close(q.jobs)
}
