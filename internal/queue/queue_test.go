package queue

import "testing"

func TestThumbnailQueueEnqueue(t *testing.T) {
	q := NewThumbnailQueue(2)

	if err := q.Enqueue("user-1", "file-1"); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	job := <-q.Jobs()
	if job.UserID != "user-1" || job.FileID != "file-1" {
		t.Fatalf("unexpected job: %+v", job)
	}
}

func TestThumbnailQueueNeverBlocks(t *testing.T) {
	q := NewThumbnailQueue(1)

	// Nothing drains the queue here; the second enqueue must drop the job
	// instead of blocking the caller.
	if err := q.Enqueue("user-1", "file-1"); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if err := q.Enqueue("user-1", "file-2"); err != nil {
		t.Fatalf("enqueue on a full buffer failed: %v", err)
	}

	if got := len(q.Jobs()); got != 1 {
		t.Fatalf("expected 1 buffered job, got %d", got)
	}
}
