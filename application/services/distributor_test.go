package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/panjf2000/ants/v2"

	"github.com/shakedma/avatar-pipeline/application/ports/inbound"
	"github.com/shakedma/avatar-pipeline/domain"
)

func newTestPool(t *testing.T) *ants.Pool {
	t.Helper()
	pool, err := ants.NewPool(10)
	if err != nil {
		t.Fatal("Failed to create worker pool:", err)
	}
	t.Cleanup(pool.Release)
	return pool
}

func writeTestVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo_video.mp4")
	if err := os.WriteFile(path, []byte("rendered video"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDistributeStorageFailureSkipsDependentSinks(t *testing.T) {
	store := &fakeStore{err: errors.New("bucket unavailable")}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{url: "https://youtu.be/xyz"}
	videoPath := writeTestVideo(t)

	d := NewDistributor(nopLogger{}, newTestPool(t), store, notifier, publisher)
	result := d.Distribute(context.Background(), inbound.DistributeParams{
		RunID:     "demo",
		VideoPath: videoPath,
		VideoName: "demo_video",
		Email:     "me@example.com",
		Publish:   true,
	})

	if !result.Failed() {
		t.Error("result.Failed() = false after storage failure")
	}
	if result.StorageLink != "" {
		t.Errorf("storage link = %q, want empty", result.StorageLink)
	}
	if notifier.callCount() != 0 {
		t.Error("email was sent despite missing storage link")
	}
	if publisher.calls != 0 {
		t.Error("publish was attempted despite storage failure")
	}
	if _, err := os.Stat(videoPath); err != nil {
		t.Error("local video file was not preserved:", err)
	}
}

func TestDistributeEmailFailureDoesNotBlockPublish(t *testing.T) {
	store := &fakeStore{link: "https://storage.example/demo_video.mp4"}
	notifier := &fakeNotifier{err: errors.New("smtp relay refused")}
	publisher := &fakePublisher{url: "https://youtu.be/xyz"}

	d := NewDistributor(nopLogger{}, newTestPool(t), store, notifier, publisher)
	result := d.Distribute(context.Background(), inbound.DistributeParams{
		RunID:     "demo",
		VideoPath: writeTestVideo(t),
		VideoName: "demo_video",
		Email:     "me@example.com",
		Publish:   true,
	})

	if result.Failed() {
		t.Error("email failure escalated to a distribution failure")
	}
	if result.PublishURL != "https://youtu.be/xyz" {
		t.Errorf("publish URL = %q", result.PublishURL)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Sink != domain.SinkEmail {
		t.Errorf("warnings = %v, want a single email warning", result.Warnings)
	}
}

func TestDistributePublishFailureIsPartialSuccess(t *testing.T) {
	store := &fakeStore{link: "https://storage.example/demo_video.mp4"}
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{err: errors.New("quota exceeded")}

	d := NewDistributor(nopLogger{}, newTestPool(t), store, notifier, publisher)
	result := d.Distribute(context.Background(), inbound.DistributeParams{
		RunID:     "demo",
		VideoPath: writeTestVideo(t),
		VideoName: "demo_video",
		Email:     "me@example.com",
		Publish:   true,
	})

	if result.Failed() {
		t.Error("publish failure escalated to a distribution failure")
	}
	if result.StorageLink == "" {
		t.Error("storage link missing")
	}
	if notifier.callCount() != 1 {
		t.Errorf("email calls = %d, want 1", notifier.callCount())
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Sink != domain.SinkPublish {
		t.Errorf("warnings = %v, want a single publish warning", result.Warnings)
	}
}

func TestDistributeWithoutOptionalSinks(t *testing.T) {
	store := &fakeStore{link: "https://storage.example/demo_video.mp4"}

	d := NewDistributor(nopLogger{}, newTestPool(t), store, &fakeNotifier{}, &fakePublisher{})
	result := d.Distribute(context.Background(), inbound.DistributeParams{
		RunID:     "demo",
		VideoPath: writeTestVideo(t),
		VideoName: "demo_video",
	})

	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", result.Warnings)
	}
	if result.StorageLink == "" {
		t.Error("storage link missing")
	}
}
