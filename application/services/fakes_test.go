package services

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
	"github.com/shakedma/avatar-pipeline/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(error, string, map[string]interface{}) {}

type fakeScriptReader struct {
	text string
	err  error
}

func (f *fakeScriptReader) Read(string) (string, error) {
	return f.text, f.err
}

type fakeSynthesizer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, params outbound.SynthesizeParams) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	// Distinct settings must yield distinct audio.
	return []byte(fmt.Sprintf("audio stability=%.1f similarity=%.1f: %s",
		params.Settings.Stability, params.Settings.SimilarityBoost, params.Text)), nil
}

// fakeAvatar serves a scripted sequence of status reports, one per query.
type fakeAvatar struct {
	mu          sync.Mutex
	reports     []outbound.JobStatusReport
	statusErrs  []error
	queries     int
	uploadErr   error
	submitErr   error
	downloadErr error
}

func (f *fakeAvatar) UploadAudio(context.Context, string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "asset-1", nil
}

func (f *fakeAvatar) SubmitJob(context.Context, outbound.SubmitJobParams) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "job-1", nil
}

func (f *fakeAvatar) JobStatus(context.Context, string) (outbound.JobStatusReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.queries
	f.queries++
	if i < len(f.statusErrs) && f.statusErrs[i] != nil {
		return outbound.JobStatusReport{}, f.statusErrs[i]
	}
	if len(f.reports) == 0 {
		return outbound.JobStatusReport{Status: domain.JobProcessing}, nil
	}
	if i >= len(f.reports) {
		return f.reports[len(f.reports)-1], nil
	}
	return f.reports[i], nil
}

func (f *fakeAvatar) DownloadVideo(_ context.Context, _ string, destPath string) error {
	if f.downloadErr != nil {
		return f.downloadErr
	}
	return os.WriteFile(destPath, []byte("rendered video"), 0o644)
}

func (f *fakeAvatar) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

type fakeStore struct {
	mu    sync.Mutex
	calls int
	link  string
	err   error
}

func (f *fakeStore) Upload(context.Context, string, string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.link, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []outbound.NotificationParams
	err   error
}

func (f *fakeNotifier) SendVideoNotification(_ context.Context, params outbound.NotificationParams) error {
	f.mu.Lock()
	f.calls = append(f.calls, params)
	f.mu.Unlock()
	return f.err
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakePublisher struct {
	mu    sync.Mutex
	calls int
	url   string
	err   error
}

func (f *fakePublisher) Publish(context.Context, outbound.PublishParams) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeDashboard struct {
	mu      sync.Mutex
	records []domain.DashboardRecord
	err     error
}

func (f *fakeDashboard) Upsert(_ context.Context, record domain.DashboardRecord) error {
	f.mu.Lock()
	f.records = append(f.records, record)
	f.mu.Unlock()
	return f.err
}

func (f *fakeDashboard) last() (domain.DashboardRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.records) == 0 {
		return domain.DashboardRecord{}, false
	}
	return f.records[len(f.records)-1], true
}
