package adapters

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/shakedma/avatar-pipeline/domain"
)

// FileDashboard is the local dashboard store used when cloud sinks are
// skipped, so a run's durable record of truth survives without any
// credentials. Records are appended as JSON lines; the latest line per
// run ID wins. Single writer per process; concurrent processes sharing
// one file are out of scope.
type FileDashboard struct {
	mu   sync.Mutex
	path string
}

func NewFileDashboard(dir string) *FileDashboard {
	return &FileDashboard{path: filepath.Join(dir, "dashboard.jsonl")}
}

func (d *FileDashboard) Upsert(_ context.Context, record domain.DashboardRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(d.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	line, err := json.Marshal(record)
	if err != nil {
		_ = file.Close()
		return err
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Records returns the latest record per run, in first-seen order.
func (d *FileDashboard) Records() ([]domain.DashboardRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	file, err := os.Open(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	latest := make(map[string]int)
	var records []domain.DashboardRecord

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record domain.DashboardRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			return nil, err
		}
		if i, ok := latest[record.RunID]; ok {
			records[i] = record
			continue
		}
		latest[record.RunID] = len(records)
		records = append(records, record)
	}
	return records, scanner.Err()
}
