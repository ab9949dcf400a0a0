package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shakedma/avatar-pipeline/application/ports/inbound"
	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
	"github.com/shakedma/avatar-pipeline/domain"
)

// PollingConfig bounds the status-query loop. Avatar rendering is billed
// per submission, so the watcher only ever re-queries; it never re-submits.
type PollingConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	BackoffFactor   float64
	RetryInterval   time.Duration
	Timeout         time.Duration
	MaxQueryRetries int
}

func DefaultPollingConfig() PollingConfig {
	return PollingConfig{
		InitialInterval: 5 * time.Second,
		MaxInterval:     30 * time.Second,
		BackoffFactor:   1.5,
		RetryInterval:   5 * time.Second,
		Timeout:         10 * time.Minute,
		MaxQueryRetries: 3,
	}
}

type jobWatcher struct {
	logger outbound.LoggerPort
	avatar outbound.AvatarVideoPort
	cfg    PollingConfig
}

func NewJobWatcher(logger outbound.LoggerPort, avatar outbound.AvatarVideoPort, cfg PollingConfig) inbound.JobWatcherPort {
	return &jobWatcher{
		logger: logger,
		avatar: avatar,
		cfg:    cfg,
	}
}

// Await drives Submitted → Processing → {Succeeded, Failed, TimedOut}.
// The interval between queries grows by BackoffFactor up to MaxInterval.
// The wall-clock ceiling is checked before every sleep so cancellation
// and timeout are never deferred past one interval.
func (w *jobWatcher) Await(ctx context.Context, jobID string) (domain.VideoJob, error) {
	job := domain.VideoJob{
		ID:          jobID,
		SubmittedAt: time.Now(),
		Status:      domain.JobSubmitted,
	}

	start := time.Now()
	deadline := start.Add(w.cfg.Timeout)
	interval := w.cfg.InitialInterval
	queryFailures := 0

	for {
		report, err := w.avatar.JobStatus(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return job, ctx.Err()
			}
			queryFailures++
			w.logger.Warn("video job status query failed", map[string]interface{}{
				"jobID":   jobID,
				"attempt": queryFailures,
				"error":   err.Error(),
			})
			if queryFailures >= w.cfg.MaxQueryRetries {
				job.Status = domain.JobFailed
				job.Error = fmt.Sprintf("status query failed %d times: %v", queryFailures, err)
				return job, &domain.VideoJobFailedError{JobID: jobID, Reason: job.Error}
			}
			if err := w.sleep(ctx, w.cfg.RetryInterval); err != nil {
				return job, err
			}
			continue
		}
		queryFailures = 0

		switch report.Status {
		case domain.JobSucceeded:
			job.Status = domain.JobSucceeded
			job.OutputURL = report.VideoURL
			w.logger.Info("video job succeeded", map[string]interface{}{
				"jobID":   jobID,
				"elapsed": time.Since(start).Round(time.Second).String(),
			})
			return job, nil
		case domain.JobFailed:
			job.Status = domain.JobFailed
			job.Error = report.ErrorMessage
			return job, &domain.VideoJobFailedError{JobID: jobID, Reason: report.ErrorMessage}
		case domain.JobProcessing:
			if job.Status == domain.JobSubmitted {
				job.Status = domain.JobProcessing
				w.logger.Info("video job picked up", map[string]interface{}{"jobID": jobID})
			}
		default:
			// Still queued on the remote side.
		}

		if time.Now().After(deadline) {
			job.Status = domain.JobTimedOut
			elapsed := time.Since(start)
			return job, &domain.VideoJobTimedOutError{JobID: jobID, Elapsed: elapsed}
		}
		if err := w.sleep(ctx, interval); err != nil {
			return job, err
		}
		interval = w.nextInterval(interval)
	}
}

func (w *jobWatcher) nextInterval(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * w.cfg.BackoffFactor)
	if next > w.cfg.MaxInterval {
		next = w.cfg.MaxInterval
	}
	return next
}

func (w *jobWatcher) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
