package inbound

import (
	"context"

	"github.com/shakedma/avatar-pipeline/domain"
)

// JobWatcherPort drives one submitted video job to a terminal state.
// The returned job carries the output URL on success; failure and
// timeout are reported as *domain.VideoJobFailedError and
// *domain.VideoJobTimedOutError alongside the job snapshot.
type JobWatcherPort interface {
	Await(ctx context.Context, jobID string) (domain.VideoJob, error)
}
