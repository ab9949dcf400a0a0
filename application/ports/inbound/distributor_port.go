package inbound

import (
	"context"

	"github.com/shakedma/avatar-pipeline/domain"
)

type DistributeParams struct {
	RunID          string
	VideoPath      string
	VideoName      string
	Email          string
	Publish        bool
	PublishTitle   string
	PublishPrivacy string
	Duration       int
	Progress       domain.ProgressFunc
}

// DistributorPort pushes a finished video to the configured sinks and
// aggregates partial failures without surfacing them as errors.
type DistributorPort interface {
	Distribute(ctx context.Context, params DistributeParams) domain.DistributionResult
}
