package outbound

import (
	"context"

	"github.com/shakedma/avatar-pipeline/domain"
)

type SubmitJobParams struct {
	AudioAssetID    string
	BackgroundColor string
}

// JobStatusReport is one answer from the collaborator's status endpoint,
// already mapped into the domain status vocabulary.
type JobStatusReport struct {
	Status       domain.JobStatus
	VideoURL     string
	ErrorMessage string
}

// AvatarVideoPort wraps the asynchronous avatar video collaborator:
// upload the audio asset, submit the render job, poll its status, and
// fetch the finished output.
type AvatarVideoPort interface {
	UploadAudio(ctx context.Context, audioPath string) (assetID string, err error)
	SubmitJob(ctx context.Context, params SubmitJobParams) (jobID string, err error)
	JobStatus(ctx context.Context, jobID string) (JobStatusReport, error)
	DownloadVideo(ctx context.Context, videoURL, destPath string) error
}
