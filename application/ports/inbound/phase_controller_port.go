package inbound

import (
	"context"

	"github.com/shakedma/avatar-pipeline/domain"
)

// PhaseControllerPort is the pipeline's entry point. RunAudioPhase and
// RunVideoPhase are the two halves of the human-interruptible workflow;
// RunFullPipeline chains them on the first candidate without a review
// checkpoint; ResumeJob re-polls a previously timed-out job by its ID
// without re-submitting.
type PhaseControllerPort interface {
	RunAudioPhase(ctx context.Context, scriptPath string, opts domain.PipelineOptions) (domain.AudioPhaseResult, error)
	RunVideoPhase(ctx context.Context, chosenAudioPath string, opts domain.PipelineOptions) (domain.VideoPhaseResult, error)
	RunFullPipeline(ctx context.Context, scriptPath string, opts domain.PipelineOptions) (domain.VideoPhaseResult, error)
	ResumeJob(ctx context.Context, jobID, runID string, opts domain.PipelineOptions) (domain.VideoPhaseResult, error)
}
