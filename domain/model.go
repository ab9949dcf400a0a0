package domain

import "time"

// RunPhase is the lifecycle position of a Run. Completed, Failed and
// TimedOut are terminal; TimedOut means the remote job may still finish
// out-of-band and can be re-polled by its job ID.
type RunPhase string

const (
	PhaseAudioPending RunPhase = "AudioPending"
	PhaseAudioReady   RunPhase = "AudioReady"
	PhaseVideoPending RunPhase = "VideoPending"
	PhaseCompleted    RunPhase = "Completed"
	PhaseFailed       RunPhase = "Failed"
	PhaseTimedOut     RunPhase = "TimedOut"
)

// Run is one end-to-end attempt to turn one script into one video.
type Run struct {
	ID              string
	ScriptPath      string
	ScriptText      string
	CharCount       int
	CreatedAt       time.Time
	Phase           RunPhase
	BackgroundColor string
	Email           string
}

// VoiceSettings are the delivery parameters for one synthesis variant.
type VoiceSettings struct {
	Stability       float64
	SimilarityBoost float64
}

// CandidateAudio is one synthesized rendering of the run's script,
// offered for human selection between the two phases.
type CandidateAudio struct {
	Label    string
	Path     string
	Settings VoiceSettings
}

// VoicePreset pairs a candidate label with its delivery settings.
type VoicePreset struct {
	Label       string
	Description string
	Settings    VoiceSettings
}

// DefaultPresets are the renderings produced by the audio phase:
// OptionA favors consistency, OptionB favors expressiveness.
func DefaultPresets() []VoicePreset {
	return []VoicePreset{
		{Label: "OptionA", Description: "stable/consistent", Settings: VoiceSettings{Stability: 0.7, SimilarityBoost: 0.8}},
		{Label: "OptionB", Description: "expressive/dynamic", Settings: VoiceSettings{Stability: 0.3, SimilarityBoost: 0.9}},
	}
}

// JobStatus is the state of the asynchronous avatar video job.
type JobStatus string

const (
	JobSubmitted  JobStatus = "Submitted"
	JobProcessing JobStatus = "Processing"
	JobSucceeded  JobStatus = "Succeeded"
	JobFailed     JobStatus = "Failed"
	JobTimedOut   JobStatus = "TimedOut"
)

// Terminal reports whether the job can make no further progress in-process.
func (s JobStatus) Terminal() bool {
	return s == JobSucceeded || s == JobFailed || s == JobTimedOut
}

// VideoJob tracks one submission to the avatar video collaborator.
// A run never holds more than one active job.
type VideoJob struct {
	ID          string
	SubmittedAt time.Time
	Status      JobStatus
	OutputURL   string
	OutputPath  string
	Error       string
}

// RecordStatus is the status column of a dashboard row.
type RecordStatus string

const (
	RecordAudioReady RecordStatus = "AudioReady"
	RecordProcessing RecordStatus = "Processing"
	RecordCompleted  RecordStatus = "Completed"
	RecordError      RecordStatus = "Error"
	RecordTimedOut   RecordStatus = "Timed Out"
)

// DashboardRecord is the durable per-run status row. The orchestrator is
// its only writer; humans read it. Rows are never deleted.
type DashboardRecord struct {
	Timestamp    time.Time
	RunID        string
	ScriptName   string
	ScriptLength int
	AudioFile    string
	VideoFile    string
	StorageLink  string
	Status       RecordStatus
	Duration     time.Duration
	ErrorMessage string
}

// DistributionResult aggregates the outcome of the post-video fan-out.
// Warnings never change the run's terminal phase.
type DistributionResult struct {
	StorageLink string
	PublishURL  string
	Warnings    []DistributionWarning
}

// Failed reports whether the storage upload itself failed, which skips
// the link-dependent sinks and marks the dashboard row as Error.
func (r DistributionResult) Failed() bool {
	for _, w := range r.Warnings {
		if w.Sink == SinkStorage {
			return true
		}
	}
	return false
}

// ProgressEvent is a coarse per-stage notification surfaced to the CLI
// step output and the server's SSE stream.
type ProgressEvent struct {
	RunID   string `json:"run_id"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// ProgressFunc receives progress events. It may be nil.
type ProgressFunc func(ProgressEvent)

// Notify is a nil-safe send.
func (f ProgressFunc) Notify(runID, stage, message string) {
	if f != nil {
		f(ProgressEvent{RunID: runID, Stage: stage, Message: message})
	}
}

// PipelineOptions carries the per-invocation knobs recognized by the
// phase controller. Zero values defer to environment-derived defaults.
type PipelineOptions struct {
	Name            string
	BackgroundColor string
	Email           string
	SkipCloud       bool
	Publish         bool
	PublishTitle    string
	PublishPrivacy  string
	Progress        ProgressFunc
}

// AudioPhaseResult is what the audio phase hands back for human review.
type AudioPhaseResult struct {
	Run        Run
	Candidates []CandidateAudio
	Duration   time.Duration
}

// VideoPhaseResult is the outcome of the video phase.
type VideoPhaseResult struct {
	Run          Run
	Job          VideoJob
	VideoPath    string
	Distribution DistributionResult
	Duration     time.Duration
}
