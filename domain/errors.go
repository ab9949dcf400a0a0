package domain

import (
	"fmt"
	"time"
)

// InputError covers unreadable, empty, oversized or unsupported scripts.
type InputError struct {
	Path   string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error for %s: %s", e.Path, e.Reason)
}

// ScriptTooLong builds the fail-fast error for scripts over the
// collaborator's input ceiling. No external call may precede it.
func ScriptTooLong(path string, length, ceiling int) *InputError {
	return &InputError{
		Path:   path,
		Reason: fmt.Sprintf("script is %d characters, ceiling is %d", length, ceiling),
	}
}

// AuthError means credentials for a collaborator are missing or invalid.
type AuthError struct {
	Collaborator string
	Err          error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error for %s: %v", e.Collaborator, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// SynthesisError is a speech synthesis failure for one variant.
type SynthesisError struct {
	Variant string
	Err     error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed for %s: %v", e.Variant, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// VideoSubmitError is a failure before the job existed remotely: audio
// asset upload or job submission.
type VideoSubmitError struct {
	Stage string
	Err   error
}

func (e *VideoSubmitError) Error() string {
	return fmt.Sprintf("video submit failed at %s: %v", e.Stage, e.Err)
}

func (e *VideoSubmitError) Unwrap() error { return e.Err }

// VideoJobFailedError is an explicit failure reported by the video
// collaborator. Failed jobs are never re-submitted automatically.
type VideoJobFailedError struct {
	JobID  string
	Reason string
}

func (e *VideoJobFailedError) Error() string {
	return fmt.Sprintf("video job %s failed: %s", e.JobID, e.Reason)
}

// VideoJobTimedOutError means the wall-clock ceiling elapsed with the job
// still non-terminal. The job may complete out-of-band; re-poll with the
// job ID instead of re-submitting.
type VideoJobTimedOutError struct {
	JobID   string
	Elapsed time.Duration
}

func (e *VideoJobTimedOutError) Error() string {
	return fmt.Sprintf("video job %s still not terminal after %s; re-poll later with --resume-job", e.JobID, e.Elapsed.Round(time.Second))
}

// StateRecoveryError means phase 2 was handed a path that does not encode
// a recoverable run identifier.
type StateRecoveryError struct {
	Path string
}

func (e *StateRecoveryError) Error() string {
	return fmt.Sprintf("cannot recover run identifier from %q: expected <run>_audio_<Option>.mp3", e.Path)
}

// Distribution sink names used in warnings.
const (
	SinkStorage   = "storage"
	SinkDashboard = "dashboard"
	SinkEmail     = "email"
	SinkPublish   = "publish"
)

// DistributionWarning is a non-fatal per-sink failure. Warnings are
// attached to the dashboard record and never escalate the run's phase.
type DistributionWarning struct {
	Sink string
	Err  error
}

func (w DistributionWarning) Error() string {
	return fmt.Sprintf("%s: %v", w.Sink, w.Err)
}

func (w DistributionWarning) Unwrap() error { return w.Err }
