package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shakedma/avatar-pipeline/application/ports/inbound"
	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
	"github.com/shakedma/avatar-pipeline/domain"
)

// PhaseControllerConfig is the environment-derived part of the pipeline;
// per-invocation knobs arrive in domain.PipelineOptions.
type PhaseControllerConfig struct {
	OutputDir         string
	MaxScriptChars    int
	DefaultEmail      string
	DefaultBackground string
}

type phaseController struct {
	cfg         PhaseControllerConfig
	logger      outbound.LoggerPort
	scripts     outbound.ScriptReaderPort
	synthesizer outbound.SpeechSynthesizerPort
	avatar      outbound.AvatarVideoPort
	watcher     inbound.JobWatcherPort
	distributor inbound.DistributorPort
	dashboard   outbound.DashboardPort
	presets     []domain.VoicePreset
}

func NewPhaseController(cfg PhaseControllerConfig, logger outbound.LoggerPort, scripts outbound.ScriptReaderPort,
	synthesizer outbound.SpeechSynthesizerPort, avatar outbound.AvatarVideoPort, watcher inbound.JobWatcherPort,
	distributor inbound.DistributorPort, dashboard outbound.DashboardPort) inbound.PhaseControllerPort {
	return &phaseController{
		cfg:         cfg,
		logger:      logger,
		scripts:     scripts,
		synthesizer: synthesizer,
		avatar:      avatar,
		watcher:     watcher,
		distributor: distributor,
		dashboard:   dashboard,
		presets:     domain.DefaultPresets(),
	}
}

// RunAudioPhase loads and validates the script, synthesizes one candidate
// per preset into the output directory, records AudioReady, and returns
// without waiting for a human decision.
func (c *phaseController) RunAudioPhase(ctx context.Context, scriptPath string, opts domain.PipelineOptions) (domain.AudioPhaseResult, error) {
	start := time.Now()

	text, err := c.scripts.Read(scriptPath)
	if err != nil {
		return domain.AudioPhaseResult{}, err
	}
	if strings.TrimSpace(text) == "" {
		return domain.AudioPhaseResult{}, &domain.InputError{Path: scriptPath, Reason: "script file is empty"}
	}

	charCount := utf8.RuneCountInString(text)
	if charCount >= c.cfg.MaxScriptChars {
		return domain.AudioPhaseResult{}, domain.ScriptTooLong(scriptPath, charCount, c.cfg.MaxScriptChars)
	}

	run := c.newRun(scriptPath, text, charCount, opts)
	opts.Progress.Notify(run.ID, "script", fmt.Sprintf("loaded %d characters", charCount))

	if err := os.MkdirAll(c.cfg.OutputDir, 0o755); err != nil {
		return domain.AudioPhaseResult{}, &domain.InputError{Path: c.cfg.OutputDir, Reason: err.Error()}
	}

	candidates := make([]domain.CandidateAudio, 0, len(c.presets))
	for _, preset := range c.presets {
		opts.Progress.Notify(run.ID, "synthesis", fmt.Sprintf("generating %s (%s)", preset.Label, preset.Description))

		audio, err := c.synthesizer.Synthesize(ctx, outbound.SynthesizeParams{Text: text, Settings: preset.Settings})
		if err != nil {
			synthErr := &domain.SynthesisError{Variant: preset.Label, Err: err}
			c.markFailed(ctx, &run, domain.RecordError, synthErr, time.Since(start))
			return domain.AudioPhaseResult{Run: run}, synthErr
		}

		path := domain.AudioCandidatePath(c.cfg.OutputDir, run.ID, preset.Label)
		if err := os.WriteFile(path, audio, 0o644); err != nil {
			synthErr := &domain.SynthesisError{Variant: preset.Label, Err: err}
			c.markFailed(ctx, &run, domain.RecordError, synthErr, time.Since(start))
			return domain.AudioPhaseResult{Run: run}, synthErr
		}
		candidates = append(candidates, domain.CandidateAudio{Label: preset.Label, Path: path, Settings: preset.Settings})
	}

	run.Phase = domain.PhaseAudioReady
	duration := time.Since(start)
	c.record(ctx, domain.DashboardRecord{
		Timestamp:    time.Now(),
		RunID:        run.ID,
		ScriptName:   run.ID,
		ScriptLength: charCount,
		AudioFile:    candidateNames(candidates),
		Status:       domain.RecordAudioReady,
		Duration:     duration,
	})

	opts.Progress.Notify(run.ID, "audio-ready", "candidates ready for review")
	return domain.AudioPhaseResult{Run: run, Candidates: candidates, Duration: duration}, nil
}

// RunVideoPhase recovers the run from the chosen audio path, drives the
// remote render job to a terminal state, and fans out distribution on
// success. Distribution warnings never fail the run.
func (c *phaseController) RunVideoPhase(ctx context.Context, chosenAudioPath string, opts domain.PipelineOptions) (domain.VideoPhaseResult, error) {
	start := time.Now()

	runID, label, err := domain.ParseAudioPath(chosenAudioPath)
	if err != nil {
		return domain.VideoPhaseResult{}, err
	}
	if opts.Name != "" {
		runID = opts.Name
	}
	if _, err := os.Stat(chosenAudioPath); err != nil {
		return domain.VideoPhaseResult{}, &domain.InputError{Path: chosenAudioPath, Reason: "audio file not found"}
	}

	run := c.newRun(chosenAudioPath, "", 0, opts)
	run.ID = runID
	run.Phase = domain.PhaseVideoPending
	opts.Progress.Notify(runID, "video", "continuing with "+label)

	c.record(ctx, domain.DashboardRecord{
		Timestamp:  time.Now(),
		RunID:      runID,
		ScriptName: runID,
		AudioFile:  filepath.Base(chosenAudioPath),
		Status:     domain.RecordProcessing,
	})

	opts.Progress.Notify(runID, "video", "uploading audio asset")
	assetID, err := c.avatar.UploadAudio(ctx, chosenAudioPath)
	if err != nil {
		submitErr := &domain.VideoSubmitError{Stage: "audio upload", Err: err}
		c.markFailed(ctx, &run, domain.RecordError, submitErr, time.Since(start))
		return domain.VideoPhaseResult{Run: run}, submitErr
	}

	opts.Progress.Notify(runID, "video", "submitting render job")
	jobID, err := c.avatar.SubmitJob(ctx, outbound.SubmitJobParams{
		AudioAssetID:    assetID,
		BackgroundColor: run.BackgroundColor,
	})
	if err != nil {
		submitErr := &domain.VideoSubmitError{Stage: "job submission", Err: err}
		c.markFailed(ctx, &run, domain.RecordError, submitErr, time.Since(start))
		return domain.VideoPhaseResult{Run: run}, submitErr
	}

	return c.awaitAndDistribute(ctx, run, jobID, filepath.Base(chosenAudioPath), opts, start)
}

// RunFullPipeline chains both phases on the first candidate without a
// review checkpoint. Dashboard semantics are identical to running the
// phases manually.
func (c *phaseController) RunFullPipeline(ctx context.Context, scriptPath string, opts domain.PipelineOptions) (domain.VideoPhaseResult, error) {
	audioResult, err := c.RunAudioPhase(ctx, scriptPath, opts)
	if err != nil {
		return domain.VideoPhaseResult{Run: audioResult.Run}, err
	}

	first := audioResult.Candidates[0]
	opts.Progress.Notify(audioResult.Run.ID, "video", "continuing automatically with "+first.Label)
	return c.RunVideoPhase(ctx, first.Path, opts)
}

// ResumeJob re-enters the polling loop for an existing job identifier.
// Nothing is re-submitted, so a timed-out render that finished
// out-of-band is recovered without being billed again.
func (c *phaseController) ResumeJob(ctx context.Context, jobID, runID string, opts domain.PipelineOptions) (domain.VideoPhaseResult, error) {
	start := time.Now()

	run := c.newRun("", "", 0, opts)
	run.ID = runID
	run.Phase = domain.PhaseVideoPending

	c.record(ctx, domain.DashboardRecord{
		Timestamp:  time.Now(),
		RunID:      runID,
		ScriptName: runID,
		Status:     domain.RecordProcessing,
	})

	return c.awaitAndDistribute(ctx, run, jobID, "", opts, start)
}

func (c *phaseController) awaitAndDistribute(ctx context.Context, run domain.Run, jobID, audioFile string,
	opts domain.PipelineOptions, start time.Time) (domain.VideoPhaseResult, error) {
	opts.Progress.Notify(run.ID, "video", "waiting for render job "+jobID)

	job, err := c.watcher.Await(ctx, jobID)
	if err != nil {
		var timedOut *domain.VideoJobTimedOutError
		if errors.As(err, &timedOut) {
			run.Phase = domain.PhaseTimedOut
			c.record(ctx, domain.DashboardRecord{
				Timestamp:    time.Now(),
				RunID:        run.ID,
				ScriptName:   run.ID,
				AudioFile:    audioFile,
				Status:       domain.RecordTimedOut,
				Duration:     time.Since(start),
				ErrorMessage: err.Error(),
			})
			return domain.VideoPhaseResult{Run: run, Job: job, Duration: time.Since(start)}, err
		}
		c.markFailed(ctx, &run, domain.RecordError, err, time.Since(start))
		return domain.VideoPhaseResult{Run: run, Job: job}, err
	}

	videoPath := domain.VideoPath(c.cfg.OutputDir, run.ID)
	opts.Progress.Notify(run.ID, "video", "downloading rendered video")
	if err := c.avatar.DownloadVideo(ctx, job.OutputURL, videoPath); err != nil {
		failErr := &domain.VideoJobFailedError{JobID: jobID, Reason: "download failed: " + err.Error()}
		c.markFailed(ctx, &run, domain.RecordError, failErr, time.Since(start))
		return domain.VideoPhaseResult{Run: run, Job: job}, failErr
	}
	job.OutputPath = videoPath

	var dist domain.DistributionResult
	if !opts.SkipCloud && c.distributor != nil {
		dist = c.distributor.Distribute(ctx, inbound.DistributeParams{
			RunID:          run.ID,
			VideoPath:      videoPath,
			VideoName:      strings.TrimSuffix(filepath.Base(videoPath), domain.VideoExt),
			Email:          run.Email,
			Publish:        opts.Publish,
			PublishTitle:   opts.PublishTitle,
			PublishPrivacy: opts.PublishPrivacy,
			Duration:       int(time.Since(start).Seconds()),
			Progress:       opts.Progress,
		})
	}

	// The video exists locally, so the run completed even when sinks
	// misbehaved; storage failure only downgrades the dashboard row.
	run.Phase = domain.PhaseCompleted
	duration := time.Since(start)

	status := domain.RecordCompleted
	var messages []string
	if dist.Failed() {
		status = domain.RecordError
	}
	for _, w := range dist.Warnings {
		messages = append(messages, w.Error())
	}

	c.record(ctx, domain.DashboardRecord{
		Timestamp:    time.Now(),
		RunID:        run.ID,
		ScriptName:   run.ID,
		AudioFile:    audioFile,
		VideoFile:    filepath.Base(videoPath),
		StorageLink:  dist.StorageLink,
		Status:       status,
		Duration:     duration,
		ErrorMessage: strings.Join(messages, "; "),
	})

	opts.Progress.Notify(run.ID, "done", "video at "+videoPath)
	return domain.VideoPhaseResult{
		Run:          run,
		Job:          job,
		VideoPath:    videoPath,
		Distribution: dist,
		Duration:     duration,
	}, nil
}

func (c *phaseController) newRun(scriptPath, text string, charCount int, opts domain.PipelineOptions) domain.Run {
	email := opts.Email
	if email == "" {
		email = c.cfg.DefaultEmail
	}
	background := opts.BackgroundColor
	if background == "" {
		background = c.cfg.DefaultBackground
	}
	runID := opts.Name
	if runID == "" {
		runID = domain.RunIDFromScript(scriptPath)
	}
	return domain.Run{
		ID:              runID,
		ScriptPath:      scriptPath,
		ScriptText:      text,
		CharCount:       charCount,
		CreatedAt:       time.Now(),
		Phase:           domain.PhaseAudioPending,
		BackgroundColor: background,
		Email:           email,
	}
}

func (c *phaseController) markFailed(ctx context.Context, run *domain.Run, status domain.RecordStatus, cause error, duration time.Duration) {
	run.Phase = domain.PhaseFailed
	c.record(ctx, domain.DashboardRecord{
		Timestamp:    time.Now(),
		RunID:        run.ID,
		ScriptName:   run.ID,
		ScriptLength: run.CharCount,
		Status:       status,
		Duration:     duration,
		ErrorMessage: cause.Error(),
	})
}

// record writes the dashboard row; a dashboard outage must not take the
// run down with it.
func (c *phaseController) record(ctx context.Context, rec domain.DashboardRecord) {
	if err := c.dashboard.Upsert(ctx, rec); err != nil {
		c.logger.Warn("dashboard update failed", map[string]interface{}{
			"runID":  rec.RunID,
			"status": string(rec.Status),
			"error":  err.Error(),
		})
	}
}

func candidateNames(candidates []domain.CandidateAudio) string {
	names := make([]string, len(candidates))
	for i, cand := range candidates {
		names[i] = filepath.Base(cand.Path)
	}
	return strings.Join(names, ", ")
}
