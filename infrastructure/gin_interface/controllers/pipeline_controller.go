package controllers

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shakedma/avatar-pipeline/application/ports/inbound"
	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
	"github.com/shakedma/avatar-pipeline/domain"
	"github.com/shakedma/avatar-pipeline/infrastructure/gin_interface/dto"
)

type PipelineController interface {
	StartRun(c *gin.Context)
	ContinueRun(c *gin.Context)
	Health(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

// pipelineController exposes the two pipeline phases over SSE so a
// browser client can watch a run progress stage by stage.
type pipelineController struct {
	logger     outbound.LoggerPort
	workerPool outbound.TaskDispatcher
	pipeline   inbound.PhaseControllerPort
	uploadDir  string
}

func NewPipelineController(
	logger outbound.LoggerPort,
	workerPool outbound.TaskDispatcher,
	pipeline inbound.PhaseControllerPort,
	uploadDir string,
) PipelineController {
	return &pipelineController{
		logger:     logger,
		workerPool: workerPool,
		pipeline:   pipeline,
		uploadDir:  uploadDir,
	}
}

// StartRun accepts a multipart script upload and runs the audio phase,
// or the whole pipeline when mode=full is requested.
func (p *pipelineController) StartRun(c *gin.Context) {
	file, err := c.FormFile("script")
	if err != nil {
		c.SSEvent("error", gin.H{"error": "script file is required"})
		return
	}

	stagedPath := filepath.Join(p.uploadDir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, stagedPath); err != nil {
		p.logger.Error(err, "failed to stage uploaded script", map[string]interface{}{"filename": file.Filename})
		c.SSEvent("error", gin.H{"error": "failed to store the uploaded script"})
		return
	}

	opts := domain.PipelineOptions{
		Name:            c.PostForm("name"),
		BackgroundColor: c.PostForm("background"),
		Email:           c.PostForm("email"),
		SkipCloud:       c.PostForm("skip_cloud") == "true",
		Publish:         c.PostForm("youtube") == "true",
		PublishTitle:    c.PostForm("youtube_title"),
		PublishPrivacy:  c.PostForm("youtube_privacy"),
	}
	if opts.Name == "" {
		opts.Name = domain.RunIDFromScript(file.Filename)
	}

	if c.PostForm("mode") == "full" {
		p.streamPhase(c, opts, func(ctx context.Context, opts domain.PipelineOptions) (interface{}, error) {
			result, err := p.pipeline.RunFullPipeline(ctx, stagedPath, opts)
			if err != nil {
				return nil, err
			}
			return dto.NewVideoResultResponse(result), nil
		})
		return
	}

	p.streamPhase(c, opts, func(ctx context.Context, opts domain.PipelineOptions) (interface{}, error) {
		result, err := p.pipeline.RunAudioPhase(ctx, stagedPath, opts)
		if err != nil {
			return nil, err
		}
		return dto.NewAudioReadyResponse(result), nil
	})
}

// ContinueRun runs the video phase for an already reviewed candidate.
func (p *pipelineController) ContinueRun(c *gin.Context) {
	var request dto.ContinueRunRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.SSEvent("error", gin.H{"error": err.Error()})
		return
	}

	opts := domain.PipelineOptions{
		Name:            request.Name,
		BackgroundColor: request.Background,
		Email:           request.Email,
		SkipCloud:       request.SkipCloud,
		Publish:         request.Youtube,
		PublishTitle:    request.YoutubeTitle,
		PublishPrivacy:  request.YoutubePrivacy,
	}

	p.streamPhase(c, opts, func(ctx context.Context, opts domain.PipelineOptions) (interface{}, error) {
		result, err := p.pipeline.RunVideoPhase(ctx, request.AudioPath, opts)
		if err != nil {
			return nil, err
		}
		return dto.NewVideoResultResponse(result), nil
	})
}

func (p *pipelineController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (p *pipelineController) RegisterRoutes(g *gin.Engine) {
	g.POST("/runs", p.StartRun)
	g.POST("/runs/continue", p.ContinueRun)
	g.GET("/health", p.Health)
}

// streamPhase runs one phase on the worker pool and relays its progress
// events to the client as they happen, ending with a result or error event.
func (p *pipelineController) streamPhase(
	c *gin.Context,
	opts domain.PipelineOptions,
	phase func(context.Context, domain.PipelineOptions) (interface{}, error),
) {
	events := make(chan domain.ProgressEvent, 16)
	results := make(chan interface{}, 1)
	failures := make(chan error, 1)

	opts.Progress = func(event domain.ProgressEvent) {
		select {
		case events <- event:
		default:
		}
	}

	ctx := c.Request.Context()
	err := p.workerPool.Submit(func() {
		defer close(events)
		result, err := phase(ctx, opts)
		if err != nil {
			failures <- err
			return
		}
		results <- result
	})
	if err != nil {
		p.logger.Error(err, "failed to schedule pipeline phase", nil)
		c.SSEvent("error", gin.H{"error": "server is at capacity, try again later"})
		return
	}

	for event := range events {
		c.SSEvent("progress", event)
		c.Writer.Flush()
	}

	select {
	case result := <-results:
		c.SSEvent("result", result)
	case err := <-failures:
		p.logger.Error(err, "pipeline phase failed", nil)
		c.SSEvent("error", gin.H{"error": err.Error(), "kind": errorKind(err)})
	}
	c.Writer.Flush()
}

func errorKind(err error) string {
	var (
		inputErr    *domain.InputError
		authErr     *domain.AuthError
		synthErr    *domain.SynthesisError
		submitErr   *domain.VideoSubmitError
		failedErr   *domain.VideoJobFailedError
		timedOutErr *domain.VideoJobTimedOutError
		stateErr    *domain.StateRecoveryError
	)
	switch {
	case errors.As(err, &inputErr):
		return "input"
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &synthErr):
		return "synthesis"
	case errors.As(err, &submitErr):
		return "video_submit"
	case errors.As(err, &timedOutErr):
		return "video_timed_out"
	case errors.As(err, &failedErr):
		return "video_failed"
	case errors.As(err, &stateErr):
		return "state_recovery"
	default:
		return "internal"
	}
}
