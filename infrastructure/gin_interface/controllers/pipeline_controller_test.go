package controllers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shakedma/avatar-pipeline/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(error, string, map[string]interface{}) {}

type inlineDispatcher struct{}

func (inlineDispatcher) Submit(task func()) error {
	task()
	return nil
}

// capturingPipeline records the options each phase was invoked with.
type capturingPipeline struct {
	scriptPath string
	audioOpts  domain.PipelineOptions
	audioCalls int
}

func (p *capturingPipeline) RunAudioPhase(_ context.Context, scriptPath string, opts domain.PipelineOptions) (domain.AudioPhaseResult, error) {
	p.scriptPath = scriptPath
	p.audioOpts = opts
	p.audioCalls++
	return domain.AudioPhaseResult{Run: domain.Run{ID: opts.Name, Phase: domain.PhaseAudioReady}}, nil
}

func (p *capturingPipeline) RunVideoPhase(context.Context, string, domain.PipelineOptions) (domain.VideoPhaseResult, error) {
	return domain.VideoPhaseResult{}, nil
}

func (p *capturingPipeline) RunFullPipeline(context.Context, string, domain.PipelineOptions) (domain.VideoPhaseResult, error) {
	return domain.VideoPhaseResult{}, nil
}

func (p *capturingPipeline) ResumeJob(context.Context, string, string, domain.PipelineOptions) (domain.VideoPhaseResult, error) {
	return domain.VideoPhaseResult{}, nil
}

func startRunRequest(t *testing.T, filename string, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("script", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("Hello world, this is a test.")); err != nil {
		t.Fatal(err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/runs", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newControllerRouter(t *testing.T) (*gin.Engine, *capturingPipeline) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pipeline := &capturingPipeline{}
	controller := NewPipelineController(nopLogger{}, inlineDispatcher{}, pipeline, t.TempDir())
	router := gin.New()
	controller.RegisterRoutes(router)
	return router, pipeline
}

func TestStartRunNameDropsUploadExtension(t *testing.T) {
	router, pipeline := newControllerRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, startRunRequest(t, "launch notes.txt", nil))

	if pipeline.audioCalls != 1 {
		t.Fatalf("audio phase calls = %d, want 1", pipeline.audioCalls)
	}
	if pipeline.audioOpts.Name != "launch notes" {
		t.Errorf("run name = %q, want %q", pipeline.audioOpts.Name, "launch notes")
	}
	if !strings.HasSuffix(pipeline.scriptPath, ".txt") {
		t.Errorf("staged script = %q, want the upload's extension kept", pipeline.scriptPath)
	}
	if !strings.Contains(recorder.Body.String(), "event:result") {
		t.Errorf("response body = %q, want a result event", recorder.Body.String())
	}
}

func TestStartRunExplicitNameWins(t *testing.T) {
	router, pipeline := newControllerRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, startRunRequest(t, "launch notes.txt", map[string]string{"name": "q3-launch"}))

	if pipeline.audioOpts.Name != "q3-launch" {
		t.Errorf("run name = %q, want %q", pipeline.audioOpts.Name, "q3-launch")
	}
}
