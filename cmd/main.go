package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"

	"github.com/shakedma/avatar-pipeline/application/ports/inbound"
	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
	"github.com/shakedma/avatar-pipeline/application/services"
	"github.com/shakedma/avatar-pipeline/config"
	"github.com/shakedma/avatar-pipeline/domain"
	"github.com/shakedma/avatar-pipeline/infrastructure/adapters"
	"github.com/shakedma/avatar-pipeline/infrastructure/gin_interface/controllers"
	"github.com/shakedma/avatar-pipeline/middleware"
)

const (
	exitOK       = 0
	exitFailed   = 1
	exitTimedOut = 3
)

func main() {
	audioOnly := flag.Bool("audio-only", false, "stop after synthesizing the audio candidates for review")
	continueAudio := flag.String("continue", "", "chosen candidate audio file, runs the video phase")
	resumeJob := flag.String("resume-job", "", "re-poll a previously timed-out video job by its ID")
	name := flag.String("name", "", "display name for the run, defaults to the script file name")
	background := flag.String("background", "", "video background color, for example #008000")
	email := flag.String("email", "", "address to notify when the video is ready")
	youtube := flag.Bool("youtube", false, "publish the finished video")
	youtubeTitle := flag.String("youtube-title", "", "title for the published video")
	youtubePrivacy := flag.String("youtube-privacy", "", "privacy for the published video: public, unlisted or private")
	skipCloud := flag.Bool("skip-cloud", false, "keep everything on the local filesystem, no cloud sinks")
	serve := flag.Bool("serve", false, "run the HTTP server instead of a one-shot pipeline")
	flag.Parse()

	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get pipeline config")
	}

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool", nil)
	}

	workerPool, err := ants.NewPool(32, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	pipeline := buildPipeline(pipelineConfig, zeroLogger, workerPool, *skipCloud)

	if *serve {
		runServer(pipelineConfig, zeroLogger, workerPool, pipeline)
		return
	}

	opts := domain.PipelineOptions{
		Name:            *name,
		BackgroundColor: *background,
		Email:           *email,
		SkipCloud:       *skipCloud,
		Publish:         *youtube,
		PublishTitle:    *youtubeTitle,
		PublishPrivacy:  *youtubePrivacy,
		Progress: func(event domain.ProgressEvent) {
			fmt.Printf("[%s] %s\n", event.Stage, event.Message)
		},
	}

	ctx := context.Background()

	switch {
	case *resumeJob != "":
		runID := *name
		if runID == "" {
			runID = *resumeJob
		}
		result, err := pipeline.ResumeJob(ctx, *resumeJob, runID, opts)
		reportVideoResult(result, err)
		os.Exit(exitCode(err))

	case *continueAudio != "":
		result, err := pipeline.RunVideoPhase(ctx, *continueAudio, opts)
		reportVideoResult(result, err)
		os.Exit(exitCode(err))

	case *audioOnly:
		scriptPath := requireScriptArg()
		result, err := pipeline.RunAudioPhase(ctx, scriptPath, opts)
		if err != nil {
			log.Error().Err(err).Msg("Audio phase failed")
			os.Exit(exitCode(err))
		}
		reportCandidates(result)
		os.Exit(exitOK)

	default:
		scriptPath := requireScriptArg()
		result, err := pipeline.RunFullPipeline(ctx, scriptPath, opts)
		reportVideoResult(result, err)
		os.Exit(exitCode(err))
	}
}

func requireScriptArg() string {
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: avatar-pipeline [flags] <script-path>")
		flag.PrintDefaults()
		os.Exit(exitFailed)
	}
	return flag.Arg(0)
}

// buildPipeline wires the adapters behind the phase controller. With
// skipCloud the dashboard falls back to a local JSONL file and the
// distribution sinks are left out entirely.
func buildPipeline(pipelineConfig *config.PipelineConfig, zeroLogger outbound.LoggerPort,
	workerPool *ants.Pool, skipCloud bool) inbound.PhaseControllerPort {
	elevenLabsConfig, err := config.GetElevenLabsConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get eleven labs config")
	}

	heyGenConfig, err := config.GetHeyGenConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get heygen config")
	}

	contentFetcher := adapters.NewContentFetcher()
	synthesizer := adapters.NewElevenLabsSynthesizer(contentFetcher, elevenLabsConfig)
	avatarClient := adapters.NewHeyGenClient(contentFetcher, heyGenConfig)

	pollingConfig := services.DefaultPollingConfig()
	pollingConfig.InitialInterval = pipelineConfig.PollInterval
	pollingConfig.Timeout = pipelineConfig.PollTimeout
	watcher := services.NewJobWatcher(zeroLogger, avatarClient, pollingConfig)

	var dashboard outbound.DashboardPort
	var distributor inbound.DistributorPort

	if skipCloud {
		dashboard = adapters.NewFileDashboard(pipelineConfig.OutputDir)
	} else {
		ctx := context.Background()

		googleConfig, err := config.GetGoogleConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get google config")
		}
		s3Config, err := config.GetS3Config()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get s3 config")
		}

		sess := session.Must(session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
			Config:            aws.Config{Region: aws.String(s3Config.Region)},
		}))
		videoStore := adapters.NewS3VideoStore(s3.New(sess), s3Config)

		dashboard, err = adapters.NewSheetsDashboard(ctx, googleConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create sheets dashboard")
		}
		notifier, err := adapters.NewGmailNotifier(ctx, googleConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create gmail notifier")
		}
		publisher, err := adapters.NewYoutubePublisher(ctx, googleConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create youtube publisher")
		}

		distributor = services.NewDistributor(zeroLogger, workerPool, videoStore, notifier, publisher)
	}

	return services.NewPhaseController(services.PhaseControllerConfig{
		OutputDir:         pipelineConfig.OutputDir,
		MaxScriptChars:    pipelineConfig.MaxScriptChars,
		DefaultEmail:      pipelineConfig.NotificationEmail,
		DefaultBackground: "#008000",
	}, zeroLogger, adapters.NewScriptReader(), synthesizer, avatarClient, watcher, distributor, dashboard)
}

func runServer(pipelineConfig *config.PipelineConfig, zeroLogger outbound.LoggerPort,
	workerPool *ants.Pool, pipeline inbound.PhaseControllerPort) {
	serverConfig, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get server config")
	}

	uploadDir := filepath.Join(pipelineConfig.TmpDir, "uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create upload directory")
	}

	router := gin.Default()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	authHandler, err := middleware.NewAuthHandler(serverConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth handler!")
	}

	router.Use(authHandler.AuthMiddleware())
	router.Use(middleware.SSEMiddleware(workerPool))

	pipelineController := controllers.NewPipelineController(zeroLogger, workerPool, pipeline, uploadDir)
	pipelineController.RegisterRoutes(router)

	if err := router.Run(serverConfig.Addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}

// reportCandidates prints the review checkpoint: where the candidates
// landed and how to continue once one of them has been chosen.
func reportCandidates(result domain.AudioPhaseResult) {
	fmt.Printf("\nAudio candidates for run %q are ready (%.1fs):\n", result.Run.ID, result.Duration.Seconds())
	for _, candidate := range result.Candidates {
		fmt.Printf("  %-8s %s\n", candidate.Label, candidate.Path)
	}
	fmt.Println("\nListen to the candidates, then continue with the one you prefer:")
	for _, candidate := range result.Candidates {
		fmt.Printf("  avatar-pipeline --continue %s\n", candidate.Path)
	}
}

func reportVideoResult(result domain.VideoPhaseResult, err error) {
	if err != nil {
		log.Error().Err(err).Msg("Pipeline failed")
		var timedOut *domain.VideoJobTimedOutError
		if errors.As(err, &timedOut) {
			fmt.Fprintf(os.Stderr, "\nThe render job is still running remotely. Check on it later with:\n")
			fmt.Fprintf(os.Stderr, "  avatar-pipeline --resume-job %s --name %q\n", timedOut.JobID, result.Run.ID)
		}
		return
	}

	fmt.Printf("\nRun %q completed in %.1fs\n", result.Run.ID, result.Duration.Seconds())
	fmt.Printf("  video: %s\n", result.VideoPath)
	if result.Distribution.StorageLink != "" {
		fmt.Printf("  storage: %s\n", result.Distribution.StorageLink)
	}
	if result.Distribution.PublishURL != "" {
		fmt.Printf("  published: %s\n", result.Distribution.PublishURL)
	}
	if len(result.Distribution.Warnings) > 0 {
		var messages []string
		for _, warning := range result.Distribution.Warnings {
			messages = append(messages, warning.Error())
		}
		fmt.Printf("  warnings: %s\n", strings.Join(messages, "; "))
	}
}

// exitCode distinguishes a timed-out run, which is recoverable with
// --resume-job, from a failed one. Distribution warnings still exit 0.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var timedOut *domain.VideoJobTimedOutError
	if errors.As(err, &timedOut) {
		return exitTimedOut
	}
	return exitFailed
}
