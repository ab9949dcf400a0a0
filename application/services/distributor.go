package services

import (
	"context"
	"path/filepath"
	"time"

	"github.com/shakedma/avatar-pipeline/application/ports/inbound"
	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
	"github.com/shakedma/avatar-pipeline/channel_utils"
	"github.com/shakedma/avatar-pipeline/domain"
)

type sinkOutcome struct {
	sink string
	url  string
	err  error
}

type distributor struct {
	logger     outbound.LoggerPort
	workerPool outbound.TaskDispatcher
	store      outbound.VideoStorePort
	notifier   outbound.NotifierPort
	publisher  outbound.VideoPublisherPort
}

func NewDistributor(logger outbound.LoggerPort, workerPool outbound.TaskDispatcher, store outbound.VideoStorePort,
	notifier outbound.NotifierPort, publisher outbound.VideoPublisherPort) inbound.DistributorPort {
	return &distributor{
		logger:     logger,
		workerPool: workerPool,
		store:      store,
		notifier:   notifier,
		publisher:  publisher,
	}
}

// Distribute uploads the video to storage first, because the resulting
// link feeds the remaining sinks. If storage fails, the link-dependent
// sinks are skipped and the failure is the only warning; the local file
// is untouched either way. Email and publishing then run independently,
// each recording its own failure as a warning.
func (d *distributor) Distribute(ctx context.Context, params inbound.DistributeParams) domain.DistributionResult {
	var result domain.DistributionResult

	params.Progress.Notify(params.RunID, "distribute", "uploading video to storage")
	link, err := d.store.Upload(ctx, params.VideoPath, filepath.Base(params.VideoPath))
	if err != nil {
		d.logger.Error(err, "storage upload failed, skipping link-dependent sinks", map[string]interface{}{
			"runID": params.RunID,
			"video": params.VideoPath,
		})
		result.Warnings = append(result.Warnings, domain.DistributionWarning{Sink: domain.SinkStorage, Err: err})
		return result
	}
	result.StorageLink = link

	for outcome := range d.fanOut(ctx, params, link) {
		if outcome.err != nil {
			d.logger.Warn("distribution sink failed", map[string]interface{}{
				"runID": params.RunID,
				"sink":  outcome.sink,
				"error": outcome.err.Error(),
			})
			result.Warnings = append(result.Warnings, domain.DistributionWarning{Sink: outcome.sink, Err: outcome.err})
			continue
		}
		if outcome.sink == domain.SinkPublish {
			result.PublishURL = outcome.url
		}
	}

	return result
}

func (d *distributor) fanOut(ctx context.Context, params inbound.DistributeParams, link string) <-chan sinkOutcome {
	var channels []<-chan sinkOutcome

	if params.Email != "" {
		params.Progress.Notify(params.RunID, "distribute", "sending notification email")
		channels = append(channels, d.runSink(domain.SinkEmail, func() (string, error) {
			return "", d.notifier.SendVideoNotification(ctx, outbound.NotificationParams{
				To:        params.Email,
				RunID:     params.RunID,
				VideoName: params.VideoName,
				VideoLink: link,
				Duration:  time.Duration(params.Duration) * time.Second,
			})
		}))
	}

	if params.Publish {
		params.Progress.Notify(params.RunID, "distribute", "publishing video")
		channels = append(channels, d.runSink(domain.SinkPublish, func() (string, error) {
			title := params.PublishTitle
			if title == "" {
				title = "Avatar Video: " + params.VideoName
			}
			return d.publisher.Publish(ctx, outbound.PublishParams{
				VideoPath:   params.VideoPath,
				Title:       title,
				Description: "Generated by the avatar pipeline\n\nScript: " + params.RunID,
				Privacy:     params.PublishPrivacy,
			})
		}))
	}

	return channel_utils.MergeChannels(d.workerPool, channels...)
}

func (d *distributor) runSink(sink string, call func() (string, error)) <-chan sinkOutcome {
	out := make(chan sinkOutcome, 1)
	err := d.workerPool.Submit(func() {
		defer close(out)
		url, err := call()
		out <- sinkOutcome{sink: sink, url: url, err: err}
	})
	if err != nil {
		// Run inline when the pool refuses the task.
		url, callErr := call()
		out <- sinkOutcome{sink: sink, url: url, err: callErr}
		close(out)
	}
	return out
}
