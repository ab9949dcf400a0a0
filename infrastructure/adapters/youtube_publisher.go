package adapters

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
	"github.com/shakedma/avatar-pipeline/config"
	"github.com/shakedma/avatar-pipeline/domain"
)

type youtubePublisher struct {
	youtubeSvc *youtube.Service
}

// NewYoutubePublisher builds the upload client. YouTube uploads require
// user credentials, so the credentials file must hold an authorized user
// grant rather than a service account key.
func NewYoutubePublisher(ctx context.Context, googleConfig *config.GoogleConfig) (outbound.VideoPublisherPort, error) {
	data, err := os.ReadFile(googleConfig.CredentialsFile)
	if err != nil {
		return nil, &domain.AuthError{Collaborator: "youtube", Err: err}
	}
	credentials, err := google.CredentialsFromJSON(ctx, data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, &domain.AuthError{Collaborator: "youtube", Err: err}
	}

	youtubeSvc, err := youtube.NewService(ctx, option.WithTokenSource(credentials.TokenSource))
	if err != nil {
		return nil, err
	}
	return &youtubePublisher{youtubeSvc: youtubeSvc}, nil
}

func (p *youtubePublisher) Publish(ctx context.Context, params outbound.PublishParams) (string, error) {
	privacy := params.Privacy
	if privacy == "" {
		privacy = "unlisted"
	}

	file, err := os.Open(params.VideoPath)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Error().Err(err).Str("file", params.VideoPath).Msg("Failed to close the video file")
		}
	}()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       params.Title,
			Description: params.Description,
			CategoryId:  "22", // People & Blogs
		},
		Status: &youtube.VideoStatus{PrivacyStatus: privacy},
	}

	res, err := p.youtubeSvc.Videos.
		Insert([]string{"snippet", "status"}, video).
		Media(file).
		Context(ctx).Do()
	if err != nil {
		log.Error().Err(err).Str("video", params.VideoPath).Msg("Failed to upload video to YouTube")
		return "", err
	}

	url := "https://www.youtube.com/watch?v=" + res.Id
	log.Info().Str("url", url).Str("privacy", privacy).Msg("Video published to YouTube")
	return url, nil
}
