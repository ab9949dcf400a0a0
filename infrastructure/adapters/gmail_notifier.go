package adapters

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
	"github.com/shakedma/avatar-pipeline/config"
)

type gmailNotifier struct {
	gmailSvc     *gmail.Service
	googleConfig *config.GoogleConfig
}

func NewGmailNotifier(ctx context.Context, googleConfig *config.GoogleConfig) (outbound.NotifierPort, error) {
	gmailSvc, err := gmail.NewService(ctx,
		option.WithCredentialsFile(googleConfig.CredentialsFile),
		option.WithScopes(gmail.GmailSendScope))
	if err != nil {
		return nil, err
	}
	return &gmailNotifier{
		gmailSvc:     gmailSvc,
		googleConfig: googleConfig,
	}, nil
}

func (n *gmailNotifier) SendVideoNotification(ctx context.Context, params outbound.NotificationParams) error {
	var body strings.Builder
	body.WriteString(fmt.Sprintf("Your avatar video %q is ready.\n\n", params.VideoName))
	body.WriteString(fmt.Sprintf("Script: %s\n", params.RunID))
	body.WriteString(fmt.Sprintf("Video link: %s\n", params.VideoLink))
	body.WriteString(fmt.Sprintf("Generation time: %d seconds\n", int(params.Duration/time.Second)))

	var message strings.Builder
	if n.googleConfig.SenderEmail != "" {
		message.WriteString("From: " + n.googleConfig.SenderEmail + "\r\n")
	}
	message.WriteString("To: " + params.To + "\r\n")
	message.WriteString("Subject: Avatar video ready: " + params.VideoName + "\r\n")
	message.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(body.String())

	raw := base64.URLEncoding.EncodeToString([]byte(message.String()))
	_, err := n.gmailSvc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		log.Error().Err(err).Str("to", params.To).Msg("Failed to send notification email")
		return err
	}

	log.Info().Str("to", params.To).Str("video", params.VideoName).Msg("Notification email sent")
	return nil
}
