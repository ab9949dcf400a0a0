package outbound

import (
	"context"
	"time"
)

type NotificationParams struct {
	To        string
	RunID     string
	VideoName string
	VideoLink string
	Duration  time.Duration
}

// NotifierPort sends the completion notification for a run.
type NotifierPort interface {
	SendVideoNotification(ctx context.Context, params NotificationParams) error
}
