package outbound

import (
	"context"

	"github.com/shakedma/avatar-pipeline/domain"
)

type SynthesizeParams struct {
	Text     string
	Settings domain.VoiceSettings
}

// SpeechSynthesizerPort renders text into one audio variant.
type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, params SynthesizeParams) ([]byte, error)
}
