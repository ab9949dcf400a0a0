package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
	"github.com/shakedma/avatar-pipeline/config"
)

type ElevenLabsRequest struct {
	Text          string        `json:"text"`
	ModelId       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// audioTagPattern matches [excited], [whisper], [pause] and friends.
var audioTagPattern = regexp.MustCompile(`\[[\w\s]+\]\s*`)

type elevenLabsSynthesizer struct {
	ContentFetcher
	elevenLabsConfig *config.ElevenLabsConfig
}

func NewElevenLabsSynthesizer(contentFetcher ContentFetcher, elevenLabsConfig *config.ElevenLabsConfig) outbound.SpeechSynthesizerPort {
	return &elevenLabsSynthesizer{
		ContentFetcher:   contentFetcher,
		elevenLabsConfig: elevenLabsConfig,
	}
}

// Synthesize renders the text with the configured model. Audio tags only
// work on the v3 model; when the primary model is rejected the adapter
// retries once with the fallback model and the tags stripped.
func (a *elevenLabsSynthesizer) Synthesize(ctx context.Context, params outbound.SynthesizeParams) ([]byte, error) {
	audio, err := a.fetchAudio(ctx, params.Text, a.elevenLabsConfig.ModelID, params.Settings.Stability, params.Settings.SimilarityBoost)
	if err == nil {
		return audio, nil
	}
	if a.elevenLabsConfig.ModelID == a.elevenLabsConfig.FallbackModel {
		return nil, err
	}

	log.Warn().
		Err(err).
		Str("model", a.elevenLabsConfig.ModelID).
		Str("fallback", a.elevenLabsConfig.FallbackModel).
		Msg("Primary model rejected the request, retrying with the fallback model")

	text := params.Text
	if audioTagPattern.MatchString(text) {
		text = strings.TrimSpace(audioTagPattern.ReplaceAllString(text, ""))
	}
	return a.fetchAudio(ctx, text, a.elevenLabsConfig.FallbackModel, params.Settings.Stability, params.Settings.SimilarityBoost)
}

func (a *elevenLabsSynthesizer) fetchAudio(ctx context.Context, text, modelID string, stability, similarityBoost float64) ([]byte, error) {
	req, err := a.getRequest(ctx, text, modelID, stability, similarityBoost)
	if err != nil {
		return nil, err
	}
	return a.FetchContent(req)
}

func (a *elevenLabsSynthesizer) getRequest(ctx context.Context, text, modelID string, stability, similarityBoost float64) (*http.Request, error) {
	reqBody := ElevenLabsRequest{
		Text:    text,
		ModelId: modelID,
		VoiceSettings: VoiceSettings{
			Stability:       stability,
			SimilarityBoost: similarityBoost,
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		log.Error().Err(err).Str("action", "Marshalling JSON").Msg("Failed to marshal the request body for ElevenLabs API")
		return nil, err
	}

	url := a.elevenLabsConfig.ApiUrl + "/" + a.elevenLabsConfig.VoiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		log.Error().Err(err).Str("URL", url).Msg("Failed to create the HTTP POST request")
		return nil, err
	}

	req.Header.Add("Accept", "audio/mpeg")
	req.Header.Add("xi-api-key", a.elevenLabsConfig.ApiKey)
	req.Header.Add("Content-Type", "application/json")

	return req, nil
}
