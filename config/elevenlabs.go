package config

import (
	"fmt"
	"os"
)

type ElevenLabsConfig struct {
	ApiUrl        string
	ApiKey        string
	VoiceID       string
	ModelID       string
	FallbackModel string
}

func GetElevenLabsConfig() (*ElevenLabsConfig, error) {
	apiKey := os.Getenv("ELEVENLABS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY must be set")
	}
	voiceID := os.Getenv("ELEVENLABS_VOICE_ID")
	if voiceID == "" {
		return nil, fmt.Errorf("ELEVENLABS_VOICE_ID must be set")
	}

	apiUrl := os.Getenv("ELEVENLABS_API_URL")
	if apiUrl == "" {
		apiUrl = "https://api.elevenlabs.io/v1/text-to-speech"
	}
	// eleven_v3 understands [audio tags]; the multilingual model is the
	// fallback when v3 is unavailable on the account.
	modelID := os.Getenv("ELEVENLABS_MODEL")
	if modelID == "" {
		modelID = "eleven_v3"
	}

	return &ElevenLabsConfig{
		ApiUrl:        apiUrl,
		ApiKey:        apiKey,
		VoiceID:       voiceID,
		ModelID:       modelID,
		FallbackModel: "eleven_multilingual_v2",
	}, nil
}
