package adapters

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
	"github.com/shakedma/avatar-pipeline/config"
	"github.com/shakedma/avatar-pipeline/domain"
)

func elevenLabsTestConfig(apiUrl string) *config.ElevenLabsConfig {
	return &config.ElevenLabsConfig{
		ApiUrl:        apiUrl,
		ApiKey:        "test-key",
		VoiceID:       "test-voice",
		ModelID:       "eleven_v3",
		FallbackModel: "eleven_multilingual_v2",
	}
}

func TestSynthesizePassesVoiceSettings(t *testing.T) {
	var received ElevenLabsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("xi-api-key"); got != "test-key" {
			t.Errorf("xi-api-key = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Error("request body is not JSON:", err)
		}
		_, _ = w.Write([]byte("mp3 bytes"))
	}))
	defer server.Close()

	synthesizer := NewElevenLabsSynthesizer(NewContentFetcher(), elevenLabsTestConfig(server.URL))

	audio, err := synthesizer.Synthesize(context.Background(), outbound.SynthesizeParams{
		Text:     "Hello world",
		Settings: domain.VoiceSettings{Stability: 0.7, SimilarityBoost: 0.8},
	})
	if err != nil {
		t.Fatal("Synthesize:", err)
	}
	if string(audio) != "mp3 bytes" {
		t.Errorf("audio = %q", audio)
	}
	if received.ModelId != "eleven_v3" {
		t.Errorf("model = %q, want eleven_v3", received.ModelId)
	}
	if received.VoiceSettings.Stability != 0.7 || received.VoiceSettings.SimilarityBoost != 0.8 {
		t.Errorf("voice settings = %+v", received.VoiceSettings)
	}
}

func TestSynthesizeFallsBackAndStripsAudioTags(t *testing.T) {
	var requests []ElevenLabsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req ElevenLabsRequest
		_ = json.Unmarshal(body, &req)
		requests = append(requests, req)

		if req.ModelId == "eleven_v3" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"model not available"}`))
			return
		}
		_, _ = w.Write([]byte("fallback audio"))
	}))
	defer server.Close()

	synthesizer := NewElevenLabsSynthesizer(NewContentFetcher(), elevenLabsTestConfig(server.URL))

	audio, err := synthesizer.Synthesize(context.Background(), outbound.SynthesizeParams{
		Text:     "[excited] Hello there! [pause] Welcome.",
		Settings: domain.VoiceSettings{Stability: 0.3, SimilarityBoost: 0.9},
	})
	if err != nil {
		t.Fatal("Synthesize:", err)
	}
	if string(audio) != "fallback audio" {
		t.Errorf("audio = %q", audio)
	}
	if len(requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(requests))
	}
	if requests[1].ModelId != "eleven_multilingual_v2" {
		t.Errorf("fallback model = %q", requests[1].ModelId)
	}
	if strings.Contains(requests[1].Text, "[") {
		t.Errorf("fallback request still carries audio tags: %q", requests[1].Text)
	}
	if requests[1].Text != "Hello there! Welcome." {
		t.Errorf("fallback text = %q", requests[1].Text)
	}
}

func TestSynthesizeDoesNotRetryFallbackModel(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	cfg := elevenLabsTestConfig(server.URL)
	cfg.ModelID = cfg.FallbackModel
	synthesizer := NewElevenLabsSynthesizer(NewContentFetcher(), cfg)

	_, err := synthesizer.Synthesize(context.Background(), outbound.SynthesizeParams{Text: "Hello"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
