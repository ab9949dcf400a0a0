package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
	"github.com/shakedma/avatar-pipeline/config"
	"github.com/shakedma/avatar-pipeline/domain"
)

type heyGenUploadResponse struct {
	Code int `json:"code"`
	Data struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"data"`
	Message string `json:"message"`
}

type heyGenGenerateRequest struct {
	VideoInputs []heyGenVideoInput `json:"video_inputs"`
	Dimension   heyGenDimension    `json:"dimension"`
}

type heyGenVideoInput struct {
	Character  heyGenCharacter  `json:"character"`
	Voice      heyGenVoice      `json:"voice"`
	Background heyGenBackground `json:"background"`
}

type heyGenCharacter struct {
	Type           string `json:"type"`
	TalkingPhotoID string `json:"talking_photo_id"`
}

type heyGenVoice struct {
	Type         string `json:"type"`
	AudioAssetID string `json:"audio_asset_id"`
}

type heyGenBackground struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type heyGenDimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type heyGenGenerateResponse struct {
	Error json.RawMessage `json:"error"`
	Data  struct {
		VideoID string `json:"video_id"`
	} `json:"data"`
}

type heyGenStatusResponse struct {
	Data struct {
		Status   string          `json:"status"`
		VideoURL string          `json:"video_url"`
		Error    json.RawMessage `json:"error"`
	} `json:"data"`
}

type heyGenClient struct {
	ContentFetcher
	heyGenConfig *config.HeyGenConfig
}

func NewHeyGenClient(contentFetcher ContentFetcher, heyGenConfig *config.HeyGenConfig) outbound.AvatarVideoPort {
	return &heyGenClient{
		ContentFetcher: contentFetcher,
		heyGenConfig:   heyGenConfig,
	}
}

func (h *heyGenClient) UploadAudio(ctx context.Context, audioPath string) (string, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.heyGenConfig.UploadUrl, bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Add("X-API-KEY", h.heyGenConfig.ApiKey)
	req.Header.Add("Content-Type", "audio/mpeg")

	payload, err := h.FetchContent(req)
	if err != nil {
		return "", err
	}

	var res heyGenUploadResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		return "", err
	}
	if res.Code != 100 || res.Data.ID == "" {
		log.Error().Int("code", res.Code).Str("message", res.Message).Msg("HeyGen rejected the audio asset")
		return "", fmt.Errorf("HeyGen upload failed: code %d - %s", res.Code, res.Message)
	}

	log.Debug().Str("assetID", res.Data.ID).Msg("Uploaded audio asset to HeyGen")
	return res.Data.ID, nil
}

func (h *heyGenClient) SubmitJob(ctx context.Context, params outbound.SubmitJobParams) (string, error) {
	reqBody := heyGenGenerateRequest{
		VideoInputs: []heyGenVideoInput{{
			Character:  heyGenCharacter{Type: "talking_photo", TalkingPhotoID: h.heyGenConfig.AvatarID},
			Voice:      heyGenVoice{Type: "audio", AudioAssetID: params.AudioAssetID},
			Background: heyGenBackground{Type: "color", Value: params.BackgroundColor},
		}},
		Dimension: heyGenDimension{Width: 1280, Height: 720},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.heyGenConfig.GenerateUrl, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", err
	}
	req.Header.Add("X-Api-Key", h.heyGenConfig.ApiKey)
	req.Header.Add("Content-Type", "application/json")

	payload, err := h.FetchContent(req)
	if err != nil {
		return "", err
	}

	var res heyGenGenerateResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		return "", err
	}
	if len(res.Error) > 0 && string(res.Error) != "null" {
		return "", fmt.Errorf("HeyGen video generation failed: %s", res.Error)
	}
	if res.Data.VideoID == "" {
		return "", fmt.Errorf("HeyGen returned no video_id")
	}

	log.Info().Str("videoID", res.Data.VideoID).Msg("HeyGen video generation started")
	return res.Data.VideoID, nil
}

func (h *heyGenClient) JobStatus(ctx context.Context, jobID string) (outbound.JobStatusReport, error) {
	statusUrl := h.heyGenConfig.StatusUrl + "?" + url.Values{"video_id": {jobID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusUrl, nil)
	if err != nil {
		return outbound.JobStatusReport{}, err
	}
	req.Header.Add("X-Api-Key", h.heyGenConfig.ApiKey)

	payload, err := h.FetchContent(req)
	if err != nil {
		return outbound.JobStatusReport{}, err
	}

	var res heyGenStatusResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		return outbound.JobStatusReport{}, err
	}

	report := outbound.JobStatusReport{VideoURL: res.Data.VideoURL}
	switch res.Data.Status {
	case "completed":
		report.Status = domain.JobSucceeded
	case "failed":
		report.Status = domain.JobFailed
		report.ErrorMessage = string(res.Data.Error)
		if report.ErrorMessage == "" || report.ErrorMessage == "null" {
			report.ErrorMessage = "unknown error"
		}
	case "processing":
		report.Status = domain.JobProcessing
	default:
		// pending, waiting, or a status this client does not know yet.
		report.Status = domain.JobSubmitted
	}
	return report, nil
}

func (h *heyGenClient) DownloadVideo(ctx context.Context, videoURL, destPath string) error {
	log.Info().Str("URL", videoURL).Str("dest", destPath).Msg("Downloading rendered video")
	return h.DownloadToFile(ctx, videoURL, destPath)
}
