package dto

import "github.com/shakedma/avatar-pipeline/domain"

// ContinueRunRequest resumes a reviewed run from its chosen candidate file.
type ContinueRunRequest struct {
	AudioPath      string `json:"audio_path" binding:"required"`
	Name           string `json:"name"`
	Background     string `json:"background"`
	Email          string `json:"email"`
	SkipCloud      bool   `json:"skip_cloud"`
	Youtube        bool   `json:"youtube"`
	YoutubeTitle   string `json:"youtube_title"`
	YoutubePrivacy string `json:"youtube_privacy"`
}

type CandidateResponse struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type AudioReadyResponse struct {
	RunID           string              `json:"run_id"`
	Phase           string              `json:"phase"`
	Candidates      []CandidateResponse `json:"candidates"`
	DurationSeconds float64             `json:"duration_seconds"`
}

type VideoResultResponse struct {
	RunID           string   `json:"run_id"`
	Phase           string   `json:"phase"`
	JobID           string   `json:"job_id"`
	VideoPath       string   `json:"video_path"`
	StorageLink     string   `json:"storage_link,omitempty"`
	PublishURL      string   `json:"publish_url,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	DurationSeconds float64  `json:"duration_seconds"`
}

func NewAudioReadyResponse(result domain.AudioPhaseResult) AudioReadyResponse {
	response := AudioReadyResponse{
		RunID:           result.Run.ID,
		Phase:           string(result.Run.Phase),
		DurationSeconds: result.Duration.Seconds(),
	}
	for _, candidate := range result.Candidates {
		response.Candidates = append(response.Candidates, CandidateResponse{
			Label: candidate.Label,
			Path:  candidate.Path,
		})
	}
	return response
}

func NewVideoResultResponse(result domain.VideoPhaseResult) VideoResultResponse {
	response := VideoResultResponse{
		RunID:           result.Run.ID,
		Phase:           string(result.Run.Phase),
		JobID:           result.Job.ID,
		VideoPath:       result.VideoPath,
		StorageLink:     result.Distribution.StorageLink,
		PublishURL:      result.Distribution.PublishURL,
		DurationSeconds: result.Duration.Seconds(),
	}
	for _, warning := range result.Distribution.Warnings {
		response.Warnings = append(response.Warnings, warning.Error())
	}
	return response
}
