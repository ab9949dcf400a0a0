package config

import (
	"fmt"
	"os"
)

type HeyGenConfig struct {
	ApiKey      string
	AvatarID    string
	UploadUrl   string
	GenerateUrl string
	StatusUrl   string
}

func GetHeyGenConfig() (*HeyGenConfig, error) {
	apiKey := os.Getenv("HEYGEN_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("HEYGEN_API_KEY must be set")
	}
	avatarID := os.Getenv("HEYGEN_AVATAR_ID")
	if avatarID == "" {
		return nil, fmt.Errorf("HEYGEN_AVATAR_ID must be set")
	}

	uploadUrl := os.Getenv("HEYGEN_UPLOAD_URL")
	if uploadUrl == "" {
		uploadUrl = "https://upload.heygen.com/v1/asset"
	}
	generateUrl := os.Getenv("HEYGEN_GENERATE_URL")
	if generateUrl == "" {
		generateUrl = "https://api.heygen.com/v2/video/generate"
	}
	statusUrl := os.Getenv("HEYGEN_STATUS_URL")
	if statusUrl == "" {
		statusUrl = "https://api.heygen.com/v1/video_status.get"
	}

	return &HeyGenConfig{
		ApiKey:      apiKey,
		AvatarID:    avatarID,
		UploadUrl:   uploadUrl,
		GenerateUrl: generateUrl,
		StatusUrl:   statusUrl,
	}, nil
}
