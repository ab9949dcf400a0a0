package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type PipelineConfig struct {
	OutputDir         string
	TmpDir            string
	NotificationEmail string
	MaxScriptChars    int
	PollInterval      time.Duration
	PollTimeout       time.Duration
}

func GetPipelineConfig() (*PipelineConfig, error) {
	outputDir := os.Getenv("PIPELINE_OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "output"
	}
	tmpDir := os.Getenv("PIPELINE_TMP_DIR")
	if tmpDir == "" {
		tmpDir = ".tmp"
	}

	maxScriptChars := 5000
	if raw := os.Getenv("PIPELINE_MAX_SCRIPT_CHARS"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val <= 0 {
			return nil, fmt.Errorf("PIPELINE_MAX_SCRIPT_CHARS must be a positive integer")
		}
		maxScriptChars = val
	}

	pollInterval := 5 * time.Second
	if raw := os.Getenv("PIPELINE_POLL_INTERVAL"); raw != "" {
		val, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PIPELINE_POLL_INTERVAL: %w", err)
		}
		pollInterval = val
	}
	pollTimeout := 10 * time.Minute
	if raw := os.Getenv("PIPELINE_POLL_TIMEOUT"); raw != "" {
		val, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PIPELINE_POLL_TIMEOUT: %w", err)
		}
		pollTimeout = val
	}

	return &PipelineConfig{
		OutputDir:         outputDir,
		TmpDir:            tmpDir,
		NotificationEmail: os.Getenv("NOTIFICATION_EMAIL"),
		MaxScriptChars:    maxScriptChars,
		PollInterval:      pollInterval,
		PollTimeout:       pollTimeout,
	}, nil
}
