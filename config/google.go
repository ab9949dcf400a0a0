package config

import (
	"fmt"
	"os"
)

type GoogleConfig struct {
	CredentialsFile string
	SheetID         string
	SheetName       string
	SenderEmail     string
}

func GetGoogleConfig() (*GoogleConfig, error) {
	credentialsFile := os.Getenv("GOOGLE_CREDENTIALS_FILE")
	if credentialsFile == "" {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS_FILE must be set")
	}
	sheetID := os.Getenv("GOOGLE_SHEET_ID")
	if sheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SHEET_ID must be set")
	}

	sheetName := os.Getenv("GOOGLE_SHEET_NAME")
	if sheetName == "" {
		sheetName = "Video Generation Log"
	}

	return &GoogleConfig{
		CredentialsFile: credentialsFile,
		SheetID:         sheetID,
		SheetName:       sheetName,
		SenderEmail:     os.Getenv("GMAIL_SENDER"),
	}, nil
}
