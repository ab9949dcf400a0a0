package config

import (
	"fmt"
	"os"
)

type ServerConfig struct {
	Addr     string
	AppToken string
	JwksUrl  string
}

func GetServerConfig() (*ServerConfig, error) {
	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	appToken := os.Getenv("APP_TOKEN")
	jwksUrl := os.Getenv("JWKS_URL")
	if appToken == "" && jwksUrl == "" {
		return nil, fmt.Errorf("either APP_TOKEN or JWKS_URL must be set to protect the server")
	}

	return &ServerConfig{
		Addr:     addr,
		AppToken: appToken,
		JwksUrl:  jwksUrl,
	}, nil
}
