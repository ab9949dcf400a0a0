package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// ContentFetcher is the shared HTTP helper behind the API adapters.
type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
	DownloadToFile(ctx context.Context, url, destPath string) error
}

type contentFetcher struct {
	client *http.Client
}

func NewContentFetcher() ContentFetcher {
	return &contentFetcher{
		client: &http.Client{},
	}
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	res, err := c.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("URL", req.URL.String()).Msg("Failed to send the HTTP request")
		return nil, err
	}

	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			log.Error().Err(err).Str("URL", req.URL.String()).Msg("Failed to close the response body")
		}
	}(res.Body)

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		log.Error().Err(err).Str("URL", req.URL.String()).Msg("Failed to read the response body")
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		log.Error().
			Str("method", req.Method).
			Str("URL", req.URL.String()).
			Int("status", res.StatusCode).
			Str("message", string(payload)).
			Msg("HTTP request returned non-OK status code")
		return nil, fmt.Errorf("HTTP request returned non-OK status code: %d - %s", res.StatusCode, string(payload))
	}

	return payload, nil
}

// DownloadToFile streams a large response straight to disk.
func (c *contentFetcher) DownloadToFile(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("URL", url).Msg("Failed to start the download")
		return err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			log.Error().Err(err).Str("URL", url).Msg("Failed to close the download body")
		}
	}(res.Body)

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned non-OK status code: %d", res.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(destPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, res.Body); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
