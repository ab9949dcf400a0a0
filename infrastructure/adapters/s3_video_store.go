package adapters

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/shakedma/avatar-pipeline/application/ports/outbound"
	"github.com/shakedma/avatar-pipeline/config"
)

type s3VideoStore struct {
	s3Svc    *s3.S3
	s3Config *config.S3Config
}

func NewS3VideoStore(s3Svc *s3.S3, s3Config *config.S3Config) outbound.VideoStorePort {
	return &s3VideoStore{
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

// Upload puts the finished video under the configured prefix and returns
// the object URL. Re-uploading the same name overwrites in place, so
// retries are safe.
func (s *s3VideoStore) Upload(ctx context.Context, localPath, name string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Error().Err(err).Str("file", localPath).Msg("Failed to close the video file")
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return "", err
	}

	itemPath := path.Join(s.s3Config.Prefix, name)
	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(s.s3Config.BucketName),
		Key:           aws.String(itemPath),
		Body:          file,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String("video/mp4"),
	}

	_, err = s.s3Svc.PutObjectWithContext(ctx, putInput)
	if err != nil {
		log.Error().
			Err(err).
			Str("bucket", s.s3Config.BucketName).
			Str("key", itemPath).
			Msg("Failed to upload video to S3")
		return "", err
	}

	s3Url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, itemPath)
	log.Debug().
		Str("s3Url", s3Url).
		Msg("Successfully uploaded video to S3")

	return s3Url, nil
}
