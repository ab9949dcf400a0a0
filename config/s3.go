package config

import (
	"fmt"
	"os"
)

type S3Config struct {
	BucketName string
	Region     string
	Prefix     string
}

func GetS3Config() (*S3Config, error) {
	bucketName := os.Getenv("S3_BUCKET")
	if bucketName == "" {
		return nil, fmt.Errorf("S3_BUCKET must be set")
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		return nil, fmt.Errorf("AWS_REGION must be set")
	}

	return &S3Config{
		BucketName: bucketName,
		Region:     region,
		Prefix:     os.Getenv("S3_PREFIX"), // empty means bucket root
	}, nil
}
