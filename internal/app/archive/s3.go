/*
Package archive exports the durable message log to object storage.

This file contains the S3-compatible Uploader implementation, configured with a
custom endpoint and path-style addressing so self-hosted object stores work.
*/
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"msghub/internal/pkg/logx"
)

// transcriptContentType is the MIME type set on uploaded transcript objects.
const transcriptContentType = "application/x-ndjson"

// UploaderConfig holds the settings required to reach the transcript bucket.
type UploaderConfig struct {
	BucketName      string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// s3Uploader implements the Uploader interface against S3-compatible storage.
type s3Uploader struct {
	cfg      UploaderConfig
	uploader *manager.Uploader
}

// NewS3Uploader initializes the S3 client using a custom configuration that
// supports S3-compatible endpoints.
func NewS3Uploader(cfg UploaderConfig) (Uploader, error) {
	sdkCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		logx.Error(err, "Failed to load AWS SDK config")
		return nil, errors.New("failed to initialize S3 client configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &s3Uploader{
		cfg:      cfg,
		uploader: manager.NewUploader(client),
	}, nil
}

// Upload writes one transcript object under the given key.
func (u *s3Uploader) Upload(ctx context.Context, key string, body []byte) error {
	contentType := transcriptContentType

	_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &u.cfg.BucketName,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload transcript object %s: %w", key, err)
	}

	return nil
}
