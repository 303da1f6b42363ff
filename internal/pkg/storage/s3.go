package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Config holds the S3-compatible object storage settings.
type S3Config struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	SSLDisabled    bool
}

type s3Storage struct {
	uploader *s3manager.Uploader
	client   *s3.S3
	cfg      S3Config
}

// NewS3Storage creates a Storage backed by an S3-compatible endpoint.
func NewS3Storage(cfg S3Config) Storage {
	sess, _ := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(cfg.SSLDisabled),
	})

	return &s3Storage{
		uploader: s3manager.NewUploader(sess),
		client:   s3.New(sess),
		cfg:      cfg,
	}
}

func (s *s3Storage) publicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", s.cfg.PublicEndpoint, bucket, key)
}

func (s *s3Storage) Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error) {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(object.Bucket),
		Key:         aws.String(object.Key),
		Body:        bytes.NewReader(object.Data),
		ACL:         aws.String("public-read"),
		ContentType: aws.String(object.Mime),
	})
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w, bucket %s, key %s", err, object.Bucket, object.Key)
	}

	return &UploadResponse{
		URL: s.publicURL(object.Bucket, object.Key),
		Key: object.Key,
	}, nil
}
