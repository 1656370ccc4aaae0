package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver keeps a copy of every generated export.
type Archiver interface {
	Archive(ctx context.Context, filename, contentType string, body []byte) (string, error)
}

// PutObjectAPI is the S3 call the archiver uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	client PutObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Archiver loads the default AWS credential chain
func NewS3Archiver(ctx context.Context, bucket, prefix string) (*S3Archiver, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3ArchiverWithClient(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func NewS3ArchiverWithClient(client PutObjectAPI, bucket, prefix string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

// Archive uploads body under <prefix><year>/<month>/<filename> and returns the key.
func (a *S3Archiver) Archive(ctx context.Context, filename, contentType string, body []byte) (string, error) {
	now := a.now()
	key := fmt.Sprintf("%s%d/%02d/%s", a.prefix, now.Year(), now.Month(), filename)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"original-filename": filename,
			"export-time":       now.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return key, nil
}
