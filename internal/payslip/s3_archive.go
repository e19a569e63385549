package payslip

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the part of *s3.Client the archive uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Options struct {
	Bucket string
	Region string
	// Endpoint targets S3-compatible stores such as MinIO or LocalStack.
	Endpoint  string
	Prefix    string
	AccessKey string
	SecretKey string
}

type S3Archive struct {
	client ObjectPutter
	bucket string
	prefix string
}

func NewS3Archive(ctx context.Context, opts S3Options) (*S3Archive, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3ArchiveWithClient(client, opts.Bucket, opts.Prefix), nil
}

func NewS3ArchiveWithClient(client ObjectPutter, bucket, prefix string) *S3Archive {
	return &S3Archive{client: client, bucket: bucket, prefix: prefix}
}

func (a *S3Archive) Store(ctx context.Context, key string, doc Document) (string, error) {
	objectKey := a.prefix + key
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(a.bucket),
		Key:                aws.String(objectKey),
		Body:               bytes.NewReader(doc.Content),
		ContentType:        aws.String(doc.ContentType),
		ContentDisposition: aws.String(fmt.Sprintf(`attachment; filename="%s"`, doc.Filename)),
	})
	if err != nil {
		return "", fmt.Errorf("put payslip object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, objectKey), nil
}
