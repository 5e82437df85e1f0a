package hosting

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of *s3.Client used by S3Backend.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Backend keeps hosted files in one bucket under {namespace}/{path}.
type S3Backend struct {
	api    S3API
	bucket string
}

type S3Options struct {
	Bucket string
	Region string
	// Endpoint points at an S3 compatible service such as MinIO.
	Endpoint string
}

func NewS3Backend(ctx context.Context, opts S3Options) (*S3Backend, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3BackendWithAPI(client, opts.Bucket), nil
}

func NewS3BackendWithAPI(api S3API, bucket string) *S3Backend {
	return &S3Backend{api: api, bucket: bucket}
}

func (b *S3Backend) Put(ctx context.Context, namespace, path string, data []byte, contentType string) error {
	key, err := objectKey(namespace, path)
	if err != nil {
		return err
	}

	_, err = b.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", b.bucket, key, err)
	}
	return nil
}

func (b *S3Backend) Open(ctx context.Context, namespace, path string) (*Object, error) {
	key, err := objectKey(namespace, path)
	if err != nil {
		return nil, err
	}

	out, err := b.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", b.bucket, key, err)
	}

	obj := &Object{
		Body:        out.Body,
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
	}
	if obj.ContentType == "" {
		obj.ContentType = ContentTypeForPath(path)
	}
	return obj, nil
}

func objectKey(namespace, path string) (string, error) {
	if !ValidSlug(namespace) {
		return "", fmt.Errorf("%w: namespace %q", ErrInvalidPath, namespace)
	}
	clean, err := CleanPath(path)
	if err != nil {
		return "", err
	}
	return namespace + "/" + clean, nil
}
