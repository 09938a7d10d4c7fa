package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by S3FileStore
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var _ S3API = (*s3.Client)(nil)

// S3FileStore keeps uploads in a bucket. Locations have the form
// s3://<bucket>/<prefix>/<name>.
type S3FileStore struct {
	client S3API
	bucket string
	prefix string
}

func NewS3FileStore(ctx context.Context, bucket, prefix, region string) (*S3FileStore, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if region != "" {
		awsCfg.Region = region
	}
	return NewS3FileStoreWithClient(s3.NewFromConfig(awsCfg), bucket, prefix), nil
}

func NewS3FileStoreWithClient(client S3API, bucket, prefix string) *S3FileStore {
	return &S3FileStore{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (s *S3FileStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	key := name
	if s.prefix != "" {
		key = s.prefix + "/" + name
	}

	// PutObject needs a seekable body to sign the payload
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("upload to S3: %w", err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

func (s *S3FileStore) key(location string) (string, error) {
	key, ok := strings.CutPrefix(location, "s3://"+s.bucket+"/")
	if !ok {
		return "", fmt.Errorf("location %q is not in bucket %s", location, s.bucket)
	}
	return key, nil
}

func (s *S3FileStore) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	key, err := s.key(location)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("download from S3: %w", err)
	}
	return out.Body, nil
}

// Remove deletes the object. S3 reports success for keys that do not exist.
func (s *S3FileStore) Remove(ctx context.Context, location string) error {
	key, err := s.key(location)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete from S3: %w", err)
	}
	return nil
}
