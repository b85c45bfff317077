// Package s3slot keeps slot values as JSON objects in an S3 bucket.
package s3slot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mcdev12/matchbook/go/internal/storage"
)

// Config holds s3 driver settings
type Config struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
}

func init() {
	storage.MustRegister("s3", storage.DriverFunc(func(ctx context.Context, settings storage.Settings) (storage.Slot, error) {
		cfg := Config{Prefix: "matchbook/"}
		if err := settings.Decode(&cfg); err != nil {
			return nil, err
		}
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("bucket is required")
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return New(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
	}))
}

// API is the subset of the S3 client the slot calls
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Slot implements storage.Slot with one object per key
type Slot struct {
	client API
	bucket string
	prefix string
}

func New(client API, bucket, prefix string) *Slot {
	return &Slot{client: client, bucket: bucket, prefix: prefix}
}

func (s *Slot) objectKey(key string) *string {
	return aws.String(s.prefix + key + ".json")
}

func (s *Slot) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    s.objectKey(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object %s: %w", aws.ToString(s.objectKey(key)), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}

func (s *Slot) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         s.objectKey(key),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", aws.ToString(s.objectKey(key)), err)
	}
	return nil
}

func (s *Slot) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    s.objectKey(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", aws.ToString(s.objectKey(key)), err)
	}
	return nil
}

func (s *Slot) Close() error { return nil }
