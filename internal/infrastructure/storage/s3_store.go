package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"DocketWatch/internal/dedup"
	"DocketWatch/internal/ports"
)

const defaultPutAttempts = 5

// ObjectAPI is the subset of the S3 client the store needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config describes where the snapshot object lives.
type S3Config struct {
	Bucket    string
	Key       string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Store keeps the seen set in a single JSON Lines object and updates it
// with conditional writes.
type S3Store struct {
	client   ObjectAPI
	bucket   string
	key      string
	attempts int
	logger   *slog.Logger
}

var _ ports.SeenStore = (*S3Store)(nil)

// NewS3Client loads AWS configuration, preferring explicit credentials when
// both keys are set.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewS3Store binds the store to one object.
func NewS3Store(client ObjectAPI, bucket, key string, logger *slog.Logger) *S3Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Store{
		client:   client,
		bucket:   bucket,
		key:      key,
		attempts: defaultPutAttempts,
		logger:   logger.With("component", "seenstore.s3", "bucket", bucket, "key", key),
	}
}

// Load fetches the object. A missing object is an empty set.
func (s *S3Store) Load(ctx context.Context) (dedup.SeenSet, error) {
	set, _, err := s.get(ctx)
	return set, err
}

// Save reads the current object, merges next into it and writes it back only
// if nobody else wrote in between, retrying on conflicts.
func (s *S3Store) Save(ctx context.Context, next dedup.SeenSet) error {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		current, etag, err := s.get(ctx)
		if err != nil {
			return err
		}
		merged := current.Union(next)

		var buf bytes.Buffer
		if err := merged.Encode(&buf); err != nil {
			return fmt.Errorf("encode seen set: %w", err)
		}

		in := &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(s.key),
			Body:        bytes.NewReader(buf.Bytes()),
			ContentType: aws.String("application/x-ndjson"),
		}
		if etag != "" {
			in.IfMatch = aws.String(etag)
		} else {
			in.IfNoneMatch = aws.String("*")
		}

		_, err = s.client.PutObject(ctx, in)
		if err == nil {
			s.logger.Debug("seen set saved", "keys", merged.Len(), "attempt", attempt)
			return nil
		}
		if !isWriteConflict(err) {
			return fmt.Errorf("put seen set: %w", err)
		}
		lastErr = err
		s.logger.Info("seen set changed concurrently, retrying", "attempt", attempt)
	}
	return fmt.Errorf("put seen set: gave up after %d attempts: %w", s.attempts, lastErr)
}

func (s *S3Store) get(ctx context.Context) (dedup.SeenSet, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return dedup.NewSeenSet(), "", nil
		}
		return dedup.SeenSet{}, "", fmt.Errorf("get seen set: %w", err)
	}
	defer out.Body.Close()

	set, err := dedup.Decode(out.Body)
	if err != nil {
		return dedup.SeenSet{}, "", fmt.Errorf("decode s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return set, aws.ToString(out.ETag), nil
}

func isWriteConflict(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}
