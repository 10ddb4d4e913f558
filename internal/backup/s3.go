package backup

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store backs files up to an S3 bucket. Keys are prefix + the
// slash-normalized source-relative path. Uploads go through the
// multipart manager so large files stream without buffering whole.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// S3Options configures an S3Store. AccessKey/SecretKey are optional;
// when empty the default AWS credential chain applies.
type S3Options struct {
	Bucket    string
	Prefix    string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3Store creates an S3-backed backup store.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 backup requires s3_bucket to be set")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   opts.Bucket,
		prefix:   opts.Prefix,
	}, nil
}

func (s *S3Store) key(relPath string) string {
	return path.Join(s.prefix, path.Clean(relPath))
}

// Put uploads the content under the derived key. modTime is kept as
// object metadata; S3 has no mtime to preserve.
func (s *S3Store) Put(relPath string, r io.Reader, size int64, modTime time.Time) error {
	_, err := s.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(relPath)),
		Body:   r,
		Metadata: map[string]string{
			"source-mtime": modTime.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("uploading backup to s3: %w", err)
	}
	return nil
}

// Stat heads the object and returns its stored size.
func (s *S3Store) Stat(relPath string) (int64, error) {
	out, err := s.client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(relPath)),
	})
	if err != nil {
		return 0, fmt.Errorf("backup not found in s3: %s: %w", relPath, err)
	}
	return aws.ToInt64(out.ContentLength), nil
}

// Name identifies the backend for logs.
func (s *S3Store) Name() string { return "s3" }
