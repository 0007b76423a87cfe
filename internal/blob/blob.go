// Package blob stores member and meeting photos in S3-compatible
// object storage. Filenames are generated server-side so concurrent
// uploads never collide, and size limits are enforced before any bytes
// leave the process.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	// ErrNotConfigured is returned when no credentials were supplied.
	ErrNotConfigured = errors.New("blob storage not configured")
	// ErrFileTooLarge is returned for files over the bucket's size limit.
	// Callers treat it as a client error, unlike store-side failures.
	ErrFileTooLarge = errors.New("file exceeds the size limit")
)

type Bucket string

const (
	BucketMemberPhotos  Bucket = "member-photos"
	BucketMeetingPhotos Bucket = "meeting-photos"
)

// MaxSize is the per-file upload limit for the bucket, checked before
// the store is contacted.
func (b Bucket) MaxSize() int64 {
	if b == BucketMemberPhotos {
		return 5 << 20
	}
	return 10 << 20
}

// Config holds S3-compatible storage configuration.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// Configured reports whether credentials are present. An unconfigured
// store rejects every upload.
func (c Config) Configured() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}

type Store struct {
	cfg    Config
	client s3Client
}

func New(cfg Config) *Store {
	st := &Store{cfg: cfg}
	if cfg.Configured() {
		st.client = newS3Client(cfg)
	}
	return st
}

// NewWithClient builds a Store around an existing client. Tests use
// this to substitute a fake.
func NewWithClient(cfg Config, client s3Client) *Store {
	return &Store{cfg: cfg, client: client}
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// GenerateFilename builds a collision-resistant object key from the
// original filename: unix-millis, a random fragment, and the original
// extension.
func GenerateFilename(original string) string {
	ext := strings.ToLower(path.Ext(original))
	frag := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), frag, ext)
}

// Upload stores one file and returns its public URL. Files over the
// bucket's size limit are rejected without contacting the store.
func (s *Store) Upload(ctx context.Context, bucket Bucket, originalName, contentType string, data []byte) (string, error) {
	if int64(len(data)) > bucket.MaxSize() {
		return "", fmt.Errorf("%s: over the %dMB limit for %s: %w", originalName, bucket.MaxSize()>>20, bucket, ErrFileTooLarge)
	}
	if s.client == nil {
		return "", ErrNotConfigured
	}

	key := GenerateFilename(originalName)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(string(bucket)),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", originalName, err)
	}

	return s.publicURL(bucket, key), nil
}

func (s *Store) publicURL(bucket Bucket, key string) string {
	base := strings.TrimSuffix(s.cfg.Endpoint, "/")
	return fmt.Sprintf("%s/%s/%s", base, bucket, key)
}

// File is one upload candidate in a batch.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Result reports the outcome for one file of a batch: a public URL on
// success, an error otherwise. Failures never fail the batch.
type Result struct {
	Name string
	URL  string
	Err  error
}

// UploadBatch uploads the files concurrently and returns one Result per
// file, in input order.
func (s *Store) UploadBatch(ctx context.Context, bucket Bucket, files []File) []Result {
	results := make([]Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			url, err := s.Upload(ctx, bucket, f.Name, f.ContentType, f.Data)
			results[i] = Result{Name: f.Name, URL: url, Err: err}
			return nil
		})
	}
	g.Wait()

	return results
}
