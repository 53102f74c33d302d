// Package storage uploads finished posters and their tiles to S3 or MinIO.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"

	"github.com/PhantomInTheWire/tileprint/pkg/config"
	"github.com/PhantomInTheWire/tileprint/pkg/errs"
)

// objectAPI is the part of the S3 client the uploader needs.
type objectAPI interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader puts files under a prefix in one bucket.
type Uploader struct {
	client objectAPI
	bucket string
	prefix string
	logger *log.Logger
}

// New builds an uploader for cfg. A non-empty Endpoint selects path-style
// addressing against that endpoint, which is what MinIO expects.
func New(ctx context.Context, cfg config.Upload, logger *log.Logger) (*Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errs.Output("load aws config", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newUploader(client, cfg, logger), nil
}

func newUploader(client objectAPI, cfg config.Upload, logger *log.Logger) *Uploader {
	if logger == nil {
		logger = log.Default()
	}
	return &Uploader{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: logger,
	}
}

// EnsureBucket creates the bucket if it cannot be found.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(u.bucket)})
	if err == nil {
		return nil
	}
	u.logger.Debug("bucket not reachable, creating", "bucket", u.bucket, "err", err)
	if _, err := u.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(u.bucket)}); err != nil {
		return errs.Output("create bucket "+u.bucket, err)
	}
	u.logger.Info("created bucket", "bucket", u.bucket)
	return nil
}

// Key returns the object key a file called name is stored under.
func (u *Uploader) Key(name string) string {
	if u.prefix == "" {
		return name
	}
	return path.Join(u.prefix, name)
}

// UploadFile stores the file at p under the uploader's prefix and returns its key.
func (u *Uploader) UploadFile(ctx context.Context, p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", errs.Output("open "+p, err)
	}
	defer f.Close()

	key := u.Key(filepath.Base(p))
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(filepath.Ext(p)); ct != "" {
		in.ContentType = aws.String(ct)
	}
	if _, err := u.client.PutObject(ctx, in); err != nil {
		return "", errs.Output(fmt.Sprintf("upload s3://%s/%s", u.bucket, key), err)
	}
	u.logger.Info("uploaded", "key", key)
	return key, nil
}

// UploadFiles uploads paths in the order given. A failed file does not stop
// the others; all failures are returned together.
func (u *Uploader) UploadFiles(ctx context.Context, paths []string) ([]string, error) {
	keys := make([]string, 0, len(paths))
	var failed []error
	for _, p := range paths {
		key, err := u.UploadFile(ctx, p)
		if err != nil {
			u.logger.Warn("upload failed", "file", filepath.Base(p), "err", err)
			failed = append(failed, err)
			continue
		}
		keys = append(keys, key)
	}
	return keys, errors.Join(failed...)
}
