package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 stores blobs in a bucket fronted by a public base URL.
type S3 struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// S3Options carries the credentials and bucket addressing for NewS3.
type S3Options struct {
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	// BaseURL is the public URL prefix objects are served from, typically the
	// bucket website endpoint or a CDN in front of it.
	BaseURL string
}

// NewS3 builds an S3-backed store from static credentials.
func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	if opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, errors.New("s3 credentials are required")
	}

	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, err
	}

	return &S3{
		client:  s3.NewFromConfig(cfg),
		bucket:  opts.Bucket,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}, nil
}

// Put uploads content under dir/<unique name>.
func (s *S3) Put(ctx context.Context, dir, filename string, content io.Reader) (string, error) {
	relative := path.Join(dir, uniqueName(filename))

	contentType := mime.TypeByExtension(path.Ext(relative))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(relative),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return relative, nil
}

// Delete removes an object. S3 delete is idempotent, so a missing key is a
// success without extra handling.
func (s *S3) Delete(ctx context.Context, p string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(p),
	})
	return err
}

// Exists reports whether the object is present.
func (s *S3) Exists(ctx context.Context, p string) bool {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(p),
	})
	return err == nil
}

// Open streams the object content.
func (s *S3) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(p),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// URL maps an object key to the public base URL.
func (s *S3) URL(p string) string {
	if p == "" {
		return ""
	}
	return s.baseURL + "/" + strings.TrimLeft(p, "/")
}
