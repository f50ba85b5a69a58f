package output

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Sink stores encoded frames under a relative, slash-separated name.
type Sink interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	// Location describes where name ends up, for logs and manifests.
	Location(name string) string
}

// DirSink writes frames below a local directory.
type DirSink struct {
	Dir string
}

func (d DirSink) Put(_ context.Context, name string, data []byte, _ string) error {
	p := d.Location(name)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("output: mkdir for %s: %w", p, err)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return fmt.Errorf("output: write %s: %w", p, err)
	}
	return nil
}

func (d DirSink) Location(name string) string {
	return filepath.Join(d.Dir, filepath.FromSlash(name))
}

// S3Sink uploads frames to a bucket under Prefix.
type S3Sink struct {
	Bucket string
	Prefix string
	Client s3iface.S3API
}

// NewS3Sink builds a sink using the default AWS credential chain.
func NewS3Sink(region, bucket, prefix string) (*S3Sink, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("output: aws session: %w", err)
	}
	return &S3Sink{Bucket: bucket, Prefix: prefix, Client: s3.New(sess)}, nil
}

func (s *S3Sink) Put(ctx context.Context, name string, data []byte, contentType string) error {
	key := path.Join(s.Prefix, name)
	_, err := s.Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("output: upload s3://%s/%s: %w", s.Bucket, key, err)
	}
	return nil
}

func (s *S3Sink) Location(name string) string {
	return "s3://" + s.Bucket + "/" + path.Join(s.Prefix, name)
}
