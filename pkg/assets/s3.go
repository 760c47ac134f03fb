package assets

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/drawbridge-dev/drawbridge/pkg/protocol"
)

// S3API is the slice of the S3 client the store uses. *s3.Client
// satisfies it; tests substitute a fake.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 is a Store backed by an S3 bucket with the same layout as Dir:
//
//	<prefix>fonts/<name>
//	<prefix>images/<id>
//	<prefix>streams/<id>
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	store := assets.NewS3(s3.NewFromConfig(cfg), "my-bucket", "scenes/")
type S3 struct {
	client S3API
	bucket string
	prefix string
}

// NewS3 creates an S3-backed asset store.
//
// Parameters:
//   - client: AWS S3 client from aws-sdk-go-v2
//   - bucket: S3 bucket name
//   - prefix: key prefix for all assets (e.g. "scenes/")
func NewS3(client S3API, bucket, prefix string) *S3 {
	return &S3{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Font implements Store.
func (s *S3) Font(ctx context.Context, name string) ([]byte, error) {
	return s.get(ctx, path.Join("fonts", name))
}

// Image implements Store.
func (s *S3) Image(ctx context.Context, id string) (Image, error) {
	return s.getImage(ctx, path.Join("images", id))
}

// Stream implements Store.
func (s *S3) Stream(ctx context.Context, id string) (Image, error) {
	return s.getImage(ctx, path.Join("streams", id))
}

func (s *S3) getImage(ctx context.Context, key string) (Image, error) {
	data, err := s.get(ctx, key)
	if err != nil {
		return Image{}, err
	}
	ext := strings.TrimPrefix(path.Ext(key), ".")
	return Image{
		Format: protocol.ParseImageFormat(ext),
		Data:   data,
	}, nil
}

func (s *S3) get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
