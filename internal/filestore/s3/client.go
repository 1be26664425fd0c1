// Package s3 provides a bucket.Client for AWS S3 and S3-compatible
// services such as DigitalOcean Spaces, built on aws-sdk-go-v2.
//
// Usage:
//
//	cfg := filestore.SpacesConfig(accessKey, secretKey, "media", "nyc3")
//	client, err := s3.New(ctx, cfg)
//	if err != nil { ... }
//	store := bucket.New(client)
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/koustreak/objstore/internal/errs"
	"github.com/koustreak/objstore/internal/filestore"
)

// api is the subset of *awss3.Client used by Client.
type api interface {
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

// Client is an S3 implementation of bucket.Client.
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	api    api
	bucket string
	name   string
}

// New builds an S3 client for cfg.Bucket. Static credentials are used
// when cfg.AccessKey is set; otherwise the default AWS chain applies
// (environment, shared config, instance role). No request is made.
func New(ctx context.Context, cfg *filestore.Config) (*Client, error) {
	name := string(cfg.Provider)
	if name == "" {
		name = string(filestore.ProviderS3)
	}
	if cfg.Bucket == "" {
		return nil, errs.New(errs.ErrKindInvalidConfig, fmt.Sprintf("%s bucket is required", name))
	}
	if cfg.Region == "" {
		return nil, errs.New(errs.ErrKindInvalidConfig, fmt.Sprintf("%s region is required", name))
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidConfig, "failed to load aws config", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Third-party endpoints do not all accept the default CRC checksums
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
	})

	return newWithAPI(client, cfg.Bucket, name), nil
}

func newWithAPI(a api, bucket, name string) *Client {
	return &Client{api: a, bucket: bucket, name: name}
}

// --- bucket.Client implementation ---

// GetObject downloads the object at key.
func (c *Client) GetObject(ctx context.Context, key string) ([]byte, error) {
	out, err := c.api.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapError(err, "failed to get object")
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, mapError(err, "failed to read object")
	}
	return data, nil
}

// PutObject uploads data as a single object at key.
func (c *Client) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := c.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return mapError(err, "failed to put object")
	}
	return nil
}

// DeleteObject removes the object at key.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return mapError(err, "failed to delete object")
	}
	return nil
}

// String returns "<provider>@<bucket>", e.g. "spaces@media".
func (c *Client) String() string {
	return c.name + "@" + c.bucket
}
