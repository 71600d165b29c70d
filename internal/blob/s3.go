// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 stores post bodies in a single bucket on S3-compatible object
// storage, configured for path-style access (required by CEPH/Hetzner).
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 builds an S3-backed store with static credentials and path-style
// addressing. prefix, if non-empty, is prepended to every object key.
func NewS3(endpoint, region, accessKey, secretKey, bucket, prefix string) (*S3, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("blob s3: endpoint and credentials are required")
	}

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(strings.TrimRight(endpoint, "/")),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &S3{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Path returns the object key for a title.
func (c *S3) Path(title string) string {
	if c.prefix != "" {
		return c.prefix + "/" + Key(title)
	}
	return Key(title)
}

// Write uploads the object with If-None-Match: * so a concurrent or
// repeated write for the same title fails instead of replacing the
// first writer's content.
func (c *S3) Write(ctx context.Context, title string, data []byte) error {
	key := c.Path(title)

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("text/markdown; charset=utf-8"),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		var apiErr interface{ ErrorCode() string }
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return fmt.Errorf("blob s3 write %s/%s: %w", c.bucket, key, ErrExists)
		}
		return fmt.Errorf("blob s3 write %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// Read downloads the object stored for title.
func (c *S3) Read(ctx context.Context, title string) ([]byte, error) {
	key := c.Path(title)

	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("blob s3 read %s/%s: %w", c.bucket, key, ErrNotFound)
		}
		return nil, fmt.Errorf("blob s3 read %s/%s: %w", c.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("blob s3 read body %s/%s: %w", c.bucket, key, err)
	}
	return data, nil
}
