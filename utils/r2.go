// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"habit-pact/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the slice of the S3 API the R2 client needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Client uploads objects to a Cloudflare R2 bucket and hands back public URLs.
type R2Client struct {
	api        ObjectPutter
	bucket     string
	cdnBaseURL string
}

func NewR2Client(ctx context.Context, cfg config.R2Config) (*R2Client, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	cdn := cfg.CDNBaseURL
	if cdn == "" {
		cdn = endpoint + "/" + cfg.Bucket
	}
	return NewR2ClientWithAPI(api, cfg.Bucket, cdn), nil
}

// NewR2ClientWithAPI builds a client over any PutObject implementation.
func NewR2ClientWithAPI(api ObjectPutter, bucket, cdnBaseURL string) *R2Client {
	return &R2Client{api: api, bucket: bucket, cdnBaseURL: strings.TrimRight(cdnBaseURL, "/")}
}

// Upload stores body under key and returns the public CDN URL.
func (c *R2Client) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(c.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=300"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to R2: %w", key, err)
	}
	return fmt.Sprintf("%s/%s", c.cdnBaseURL, key), nil
}
