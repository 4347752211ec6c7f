package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Provider represents the S3-compatible storage provider
type Provider string

const (
	ProviderAWS    Provider = "aws"
	ProviderWasabi Provider = "wasabi"
)

// WasabiEndpoints maps regions to Wasabi endpoints
var WasabiEndpoints = map[string]string{
	"us-east-1":      "s3.us-east-1.wasabisys.com",
	"us-east-2":      "s3.us-east-2.wasabisys.com",
	"us-west-1":      "s3.us-west-1.wasabisys.com",
	"eu-central-1":   "s3.eu-central-1.wasabisys.com",
	"eu-west-1":      "s3.eu-west-1.wasabisys.com",
	"ap-northeast-1": "s3.ap-northeast-1.wasabisys.com",
	"ap-southeast-1": "s3.ap-southeast-1.wasabisys.com",
	"ap-southeast-2": "s3.ap-southeast-2.wasabisys.com",
}

// ClientConfig holds configuration for S3-compatible storage
type ClientConfig struct {
	Provider        Provider
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	PublicBaseURL   string // base URL documents are served from, e.g. a CDN

	// Wasabi-specific endpoint override
	WasabiEndpoint string
}

// UploadResult identifies a stored object. Key is kept so the object can be
// deleted when it is replaced.
type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Uploader stores candidate resumes and company avatars in an S3 bucket.
type Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
	region  string
}

func NewUploader(ctx context.Context, cfg ClientConfig) (*Uploader, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	switch cfg.Provider {
	case ProviderWasabi:
		endpoint := cfg.WasabiEndpoint
		if endpoint == "" {
			if e, ok := WasabiEndpoints[cfg.Region]; ok {
				endpoint = e
			} else {
				return nil, fmt.Errorf("unknown Wasabi region: %s", cfg.Region)
			}
		}
		// Wasabi requires custom endpoint and path-style addressing
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String("https://" + endpoint)
			o.UsePathStyle = true
		})
	default:
		client = s3.NewFromConfig(awsCfg)
	}

	return &Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: cfg.PublicBaseURL,
		region:  cfg.Region,
	}, nil
}

// Upload stores the object under a random key within the given folder and
// returns its key and public URL.
func (u *Uploader) Upload(ctx context.Context, folder, ext, contentType string, body io.Reader) (*UploadResult, error) {
	key := path.Join(folder, uuid.NewString()+ext)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	return &UploadResult{Key: key, URL: u.objectURL(key)}, nil
}

// Delete removes a stored object. Missing objects are not an error.
func (u *Uploader) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (u *Uploader) objectURL(key string) string {
	if u.baseURL != "" {
		return fmt.Sprintf("%s/%s", u.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}
