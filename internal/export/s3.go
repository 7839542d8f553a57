// ABOUTME: Uploads rendered WAV mixes to S3-compatible object storage
// ABOUTME: Static credentials with optional custom endpoint for R2, MinIO and similar
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config describes the upload target
type S3Config struct {
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
}

// IsConfigured reports whether enough is set to attempt an upload
func (c S3Config) IsConfigured() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// WithEnv fills unset fields from CHORUS_S3_* environment variables
func (c S3Config) WithEnv() S3Config {
	c.Endpoint = getEnv(c.Endpoint, "CHORUS_S3_ENDPOINT")
	c.Bucket = getEnv(c.Bucket, "CHORUS_S3_BUCKET")
	c.AccessKeyID = getEnv(c.AccessKeyID, "CHORUS_S3_ACCESS_KEY_ID")
	c.SecretAccessKey = getEnv(c.SecretAccessKey, "CHORUS_S3_SECRET_ACCESS_KEY")
	c.Region = getEnv(c.Region, "CHORUS_S3_REGION")
	return c
}

func getEnv(value, key string) string {
	if value != "" {
		return value
	}
	return os.Getenv(key)
}

// newClient creates an S3 client with the given configuration
func newClient(cfg S3Config) *s3.Client {
	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKeyID,
		cfg.SecretAccessKey,
		"",
	)

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	options := []func(*s3.Options){
		func(o *s3.Options) {
			o.Credentials = creds
			o.Region = region
		},
	}

	if cfg.Endpoint != "" {
		options = append(options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return s3.New(s3.Options{}, options...)
}

// Upload stores wav under key
func Upload(ctx context.Context, cfg S3Config, key string, wav []byte) error {
	if !cfg.IsConfigured() {
		return errors.New("S3 is not configured")
	}
	if len(wav) == 0 {
		return errors.New("nothing to upload")
	}

	client := newClient(cfg)

	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(wav),
		ContentLength: aws.Int64(int64(len(wav))),
		ContentType:   aws.String("audio/wav"),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	log.Printf("Uploaded %d bytes to s3://%s/%s", len(wav), cfg.Bucket, key)
	return nil
}

// ObjectKey returns renders/<slug>-<id>.wav for a mix name and render id
func ObjectKey(name, id string) string {
	slug := slugify(name)
	if slug == "" {
		slug = "mix"
	}
	return fmt.Sprintf("renders/%s-%s.wav", slug, id)
}

// slugify lowercases name and joins runs of letters and digits with dashes
func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
