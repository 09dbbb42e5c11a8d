package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3Storage struct {
	client *s3.Client
	config S3Config
}

type S3Config struct {
	Bucket string
	// Prefix is prepended to every key, so one bucket can hold several asset roots.
	Prefix string
}

func NewS3Storage(ctx context.Context, s S3Config) (Storage, error) {
	var optsFunc []func(*config.LoadOptions) error

	s3EndpointUrl, ok := os.LookupEnv("S3_ENDPOINT_URL")
	if ok {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               s3EndpointUrl,
				HostnameImmutable: true,
			}, nil
		})
		optsFunc = append(optsFunc, config.WithEndpointResolverWithOptions(resolver))
	}

	c, err := config.LoadDefaultConfig(ctx, optsFunc...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	s3Client := s3.NewFromConfig(c, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	s.Prefix = strings.Trim(s.Prefix, "/")

	return &s3Storage{
		client: s3Client,
		config: s,
	}, nil
}

// key maps a caller key under Prefix. URLs returned by Put already carry
// the full object key and are only stripped of their scheme and bucket.
func (s *s3Storage) key(k string) string {
	if full, ok := strings.CutPrefix(k, fmt.Sprintf("s3://%s/", s.config.Bucket)); ok {
		return full
	}
	k = strings.TrimPrefix(k, "/")
	if s.config.Prefix == "" {
		return k
	}
	if k == "" {
		return s.config.Prefix
	}
	return s.config.Prefix + "/" + k
}

func (s *s3Storage) Put(ctx context.Context, key string, data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	key = s.key(key)

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", s.config.Bucket, key), nil
}

func (s *s3Storage) Get(ctx context.Context, url string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(s.key(url)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}
	defer result.Body.Close()

	var buffer bytes.Buffer
	_, err = buffer.ReadFrom(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object: %w", err)
	}

	return buffer.Bytes(), nil
}

func (s *s3Storage) List(ctx context.Context, prefix string) ([]Entry, error) {
	p := strings.TrimSuffix(s.key(prefix), "/")
	if p != "" {
		p += "/"
	}

	var entries []Entry
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.config.Bucket),
		Prefix:    aws.String(p),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list S3 objects: %w", err)
		}
		entries = append(entries, pageEntries(p, page)...)
	}

	return entries, nil
}

// pageEntries turns one delimited listing page under p into direct children.
func pageEntries(p string, page *s3.ListObjectsV2Output) []Entry {
	var entries []Entry
	for _, cp := range page.CommonPrefixes {
		name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), p), "/")
		if name != "" {
			entries = append(entries, Entry{Name: name, Dir: true})
		}
	}
	for _, o := range page.Contents {
		name := strings.TrimPrefix(aws.ToString(o.Key), p)
		if name != "" && !strings.Contains(name, "/") {
			entries = append(entries, Entry{Name: name})
		}
	}
	return entries
}
