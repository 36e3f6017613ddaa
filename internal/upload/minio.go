package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gopkg.in/yaml.v3"
)

const (
	minioDefaultRegion = "us-east-1"
	bucketCheckTimeout = 10 * time.Second
)

// MinioOptions is the upload configuration understood by the minio provider
type MinioOptions struct {
	Endpoint  string `yaml:"endpoint"` // host:port, or a URL whose scheme selects TLS
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
	Secure    *bool  `yaml:"secure"` // defaults to true unless the endpoint says http://
}

// decodeMinioOptions rejects unknown keys so a misspelt option fails at startup
func decodeMinioOptions(config map[string]any) (*MinioOptions, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("minio: encoding options: %w", err)
	}

	opts := &MinioOptions{Region: minioDefaultRegion}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("minio: invalid options: %w", err)
	}
	return opts, nil
}

func (o *MinioOptions) validate() error {
	required := []struct{ key, value string }{
		{"endpoint", o.Endpoint},
		{"access_key", o.AccessKey},
		{"secret_key", o.SecretKey},
		{"bucket", o.Bucket},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("minio: %s is required", r.key)
		}
	}
	return nil
}

// MinioProvider archives run output to a MinIO or S3 bucket
type MinioProvider struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewMinioProvider() *MinioProvider {
	return &MinioProvider{}
}

func (m *MinioProvider) Name() string {
	return "minio"
}

// Configure creates the client and checks that the bucket exists
func (m *MinioProvider) Configure(config map[string]any) error {
	opts, err := decodeMinioOptions(config)
	if err != nil {
		return err
	}
	if err := opts.validate(); err != nil {
		return err
	}

	secure := true
	if opts.Secure != nil {
		secure = *opts.Secure
	}
	endpoint, secure, err := parseEndpoint(opts.Endpoint, secure)
	if err != nil {
		return err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: secure,
		Region: opts.Region,
	})
	if err != nil {
		return fmt.Errorf("minio: failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), bucketCheckTimeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return fmt.Errorf("minio: failed to check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("minio: bucket %s does not exist", opts.Bucket)
	}

	m.client = client
	m.bucket = opts.Bucket
	m.prefix = opts.Prefix
	return nil
}

// Upload streams reader to the object for remotePath. Readers that know
// their length (strings.Reader, bytes.Reader) are sent in a single PUT.
func (m *MinioProvider) Upload(ctx context.Context, reader io.Reader, remotePath string) error {
	if m.client == nil {
		return fmt.Errorf("minio: provider not configured")
	}

	size := int64(-1)
	if sized, ok := reader.(interface{ Len() int }); ok {
		size = int64(sized.Len())
	}

	objectName := m.objectName(remotePath)
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return fmt.Errorf("minio: failed to upload to %s: %w", objectName, err)
	}
	return nil
}

// Location returns the bucket-qualified object name for remotePath
func (m *MinioProvider) Location(remotePath string) string {
	return path.Join(m.bucket, m.objectName(remotePath))
}

func (m *MinioProvider) objectName(remotePath string) string {
	if m.prefix == "" {
		return remotePath
	}
	return path.Join(m.prefix, remotePath)
}

// parseEndpoint strips an http:// or https:// scheme from endpoint. An explicit
// scheme decides whether TLS is used; otherwise secure is kept.
func parseEndpoint(endpoint string, secure bool) (string, bool, error) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint, secure = strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		endpoint, secure = strings.TrimPrefix(endpoint, "http://"), false
	}

	endpoint = strings.TrimSuffix(endpoint, "/")
	if endpoint == "" {
		return "", false, fmt.Errorf("minio: invalid endpoint URL")
	}
	return endpoint, secure, nil
}
