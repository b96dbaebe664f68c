package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/ridwanfathin/nfe-ingestion-service/internal/domain"
)

const xmlContentType = "application/xml"

// S3Config holds configuration for the S3 blob store
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Region          string
	Prefix          string
	ForcePathStyle  bool
	// HTTPClient overrides the SDK default client.
	HTTPClient *http.Client
}

// S3BlobStore keeps documents in an S3-compatible bucket under Prefix
type S3BlobStore struct {
	client *s3.S3
	bucket string
	prefix string
}

// NewS3BlobStore creates an S3 blob store. Static credentials are used when
// given, otherwise the SDK default chain applies.
func NewS3BlobStore(cfg S3Config) (*S3BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKeyID != "" || cfg.AccessKeySecret != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.AccessKeySecret, "")
	}
	if cfg.HTTPClient != nil {
		awsCfg.HTTPClient = cfg.HTTPClient
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return &S3BlobStore{
		client: s3.New(sess),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (s *S3BlobStore) key(id uuid.UUID) string {
	return s.prefix + blobName(id)
}

// Put uploads the document
func (s *S3BlobStore) Put(ctx context.Context, id uuid.UUID, data []byte) error {
	key := s.key(id)
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(xmlContentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return &StorageError{Op: "put_blob", Key: key, Err: mapS3Error(err)}
	}
	return nil
}

// Get downloads the document
func (s *S3BlobStore) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	key := s.key(id)
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &StorageError{Op: "get_blob", Key: key, Err: mapS3Error(err)}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &StorageError{Op: "get_blob", Key: key, Err: err}
	}
	return data, nil
}

// Delete removes the document. S3 treats missing keys as deleted.
func (s *S3BlobStore) Delete(ctx context.Context, id uuid.UUID) error {
	key := s.key(id)
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return &StorageError{Op: "delete_blob", Key: key, Err: mapS3Error(err)}
	}
	return nil
}

// List pages through every object under the prefix
func (s *S3BlobStore) List(ctx context.Context, fn func(id uuid.UUID) error) error {
	var cbErr error
	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.StringValue(obj.Key), s.prefix)
			if strings.Contains(name, "/") {
				continue
			}
			id, ok := parseBlobName(name)
			if !ok {
				continue
			}
			if cbErr = fn(id); cbErr != nil {
				return false
			}
		}
		return true
	})
	if cbErr != nil {
		return cbErr
	}
	if err != nil {
		return &StorageError{Op: "list_blobs", Err: mapS3Error(err)}
	}
	return nil
}

// Ping checks that the bucket is reachable
func (s *S3BlobStore) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return &StorageError{Op: "ping", Err: mapS3Error(err)}
	}
	return nil
}

func mapS3Error(err error) error {
	var aerr awserr.RequestFailure
	if errors.As(err, &aerr) && aerr.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, aerr.Code())
	}
	var codeErr awserr.Error
	if errors.As(err, &codeErr) {
		switch codeErr.Code() {
		case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
			return fmt.Errorf("%w: %s", domain.ErrNotFound, codeErr.Code())
		case request.CanceledErrorCode:
			if orig := codeErr.OrigErr(); orig != nil {
				return orig
			}
		}
	}
	return err
}
