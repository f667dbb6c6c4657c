package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rpupo63/portfolio-backend/catalog"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const documentVersion = 1

// S3API is the subset of the S3 client the document backend needs
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Document stores the whole catalog as a single JSON object
type S3Document struct {
	client S3API
	bucket string
	key    string
	now    func() time.Time
}

type catalogDocument struct {
	Version   int            `json:"version"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Catalog   models.Catalog `json:"catalog"`
}

func NewS3Document(client S3API, bucket, key string) *S3Document {
	if key == "" {
		key = "catalog.json"
	}
	return &S3Document{client: client, bucket: bucket, key: key, now: time.Now}
}

// Load reads the catalog document. A missing object is an empty catalog.
func (s *S3Document) Load(ctx context.Context) (models.Catalog, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return models.Catalog{}, nil
		}
		return models.Catalog{}, errs.NewDatabaseError("get", "catalog document", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return models.Catalog{}, errs.NewDatabaseError("read", "catalog document", err)
	}

	var doc catalogDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return models.Catalog{}, errs.NewDatabaseError("decode", "catalog document", err)
	}
	return doc.Catalog, nil
}

// Commit rewrites the whole document from the post-change state
func (s *S3Document) Commit(ctx context.Context, c catalog.Commit) error {
	body, err := json.Marshal(catalogDocument{
		Version:   documentVersion,
		UpdatedAt: s.now().UTC(),
		Catalog:   c.State,
	})
	if err != nil {
		return errs.NewDatabaseError("encode", "catalog document", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errs.NewTransactionFailedError(c.Operation, err)
	}
	return nil
}
