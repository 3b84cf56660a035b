package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DocumentService stores transfer documents (intake photos, condition
// reports) in object storage, keyed by transfer id.
type DocumentService interface {
	UploadDocument(ctx context.Context, transferID uuid.UUID, name, contentType string, reader io.Reader, size int64) (string, error)
	GetPresignedURL(ctx context.Context, transferID uuid.UUID, name string, expiry time.Duration) (string, error)
	ListDocuments(ctx context.Context, transferID uuid.UUID) ([]string, error)
	DeleteDocument(ctx context.Context, transferID uuid.UUID, name string) error
	EnsureBucketExists(ctx context.Context) error
}

type minioDocumentService struct {
	client *minio.Client
	bucket string
}

func NewMinioDocumentService(endpoint, accessKey, secretKey, bucket string, useSSL bool) (DocumentService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioDocumentService{client: client, bucket: bucket}, nil
}

func objectName(transferID uuid.UUID, name string) string {
	return fmt.Sprintf("%s/%s", transferID.String(), name)
}

func (m *minioDocumentService) UploadDocument(ctx context.Context, transferID uuid.UUID, name, contentType string, reader io.Reader, size int64) (string, error) {
	object := objectName(transferID, name)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.PutObject(ctx, m.bucket, object, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return object, nil
}

func (m *minioDocumentService) GetPresignedURL(ctx context.Context, transferID uuid.UUID, name string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucket, objectName(transferID, name), expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioDocumentService) ListDocuments(ctx context.Context, transferID uuid.UUID) ([]string, error) {
	var names []string
	prefix := transferID.String() + "/"
	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return nil, object.Err
		}
		names = append(names, object.Key[len(prefix):])
	}
	return names, nil
}

func (m *minioDocumentService) DeleteDocument(ctx context.Context, transferID uuid.UUID, name string) error {
	return m.client.RemoveObject(ctx, m.bucket, objectName(transferID, name), minio.RemoveObjectOptions{})
}

func (m *minioDocumentService) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}
