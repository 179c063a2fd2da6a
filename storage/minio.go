package storage

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient is the subset of *minio.Client used here
type MinioClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

type MinioStorage struct {
	Storage
	client MinioClient
}

func NewMinioStorage(bucket *Bucket) (StorageAPI, error) {
	key, secret := bucket.Credentials()
	client, err := minio.New(bucket.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(key, secret, ""),
		Secure: bucket.UseSSL,
		Region: bucket.Region,
	})
	if err != nil {
		return nil, err
	}
	return NewMinioStorageWithClient(bucket, client), nil
}

func NewMinioStorageWithClient(bucket *Bucket, client MinioClient) StorageAPI {
	return &MinioStorage{
		Storage: Storage{
			Bucket: *bucket,
		},
		client: client,
	}
}

func (s *MinioStorage) Save(path string, reader io.Reader) (int64, error) {
	info, err := s.client.PutObject(context.Background(), s.Bucket.Name, s.Bucket.GetRemotePath(path), reader, -1,
		minio.PutObjectOptions{ContentType: contentType(path)})
	return info.Size, err
}

func (s *MinioStorage) Load(path string, writer io.Writer) (int64, error) {
	object, err := s.client.GetObject(context.Background(), s.Bucket.Name, s.Bucket.GetRemotePath(path), minio.GetObjectOptions{})
	if err != nil {
		return 0, err
	}
	defer object.Close()
	return io.Copy(writer, object)
}

func (s *MinioStorage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	u, err := s.client.PresignedGetObject(request.Context(), s.Bucket.Name, s.Bucket.GetRemotePath(path), presignViewURLFor, nil)
	if err != nil {
		http.Error(writer, "cannot presign", http.StatusInternalServerError)
		return
	}
	http.Redirect(writer, request, u.String(), http.StatusFound)
}

func (s *MinioStorage) Delete(path string) error {
	return s.client.RemoveObject(context.Background(), s.Bucket.Name, s.Bucket.GetRemotePath(path), minio.RemoveObjectOptions{})
}
