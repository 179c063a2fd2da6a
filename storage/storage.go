package storage

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/annalapradeBU/cafe-passport/config"
	"github.com/annalapradeBU/cafe-passport/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StorageAPI interface {
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	GetBucket() *Bucket
}

type Storage struct {
	Bucket Bucket
}

func (s *Storage) GetBucket() *Bucket {
	return &s.Bucket
}

var (
	cachedStorage []StorageAPI
	cacheMutex    sync.RWMutex
)

// Init loads all buckets, creating the default disk bucket on first start
func Init(conn *gorm.DB) {
	if err := Migrate(conn); err != nil {
		panic(err)
	}
	var buckets []Bucket
	if err := conn.Find(&buckets).Error; err != nil {
		panic(err)
	}
	if len(buckets) == 0 && config.DEFAULT_BUCKET_DIR != "" {
		bucket := Bucket{Name: "default", StorageType: StorageTypeFile, Path: config.DEFAULT_BUCKET_DIR}
		if err := bucket.Create(conn); err != nil {
			panic(err)
		}
		buckets = append(buckets, bucket)
	}
	logger.Log.Info("storage buckets found", zap.Int("count", len(buckets)))

	loaded := []StorageAPI{}
	for i := range buckets {
		logger.Log.Debug("bucket", zap.Uint64("id", buckets[i].ID), zap.String("name", buckets[i].Name))
		storage, err := NewStorage(&buckets[i])
		if err != nil {
			panic(err)
		}
		loaded = append(loaded, storage)
	}
	cacheMutex.Lock()
	cachedStorage = loaded
	cacheMutex.Unlock()
}

func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(&Bucket{})
}

func NewStorage(bucket *Bucket) (StorageAPI, error) {
	switch bucket.StorageType {
	case StorageTypeFile:
		return NewDiskStorage(bucket), nil
	case StorageTypeS3:
		return NewS3Storage(bucket), nil
	case StorageTypeMinio:
		return NewMinioStorage(bucket)
	}
	return nil, fmt.Errorf("storage type unavailable for bucket %d", bucket.ID)
}

// Use replaces the loaded storages, mostly useful in tests
func Use(storages ...StorageAPI) {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	cachedStorage = storages
}

// GetDefaultStorage prefers a disk bucket, then anything else available
func GetDefaultStorage() StorageAPI {
	cacheMutex.RLock()
	defer cacheMutex.RUnlock()
	if len(cachedStorage) == 0 {
		panic("no storage available")
	}
	for _, s := range cachedStorage {
		if s.GetBucket().StorageType == StorageTypeFile {
			return s
		}
	}
	return cachedStorage[0]
}
