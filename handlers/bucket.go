package handlers

import (
	"net/http"
	"strings"

	"github.com/annalapradeBU/cafe-passport/db"
	"github.com/annalapradeBU/cafe-passport/logger"
	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

func hasWriteAccess(bucket *storage.Bucket) error {
	s, err := storage.NewStorage(bucket)
	if err != nil {
		return err
	}
	testPath := "tmp/path"
	if _, err = s.Save(testPath, strings.NewReader("some-content")); err != nil {
		logger.Log.Warn("cannot save to bucket", zap.String("bucket", bucket.Name), zap.Error(err))
		return err
	}
	if err = s.Delete(testPath); err != nil {
		logger.Log.Warn("cannot delete from bucket", zap.String("bucket", bucket.Name), zap.Error(err))
		return err
	}
	return nil
}

func cleanupPath(in *storage.Bucket) {
	for strings.Contains(in.Path, "..") {
		in.Path = strings.ReplaceAll(in.Path, "..", "")
	}
	for strings.Contains(in.Path, "//") {
		in.Path = strings.ReplaceAll(in.Path, "//", "/")
	}
}

// BucketSave adds or changes where uploaded images are stored
func BucketSave(c *gin.Context, _ *models.Profile) {
	bucket := storage.Bucket{}
	err := c.ShouldBindWith(&bucket, binding.JSON)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	cleanupPath(&bucket)

	if bucket.Name == "" {
		c.JSON(http.StatusBadRequest, Response{"Empty bucket name"})
		return
	}
	switch bucket.StorageType {
	case storage.StorageTypeFile:
		if bucket.Path == "" {
			c.JSON(http.StatusBadRequest, Response{"Empty bucket path"})
			return
		}
		if bucket.Path[0] != '/' {
			c.JSON(http.StatusBadRequest, Response{"Path must be absolute and start with / (slash)"})
			return
		}
	case storage.StorageTypeS3, storage.StorageTypeMinio:
		if bucket.S3Key == "" || bucket.S3Secret == "" {
			c.JSON(http.StatusBadRequest, Response{"'S3 Key' and 'S3 Secret' must be provided"})
			return
		}
		if bucket.StorageType == storage.StorageTypeMinio && bucket.Endpoint == "" {
			c.JSON(http.StatusBadRequest, Response{"'endpoint' must be provided for MinIO buckets"})
			return
		}
		if bucket.Region == "" {
			bucket.Region = "us-east-1"
		}
		bucket.SetCredentials()
	default:
		c.JSON(http.StatusBadRequest, Response{"'storage_type' must be one of 0 (file), 1 (s3) or 2 (minio)"})
		return
	}
	if err := hasWriteAccess(&bucket); err != nil {
		c.JSON(http.StatusForbidden, Response{"No write access to bucket: " + err.Error()})
		return
	}
	if bucket.ID == 0 {
		err = bucket.Create(db.Instance)
	} else {
		err = db.Instance.Save(&bucket).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	// Reload the buckets, services pick up the new default on their next save
	storage.Init(db.Instance)
	c.JSON(http.StatusOK, OKResponse)
}

func BucketList(c *gin.Context, _ *models.Profile) {
	buckets := []storage.Bucket{}
	result := db.Instance.Find(&buckets)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, buckets)
}
