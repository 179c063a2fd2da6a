package storage

import (
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"gorm.io/gorm"
)

type StorageType uint8

const (
	StorageTypeFile  StorageType = 0
	StorageTypeS3    StorageType = 1
	StorageTypeMinio StorageType = 2
)

// Top level folders for uploaded media
const (
	LocationVisitPhotos = "visit_photos"
	LocationItemPhotos  = "item_photos"
	LocationStickers    = "stickers"
	LocationCafes       = "cafes"
)

type Bucket struct {
	ID            uint64      `gorm:"primaryKey" json:"id"`
	CreatedAt     int         `json:"-"`
	UpdatedAt     int         `json:"-"`
	Name          string      `gorm:"type:varchar(200)" json:"name"`
	StorageType   StorageType `json:"storage_type"`
	Path          string      `json:"path"`     // Path on a drive or a prefix in a S3 bucket
	Endpoint      string      `json:"endpoint"` // S3 compatible endpoint, e.g. "minio:9000"
	Region        string      `gorm:"type:varchar(50)" json:"region"`
	UseSSL        bool        `json:"use_ssl"`
	SSEEncryption string      `gorm:"type:varchar(20)" json:"sse_encryption"`
	AuthDetails   string      `json:"-"` // "key:secret"
	S3Key         string      `gorm:"-" json:"s3_key,omitempty"`
	S3Secret      string      `gorm:"-" json:"s3_secret,omitempty"`
}

func (b *Bucket) Create(conn *gorm.DB) error {
	if err := conn.Create(b).Error; err != nil {
		return err
	}
	if b.StorageType == StorageTypeFile {
		// Pre-create locations on disk
		for _, location := range []string{LocationVisitPhotos, LocationItemPhotos, LocationStickers, LocationCafes} {
			if err := os.MkdirAll(b.Path+"/"+location, 0777); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Bucket) IsRemote() bool {
	return b.StorageType == StorageTypeS3 || b.StorageType == StorageTypeMinio
}

// SetCredentials stores the key and secret posted by the client, if any
func (b *Bucket) SetCredentials() {
	if b.S3Key != "" || b.S3Secret != "" {
		b.AuthDetails = b.S3Key + ":" + b.S3Secret
	}
}

func (b *Bucket) Credentials() (key, secret string) {
	key, secret, _ = strings.Cut(b.AuthDetails, ":")
	return
}

// GetRemotePath prefixes the object key with the bucket path, if set
func (b *Bucket) GetRemotePath(path string) string {
	prefix := strings.Trim(b.Path, "/")
	if prefix == "" {
		return path
	}
	return prefix + "/" + path
}

func (b *Bucket) CreateSVC() *s3.S3 {
	key, secret := b.Credentials()
	cfg := aws.NewConfig().
		WithRegion(b.Region).
		WithCredentials(credentials.NewStaticCredentials(key, secret, ""))
	if b.Endpoint != "" {
		cfg = cfg.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	return s3.New(session.Must(session.NewSession(cfg)))
}
