// Package testutil holds fixtures shared by the package tests
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/annalapradeBU/cafe-passport/db"
	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated SQLite database living in a temp directory
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, models.Migrate(conn))
	require.NoError(t, storage.Migrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return conn
}

// NewDiskStorage returns a disk bucket in a temp directory
func NewDiskStorage(t *testing.T) storage.StorageAPI {
	t.Helper()
	return storage.NewDiskStorage(&storage.Bucket{ID: 1, Name: "test", StorageType: storage.StorageTypeFile, Path: t.TempDir()})
}

// CountFiles returns the number of stored objects under location
func CountFiles(t *testing.T, s storage.StorageAPI, location string) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(s.GetBucket().Path, location, "*"))
	require.NoError(t, err)
	return len(matches)
}

func PNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{G: 200, A: 255})
	buf := bytes.Buffer{}
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func CreateProfile(t *testing.T, conn *gorm.DB, email string) models.Profile {
	t.Helper()
	profile, err := models.UserCreate(conn, email, "secret-"+email)
	require.NoError(t, err)
	return profile
}

func CreateCafe(t *testing.T, conn *gorm.DB, name string) models.Cafe {
	t.Helper()
	cafe := models.Cafe{Name: name, Address: "1 Main St", Image: "https://example.com/" + name + ".jpg"}
	require.NoError(t, models.CafeSave(conn, &cafe, nil, ""))
	return cafe
}

func CreateStickerType(t *testing.T, conn *gorm.DB, name string) models.StickerType {
	t.Helper()
	st := models.StickerType{Name: name, Image: storage.LocationStickers + "/" + name + ".png"}
	require.NoError(t, conn.Create(&st).Error)
	return st
}

// Multipart is a form to encode as multipart/form-data
type Multipart struct {
	Values map[string]string
	Files  map[string][]byte // field name to content; the file name is the field name + ".png"
}

func (m Multipart) Encode(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range m.Values {
		require.NoError(t, w.WriteField(k, v))
	}
	for k, content := range m.Files {
		part, err := w.CreateFormFile(k, k+".png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

// Form parses the encoded body back, as a request handler would see it
func (m Multipart) Form(t *testing.T) *multipart.Form {
	t.Helper()
	body, contentType := m.Encode(t)
	req, err := http.NewRequest(http.MethodPost, "/", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm
}
