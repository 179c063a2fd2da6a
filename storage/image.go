package storage

import (
	"bytes"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/annalapradeBU/cafe-passport/config"
	"github.com/annalapradeBU/cafe-passport/logger"
	"github.com/annalapradeBU/cafe-passport/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SavedImage struct {
	Path  string
	Thumb string // empty when the upload could not be decoded
	Size  int64
}

// Paths returns all stored objects, for cleanup
func (i SavedImage) Paths() []string {
	if i.Thumb == "" {
		return []string{i.Path}
	}
	return []string{i.Path, i.Thumb}
}

// SaveImage stores the upload under location with a random name. A JPEG
// thumbnail is stored next to it when the upload is a decodable image.
func SaveImage(s StorageAPI, location, fileName string, reader io.Reader) (result SavedImage, err error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return
	}
	name := uuid.NewString()
	result.Path = location + "/" + name + imageExt(fileName)
	if result.Size, err = s.Save(result.Path, bytes.NewReader(data)); err != nil {
		return
	}
	thumb := bytes.Buffer{}
	if _, err := utils.CreateThumb(config.THUMB_SIZE, bytes.NewReader(data), &thumb); err != nil {
		logger.Log.Debug("no thumbnail", zap.String("path", result.Path), zap.Error(err))
		return result, nil
	}
	thumbPath := ThumbPath(result.Path)
	if _, err = s.Save(thumbPath, &thumb); err != nil {
		RemoveAll(s, result.Path)
		return SavedImage{}, err
	}
	result.Thumb = thumbPath
	return
}

// ThumbPath is where SaveImage puts the thumbnail of path
func ThumbPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_thumb.jpg"
}

// RemoveAll deletes objects on a best effort basis, logging failures
func RemoveAll(s StorageAPI, paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := s.Delete(path); err != nil {
			logger.Log.Warn("cannot delete stored object", zap.String("path", path), zap.Error(err))
		}
	}
}

func imageExt(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || len(ext) > 6 {
		return ".bin"
	}
	return ext
}

func contentType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}
