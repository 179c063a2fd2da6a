package utils

import (
	"bytes"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Sha512String hashes and encodes in hex the result
func Sha512String(s string) string {
	hash := sha512.New()
	hash.Write([]byte(s))
	return hex.EncodeToString(hash.Sum(nil))
}

func RandSalt(saltSize int) string {
	b := make([]byte, saltSize)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}

type ImageThumbConverted struct {
	ThumbSize int64
	NewX      uint16
	NewY      uint16
	OldX      uint16
	OldY      uint16
}

func CreateThumb(size uint, reader io.Reader, writer io.Writer) (result ImageThumbConverted, err error) {
	image, _, err := image.Decode(reader)
	if err != nil {
		return result, err
	}
	var newBuf bytes.Buffer
	newImage := resize.Thumbnail(size, size, image, resize.Lanczos3)
	if err = jpeg.Encode(&newBuf, newImage, &jpeg.Options{Quality: 90}); err != nil {
		return
	}
	imageRect := newImage.Bounds().Size()
	result.NewX = uint16(imageRect.X)
	result.NewY = uint16(imageRect.Y)

	imageRect = image.Bounds().Size()
	result.OldX = uint16(imageRect.X)
	result.OldY = uint16(imageRect.Y)

	result.ThumbSize, err = io.Copy(writer, &newBuf)
	return
}

var ErrNotANumber = errors.New("value is not a number")

// IsNull reports a JSON null (or an absent value)
func IsNull(raw json.RawMessage) bool {
	v := strings.TrimSpace(string(raw))
	return v == "" || v == "null"
}

// CoerceFloat accepts a JSON number or a string holding one, e.g. 12.5 or "12.5"
func CoerceFloat(raw json.RawMessage) (float64, error) {
	var (
		value any
		f     float64
		err   error
	)
	if err = json.Unmarshal(raw, &value); err != nil {
		return 0, errors.Wrap(ErrNotANumber, err.Error())
	}
	switch v := value.(type) {
	case float64:
		f = v
	case string:
		if f, err = strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return 0, errors.Wrapf(ErrNotANumber, "%q", v)
		}
	default:
		return 0, errors.Wrapf(ErrNotANumber, "%s", string(raw))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Wrapf(ErrNotANumber, "%s", string(raw))
	}
	return f, nil
}

// CoerceID accepts a positive integer given as a JSON number or a string
func CoerceID(raw json.RawMessage) (uint64, error) {
	f, err := CoerceFloat(raw)
	if err != nil {
		return 0, err
	}
	if f < 1 || f != math.Trunc(f) || f > math.MaxInt64 {
		return 0, errors.Wrapf(ErrNotANumber, "bad id %s", string(raw))
	}
	return uint64(f), nil
}
