package forms

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"strconv"
	"strings"
)

const (
	VisitPhotosPrefix = "photos"
	ItemsPrefix       = "items"
	ItemPhotosPrefix  = "item_photos"

	// Hard limit on TOTAL_FORMS, regardless of the per-set maximum
	absoluteMaxForms = 1000

	msgRequired     = "This field is required."
	msgInvalidID    = "Select a valid choice. That choice is not one of the available choices."
	msgInvalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgPhotosNoItem = "Add the item details before attaching photos."
)

// values wraps a multipart form with formset style key lookups
type values struct {
	form *multipart.Form
}

func (v values) get(key string) string {
	if list := v.form.Value[key]; len(list) > 0 {
		return list[0]
	}
	return ""
}

func (v values) file(key string) *multipart.FileHeader {
	if list := v.form.File[key]; len(list) > 0 && list[0].Size > 0 {
		return list[0]
	}
	return nil
}

// checked follows the usual checkbox semantics
func (v values) checked(key string) bool {
	switch strings.ToLower(strings.TrimSpace(v.get(key))) {
	case "", "0", "false", "off", "no":
		return false
	}
	return true
}

// totalForms returns the declared entry count of a set. A missing count
// means an empty set.
func (v values) totalForms(prefix string) (int, error) {
	raw := strings.TrimSpace(v.get(prefix + "-TOTAL_FORMS"))
	if raw == "" {
		return 0, nil
	}
	total, err := strconv.Atoi(raw)
	if err != nil || total < 0 {
		return 0, errors.New("ManagementForm data is missing or has been tampered with.")
	}
	if total > absoluteMaxForms {
		return 0, fmt.Errorf("Please submit at most %d forms.", absoluteMaxForms)
	}
	return total, nil
}

// parseID returns 0 for an empty id and ok=false for garbage
func parseID(raw string) (id uint64, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	return id, err == nil && id > 0
}

func parseFloat(raw string) (*float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}

func isImage(fh *multipart.FileHeader) bool {
	file, err := fh.Open()
	if err != nil {
		return false
	}
	defer file.Close()
	_, _, err = image.DecodeConfig(file)
	return err == nil
}
