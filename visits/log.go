package visits

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/annalapradeBU/cafe-passport/config"
	"github.com/annalapradeBU/cafe-passport/logger"
	"github.com/annalapradeBU/cafe-passport/metrics"
	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/storage"
	"github.com/annalapradeBU/cafe-passport/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MsgMissingPayload = "Missing 'dynamic_data' payload."
	MsgInvalidPayload = "Invalid JSON format in 'dynamic_data' field."
	MsgLogged         = "Visit logged successfully!"
)

// LogRequest is a visit sent as scalar fields, a JSON document describing
// the nested entities and the uploaded files the document refers to by key
type LogRequest struct {
	DateVisited string
	UserRating  string
	AmountSpent string
	Notes       string
	DynamicData string
	Files       map[string]*multipart.FileHeader
}

func NewLogRequest(form *multipart.Form) LogRequest {
	req := LogRequest{Files: map[string]*multipart.FileHeader{}}
	if form == nil {
		return req
	}
	get := func(key string) string {
		if list := form.Value[key]; len(list) > 0 {
			return list[0]
		}
		return ""
	}
	req.DateVisited = get("date_visited")
	req.UserRating = get("user_rating")
	req.AmountSpent = get("amount_spent")
	req.Notes = get("notes")
	req.DynamicData = get("dynamic_data")
	for key, files := range form.File {
		if len(files) > 0 {
			req.Files[key] = files[0]
		}
	}
	return req
}

type dynamicPhoto struct {
	FileKey string `json:"file_key"`
	Caption string `json:"caption"`
}

type dynamicItem struct {
	Name        string          `json:"name"`
	Price       json.RawMessage `json:"price"`
	Rating      json.RawMessage `json:"rating"`
	Description string          `json:"description"`
	Photos      []dynamicPhoto  `json:"photos"`
}

type dynamicData struct {
	VisitPhotos   []dynamicPhoto `json:"visitPhotos"`
	FavoriteItems []dynamicItem  `json:"favoriteItems"`
}

// Log stores a visit described by a LogRequest. Photos whose file key does
// not resolve to an upload and items without a name are skipped.
func (s *Service) Log(profile *models.Profile, cafeID uint64, req LogRequest) (*models.Visit, error) {
	if strings.TrimSpace(req.DynamicData) == "" {
		return nil, models.NewFault(models.FaultRequestFormat, MsgMissingPayload)
	}
	payload := dynamicData{}
	if err := json.Unmarshal([]byte(req.DynamicData), &payload); err != nil {
		return nil, models.WrapFault(models.FaultRequestFormat, MsgInvalidPayload, err)
	}
	cafe, err := models.FindCafe(s.DB, cafeID)
	if err != nil {
		return nil, models.WrapFault(models.KindOf(err), MsgCafeNotFound, err)
	}
	if err := payload.checkCardinality(req.Files); err != nil {
		return nil, err
	}
	visit, err := req.visit(profile.ID, cafe.ID)
	if err != nil {
		return nil, s.logFailure(cafeID, err)
	}
	items := []models.FavoriteItem{}
	for _, raw := range payload.FavoriteItems {
		if strings.TrimSpace(raw.Name) == "" {
			continue
		}
		item, err := raw.item()
		if err != nil {
			return nil, s.logFailure(cafeID, err)
		}
		items = append(items, item)
	}

	err = s.commit(func(tx *gorm.DB, up *uploads) error {
		if err := tx.Omit(clauseAssociations...).Create(&visit).Error; err != nil {
			return err
		}
		for _, p := range payload.VisitPhotos {
			fh := req.Files[p.FileKey]
			if fh == nil {
				continue
			}
			saved, err := up.save(storage.LocationVisitPhotos, fh)
			if err != nil {
				return err
			}
			photo := models.VisitPhoto{VisitID: visit.ID, Image: saved.Path, Thumb: saved.Thumb, Caption: p.Caption}
			if err := tx.Omit(clauseAssociations...).Create(&photo).Error; err != nil {
				return err
			}
		}
		i := 0
		for _, raw := range payload.FavoriteItems {
			if strings.TrimSpace(raw.Name) == "" {
				continue
			}
			item := &items[i]
			i++
			item.VisitID = visit.ID
			if err := tx.Omit(clauseAssociations...).Create(item).Error; err != nil {
				return err
			}
			for _, p := range raw.Photos {
				fh := req.Files[p.FileKey]
				if fh == nil {
					continue
				}
				saved, err := up.save(storage.LocationItemPhotos, fh)
				if err != nil {
					return err
				}
				photo := models.ItemPhoto{FavoriteItemID: item.ID, Image: saved.Path, Thumb: saved.Thumb, Caption: p.Caption}
				if err := tx.Omit(clauseAssociations...).Create(&photo).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.logFailure(cafeID, err)
	}
	metrics.VisitsSaved.WithLabelValues(metrics.ProtocolJSON, "create").Inc()
	logger.Log.Info("visit logged", zap.Uint64("visit_id", visit.ID), zap.Uint64("profile_id", profile.ID))
	return &visit, nil
}

// logFailure logs the original error and returns the fault to report.
// Unexpected faults carry diagnostics only in debug mode.
func (s *Service) logFailure(cafeID uint64, err error) error {
	logger.Log.Error("visit log failed", zap.Uint64("cafe_id", cafeID), zap.Error(err))
	switch models.KindOf(err) {
	case models.FaultConstraint:
		return models.WrapFault(models.FaultConstraint, MsgConstraint, err)
	case models.FaultUnexpected:
		msg := "An internal server error occurred."
		if config.DEBUG_MODE {
			msg = fmt.Sprintf("An internal server error occurred: %T - %v", unwrapAll(err), err)
		}
		return models.WrapFault(models.FaultUnexpected, msg, err)
	}
	return err
}

func unwrapAll(err error) error {
	for {
		next, ok := err.(interface{ Unwrap() error })
		if !ok || next.Unwrap() == nil {
			return err
		}
		err = next.Unwrap()
	}
}

// checkCardinality counts only the entries that would be stored
func (d *dynamicData) checkCardinality(files map[string]*multipart.FileHeader) error {
	count := func(photos []dynamicPhoto) (n int) {
		for _, p := range photos {
			if files[p.FileKey] != nil {
				n++
			}
		}
		return
	}
	if count(d.VisitPhotos) > models.MaxVisitPhotos {
		return models.NewFault(models.FaultRequestFormat, fmt.Sprintf("A visit can have at most %d photos.", models.MaxVisitPhotos))
	}
	items := 0
	for _, item := range d.FavoriteItems {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		items++
		if count(item.Photos) > models.MaxItemPhotos {
			return models.NewFault(models.FaultRequestFormat, fmt.Sprintf("A favorite item can have at most %d photos.", models.MaxItemPhotos))
		}
	}
	if items > models.MaxFavoriteItems {
		return models.NewFault(models.FaultRequestFormat, fmt.Sprintf("A visit can have at most %d favorite items.", models.MaxFavoriteItems))
	}
	return nil
}

// visit builds the visit row. Missing required values are reported as
// constraint violations, garbage values as unexpected errors.
func (r *LogRequest) visit(profileID, cafeID uint64) (models.Visit, error) {
	visit := models.Visit{ProfileID: profileID, CafeID: cafeID, Notes: r.Notes}
	raw := strings.TrimSpace(r.DateVisited)
	if raw == "" {
		return visit, models.NewFault(models.FaultConstraint, "date_visited may not be null")
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return visit, err
	}
	visit.DateVisited = date
	if visit.UserRating, err = requiredFloat("user_rating", r.UserRating); err != nil {
		return visit, err
	}
	if visit.AmountSpent, err = requiredFloat("amount_spent", r.AmountSpent); err != nil {
		return visit, err
	}
	return visit, nil
}

func requiredFloat(name, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, models.NewFault(models.FaultConstraint, name+" may not be null")
	}
	return strconv.ParseFloat(raw, 64)
}

func (d *dynamicItem) item() (models.FavoriteItem, error) {
	item := models.FavoriteItem{Name: strings.TrimSpace(d.Name), Description: d.Description}
	var err error
	for _, f := range []struct {
		name   string
		raw    json.RawMessage
		target *float64
	}{{"price", d.Price, &item.Price}, {"rating", d.Rating, &item.Rating}} {
		if utils.IsNull(f.raw) {
			return item, models.NewFault(models.FaultConstraint, f.name+" may not be null")
		}
		if *f.target, err = utils.CoerceFloat(f.raw); err != nil {
			return item, err
		}
	}
	return item, nil
}
