package stickers

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/annalapradeBU/cafe-passport/logger"
	"github.com/annalapradeBU/cafe-passport/metrics"
	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/utils"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MsgVisitNotFound   = "Visit not found."
	MsgTypeNotFound    = "Sticker type not found."
	MsgStickerNotFound = "Sticker not found."
	MsgMissingID       = "Missing sticker ID."
	MsgMissingVisitID  = "Missing visit ID."
)

type PlaceRequest struct {
	VisitID     json.RawMessage `json:"visit_id"`
	StickerType string          `json:"sticker_type"`
	X           json.RawMessage `json:"x"`
	Y           json.RawMessage `json:"y"`
	Rotation    json.RawMessage `json:"rotation"`
	Scale       json.RawMessage `json:"scale"`
}

type UpdateRequest struct {
	ID       json.RawMessage `json:"sticker_id"`
	X        json.RawMessage `json:"x"`
	Y        json.RawMessage `json:"y"`
	Rotation json.RawMessage `json:"rotation"`
	Scale    json.RawMessage `json:"scale"`
}

type DeleteRequest struct {
	StickerID json.RawMessage `json:"sticker_id"`
}

const catalogKey = "catalog"

// Controller places, moves and removes stickers on a profile's visits.
// The sticker type catalog shown to users is cached for a TTL; placing a
// sticker always reads the type from the database.
type Controller struct {
	DB      *gorm.DB
	catalog *cache.Cache
}

func NewController(conn *gorm.DB, ttl time.Duration) *Controller {
	return &Controller{
		DB:      conn,
		catalog: cache.New(ttl, 2*ttl),
	}
}

// Catalog lists the sticker types by name. The list may lag behind catalog
// changes by up to the TTL.
func (c *Controller) Catalog() ([]models.StickerType, error) {
	if cached, found := c.catalog.Get(catalogKey); found {
		return cached.([]models.StickerType), nil
	}
	types, err := models.StickerTypeList(c.DB)
	if err != nil {
		return nil, err
	}
	c.catalog.SetDefault(catalogKey, types)
	return types, nil
}

// Place creates a sticker on a visit of the profile. Missing coordinates
// default to 0 and a missing scale to 1.
func (c *Controller) Place(profile *models.Profile, req PlaceRequest) (id uint64, err error) {
	defer func() { count("place", err) }()
	if utils.IsNull(req.VisitID) {
		return 0, models.NewFault(models.FaultRequestFormat, MsgMissingVisitID)
	}
	sticker := models.Sticker{Scale: 1}
	fields := []numericField{
		{"x", req.X, &sticker.XPosition},
		{"y", req.Y, &sticker.YPosition},
		{"rotation", req.Rotation, &sticker.Rotation},
		{"scale", req.Scale, &sticker.Scale},
	}
	for _, f := range fields {
		if f.raw == nil {
			continue
		}
		if err = f.coerce(); err != nil {
			return 0, err
		}
	}
	visitID, err := utils.CoerceID(req.VisitID)
	if err != nil {
		return 0, models.WrapFault(models.FaultValidation, "Invalid visit ID.", err)
	}
	if _, err = models.FindVisitForProfile(c.DB, visitID, profile.ID); err != nil {
		return 0, models.WrapFault(models.KindOf(err), MsgVisitNotFound, err)
	}
	st, err := models.FindStickerType(c.DB, strings.TrimSpace(req.StickerType))
	if err != nil {
		return 0, models.WrapFault(models.KindOf(err), MsgTypeNotFound, err)
	}
	sticker.VisitID = visitID
	sticker.TypeID = &st.ID
	sticker.Image = st.Image
	if err = c.DB.Omit("Visit", "Type").Create(&sticker).Error; err != nil {
		if models.IsConstraintError(err) {
			c.catalog.Delete(catalogKey)
		}
		logger.Log.Error("sticker place failed", zap.Uint64("visit_id", visitID), zap.Error(err))
		return 0, err
	}
	return sticker.ID, nil
}

// Update moves, rotates and scales a sticker. All four values are required
// and the stored row is left untouched if any of them is invalid.
func (c *Controller) Update(profile *models.Profile, req UpdateRequest) (err error) {
	defer func() { count("update", err) }()
	if utils.IsNull(req.ID) {
		return models.NewFault(models.FaultRequestFormat, MsgMissingID)
	}
	id, err := utils.CoerceID(req.ID)
	if err != nil {
		return models.WrapFault(models.FaultValidation, "Invalid sticker ID.", err)
	}
	sticker, err := models.FindStickerForProfile(c.DB, id, profile.ID)
	if err != nil {
		return models.WrapFault(models.KindOf(err), MsgStickerNotFound, err)
	}
	var x, y, rotation, scale float64
	fields := []numericField{
		{"x", req.X, &x},
		{"y", req.Y, &y},
		{"rotation", req.Rotation, &rotation},
		{"scale", req.Scale, &scale},
	}
	for _, f := range fields {
		if err = f.coerce(); err != nil {
			return err
		}
	}
	err = c.DB.Model(&models.Sticker{ID: sticker.ID}).Updates(map[string]any{
		"x_position": x,
		"y_position": y,
		"rotation":   rotation,
		"scale":      scale,
	}).Error
	if err != nil {
		logger.Log.Error("sticker update failed", zap.Uint64("sticker_id", id), zap.Error(err))
	}
	return err
}

func (c *Controller) Delete(profile *models.Profile, req DeleteRequest) (id uint64, err error) {
	defer func() { count("delete", err) }()
	if utils.IsNull(req.StickerID) {
		return 0, models.NewFault(models.FaultRequestFormat, MsgMissingID)
	}
	if id, err = utils.CoerceID(req.StickerID); err != nil {
		return 0, models.WrapFault(models.FaultRequestFormat, MsgMissingID, err)
	}
	sticker, err := models.FindStickerForProfile(c.DB, id, profile.ID)
	if err != nil {
		return 0, models.WrapFault(models.KindOf(err), MsgStickerNotFound, err)
	}
	if err = c.DB.Delete(&models.Sticker{}, sticker.ID).Error; err != nil {
		logger.Log.Error("sticker delete failed", zap.Uint64("sticker_id", id), zap.Error(err))
		return 0, err
	}
	return id, nil
}

type numericField struct {
	name   string
	raw    json.RawMessage
	target *float64
}

func (f numericField) coerce() error {
	if f.raw == nil {
		return models.NewFault(models.FaultValidation, fmt.Sprintf("Missing value for %s.", f.name))
	}
	value, err := utils.CoerceFloat(f.raw)
	if err != nil {
		return models.WrapFault(models.FaultValidation, fmt.Sprintf("Invalid value for %s.", f.name), err)
	}
	*f.target = value
	return nil
}

func count(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.StickerOps.WithLabelValues(op, result).Inc()
}
