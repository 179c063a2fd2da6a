package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/annalapradeBU/cafe-passport/auth"
	"github.com/annalapradeBU/cafe-passport/db"
	"github.com/annalapradeBU/cafe-passport/logger"
	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CafeRequest struct {
	Name          string   `form:"name"`
	Address       string   `form:"address"`
	Description   string   `form:"description"`
	Rating        string   `form:"rating"`
	ImageURL      string   `form:"image_url"`
	Tags          []uint64 `form:"tags"`
	NewTags       string   `form:"new_tags"`
	AddToWishlist string   `form:"add_to_wishlist"`
}

type TagInfo struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type CafeInfo struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Rating      *float64  `json:"rating"`
	ImageURL    string    `json:"image_url"`
	Tags        []TagInfo `json:"tags"`
}

type CafeDetail struct {
	CafeInfo
	Wishlisted bool        `json:"wishlisted"`
	HasVisited bool        `json:"has_visited"`
	Visits     []VisitCard `json:"visits"`
}

func cafeInfo(cafe *models.Cafe) CafeInfo {
	result := CafeInfo{
		ID:          cafe.ID,
		Name:        cafe.Name,
		Address:     cafe.Address,
		Description: cafe.Description,
		Rating:      cafe.Rating,
		ImageURL:    mediaURL(cafe.Image),
		Tags:        make([]TagInfo, 0, len(cafe.Tags)),
	}
	for _, tag := range cafe.Tags {
		result.Tags = append(result.Tags, TagInfo{ID: tag.ID, Name: tag.Name})
	}
	return result
}

// wantsWishlist defaults to true, like the checked box on the form
func (r *CafeRequest) wantsWishlist() bool {
	switch strings.ToLower(strings.TrimSpace(r.AddToWishlist)) {
	case "0", "false", "off", "no":
		return false
	}
	return true
}

// apply copies the request onto cafe. An uploaded "image" file takes
// precedence over image_url; its stored paths are returned so they can be
// removed if the cafe is not saved.
func (r *CafeRequest) apply(c *gin.Context, cafe *models.Cafe) (stored []string, err error) {
	cafe.Name = r.Name
	cafe.Address = r.Address
	cafe.Description = r.Description
	cafe.Rating = nil
	if raw := strings.TrimSpace(r.Rating); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, models.WrapFault(models.FaultValidation, "Rating must be a number.", err)
		}
		cafe.Rating = &rating
	}
	if url := strings.TrimSpace(r.ImageURL); url != "" {
		cafe.Image = url
	}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, models.WrapFault(models.FaultRequestFormat, "Cannot read the uploaded image.", err)
	}
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	saved, err := storage.SaveImage(storage.GetDefaultStorage(), storage.LocationCafes, fh.Filename, file)
	if err != nil {
		return nil, err
	}
	cafe.Image = saved.Path
	return saved.Paths(), nil
}

func cafePath(id uint64) string {
	return "/cafe/" + strconv.FormatUint(id, 10) + "/"
}

func CafeList(c *gin.Context) {
	cafes, err := models.CafeList(db.Instance)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	result := make([]CafeInfo, 0, len(cafes))
	for i := range cafes {
		result = append(result, cafeInfo(&cafes[i]))
	}
	c.JSON(http.StatusOK, result)
}

// TagList returns the tag choices for the cafe forms
func TagList(c *gin.Context) {
	tags, err := models.TagList(db.Instance)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	result := make([]TagInfo, 0, len(tags))
	for _, tag := range tags {
		result = append(result, TagInfo{ID: tag.ID, Name: tag.Name})
	}
	c.JSON(http.StatusOK, result)
}

// CafeShow is public. Logged in visitors also get their own visits of the
// cafe and its wishlist status.
func CafeShow(c *gin.Context) {
	id, ok := paramID(c, "pk")
	if !ok {
		return
	}
	cafe, err := models.FindCafe(db.Instance, id)
	if err != nil {
		respondFault(c, err)
		return
	}
	result := CafeDetail{CafeInfo: cafeInfo(&cafe), Visits: []VisitCard{}}
	profile := auth.LoadSession(c).Profile()
	if profile.ID == 0 {
		c.JSON(http.StatusOK, result)
		return
	}
	visits, err := models.FindVisitsByProfile(db.Instance.Where("cafe_id = ?", cafe.ID), profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	_, err = models.FindWish(db.Instance, profile.ID, cafe.ID)
	result.Wishlisted = err == nil
	result.HasVisited = len(visits) > 0
	for i := range visits {
		cover := mediaURL(visits[i].CoverImage())
		if cover == "" {
			cover = DefaultCoverURL
		}
		result.Visits = append(result.Visits, VisitCard{
			ID:          visits[i].ID,
			CafeID:      cafe.ID,
			CafeName:    cafe.Name,
			DateVisited: visits[i].DateVisited.Format("2006-01-02"),
			UserRating:  visits[i].UserRating,
			ImageURL:    cover,
		})
	}
	c.JSON(http.StatusOK, result)
}

func CafeCreate(c *gin.Context, profile *models.Profile) {
	r := CafeRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	cafe := models.Cafe{}
	stored, err := r.apply(c, &cafe)
	if err == nil {
		err = wishes.AddNewCafe(profile.ID, &cafe, r.Tags, r.NewTags, r.wantsWishlist())
	}
	if err != nil {
		storage.RemoveAll(storage.GetDefaultStorage(), stored...)
		respondFault(c, err)
		return
	}
	logger.Log.Info("cafe created", zap.Uint64("cafe_id", cafe.ID), zap.Uint64("profile_id", profile.ID))
	c.Redirect(http.StatusFound, cafePath(cafe.ID))
}

func CafeUpdate(c *gin.Context, _ *models.Profile) {
	id, ok := paramID(c, "pk")
	if !ok {
		return
	}
	cafe, err := models.FindCafe(db.Instance, id)
	if err != nil {
		respondFault(c, err)
		return
	}
	r := CafeRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	previous := cafe.Image
	stored, err := r.apply(c, &cafe)
	if err == nil {
		err = db.Transaction(db.Instance, func(tx *gorm.DB) error {
			return models.CafeSave(tx, &cafe, r.Tags, r.NewTags)
		})
	}
	if err != nil {
		storage.RemoveAll(storage.GetDefaultStorage(), stored...)
		respondFault(c, err)
		return
	}
	if len(stored) > 0 && previous != cafe.Image && mediaURL(previous) != previous {
		storage.RemoveAll(storage.GetDefaultStorage(), previous, storage.ThumbPath(previous))
	}
	redirect(c, cafePath(cafe.ID), "Cafe '"+cafe.Name+"' updated successfully.")
}

func CafeDelete(c *gin.Context, _ *models.Profile) {
	id, ok := paramID(c, "pk")
	if !ok {
		return
	}
	cafe, err := models.FindCafe(db.Instance, id)
	if err != nil {
		respondFault(c, err)
		return
	}
	if err = models.CafeDelete(db.Instance, cafe.ID); err != nil {
		respondFault(c, err)
		return
	}
	if mediaURL(cafe.Image) != cafe.Image {
		storage.RemoveAll(storage.GetDefaultStorage(), cafe.Image, storage.ThumbPath(cafe.Image))
	}
	redirect(c, "/all_cafes/", "Cafe '"+cafe.Name+"' deleted successfully.")
}
