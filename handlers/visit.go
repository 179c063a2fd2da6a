package handlers

import (
	"net/http"
	"strconv"

	"github.com/annalapradeBU/cafe-passport/db"
	"github.com/annalapradeBU/cafe-passport/forms"
	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/visits"

	"github.com/gin-gonic/gin"
)

type PhotoInfo struct {
	ID       uint64 `json:"id"`
	ImageURL string `json:"image_url"`
	ThumbURL string `json:"thumb_url"`
	Caption  string `json:"caption"`
}

type ItemInfo struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Rating      float64     `json:"rating"`
	Description string      `json:"description"`
	Photos      []PhotoInfo `json:"photos"`
}

type ItemDetail struct {
	ItemInfo
	VisitID     uint64   `json:"visit_id"`
	DateVisited string   `json:"date_visited"`
	Cafe        CafeInfo `json:"cafe"`
}

type StickerInfo struct {
	ID       uint64  `json:"id"`
	ImageURL string  `json:"image_url"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Scale    float64 `json:"scale"`
}

type StickerTypeInfo struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

type VisitInfo struct {
	ID            uint64            `json:"id"`
	Cafe          CafeInfo          `json:"cafe"`
	DateVisited   string            `json:"date_visited"`
	UserRating    float64           `json:"user_rating"`
	AmountSpent   float64           `json:"amount_spent"`
	Notes         string            `json:"notes"`
	Photos        []PhotoInfo       `json:"photos"`
	FavoriteItems []ItemInfo        `json:"favorite_items"`
	Stickers      []StickerInfo     `json:"stickers"`
	StickerTypes  []StickerTypeInfo `json:"sticker_types"`
}

func visitPath(id uint64) string {
	return "/visit/" + strconv.FormatUint(id, 10) + "/"
}

func photoInfo(id uint64, image, thumb, caption string) PhotoInfo {
	return PhotoInfo{ID: id, ImageURL: mediaURL(image), ThumbURL: mediaURL(thumb), Caption: caption}
}

func itemInfo(item *models.FavoriteItem) ItemInfo {
	info := ItemInfo{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Rating:      item.Rating,
		Description: item.Description,
		Photos:      []PhotoInfo{},
	}
	for _, p := range item.Photos {
		info.Photos = append(info.Photos, photoInfo(p.ID, p.Image, p.Thumb, p.Caption))
	}
	return info
}

func visitInfo(v *models.Visit, types []models.StickerType) VisitInfo {
	result := VisitInfo{
		ID:            v.ID,
		Cafe:          cafeInfo(&v.Cafe),
		DateVisited:   v.DateVisited.Format("2006-01-02"),
		UserRating:    v.UserRating,
		AmountSpent:   v.AmountSpent,
		Notes:         v.Notes,
		Photos:        []PhotoInfo{},
		FavoriteItems: []ItemInfo{},
		Stickers:      []StickerInfo{},
		StickerTypes:  []StickerTypeInfo{},
	}
	for _, p := range v.Photos {
		result.Photos = append(result.Photos, photoInfo(p.ID, p.Image, p.Thumb, p.Caption))
	}
	for i := range v.FavoriteItems {
		result.FavoriteItems = append(result.FavoriteItems, itemInfo(&v.FavoriteItems[i]))
	}
	for _, s := range v.Stickers {
		result.Stickers = append(result.Stickers, StickerInfo{
			ID:       s.ID,
			ImageURL: mediaURL(s.Image),
			X:        s.XPosition,
			Y:        s.YPosition,
			Rotation: s.Rotation,
			Scale:    s.Scale,
		})
	}
	for _, t := range types {
		result.StickerTypes = append(result.StickerTypes, StickerTypeInfo{Name: t.Name, ImageURL: mediaURL(t.Image)})
	}
	return result
}

// respondSubmission reports a failed form save. Invalid submissions are
// echoed back with their field errors.
func respondSubmission(c *gin.Context, sub *forms.Submission, err error) {
	if models.KindOf(err) == models.FaultValidation {
		c.JSON(http.StatusBadRequest, gin.H{"error": faultMessage(err), "form": sub})
		return
	}
	respondFault(c, err)
}

// VisitCreate saves a visit posted as a form with photo, item and item
// photo formsets
func VisitCreate(c *gin.Context, profile *models.Profile) {
	cafeID, ok := paramID(c, "pk")
	if !ok {
		return
	}
	form, err := multipartForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	sub := forms.Parse(form)
	visit, err := visitService.Create(profile, cafeID, sub)
	if err != nil {
		respondSubmission(c, sub, err)
		return
	}
	redirect(c, visitPath(visit.ID), "Visit to "+visit.Cafe.Name+" logged successfully!")
}

func VisitUpdate(c *gin.Context, profile *models.Profile) {
	id, ok := paramID(c, "pk")
	if !ok {
		return
	}
	form, err := multipartForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	sub := forms.Parse(form)
	visit, err := visitService.Update(profile, id, sub)
	if err != nil {
		respondSubmission(c, sub, err)
		return
	}
	redirect(c, visitPath(visit.ID), "Visit to "+visit.Cafe.Name+" updated successfully!")
}

// VisitLog saves a visit whose photos and items are described by the
// dynamic_data JSON field, with files referenced by their form key
func VisitLog(c *gin.Context, profile *models.Profile) {
	cafeID, ok := paramID(c, "pk")
	if !ok {
		return
	}
	form, err := multipartForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "detail": err.Error()})
		return
	}
	visit, err := visitService.Log(profile, cafeID, visits.NewLogRequest(form))
	if err != nil {
		c.JSON(faultStatus(models.KindOf(err)), gin.H{"success": false, "detail": faultMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"detail":       visits.MsgLogged,
		"redirect_url": visitPath(visit.ID),
	})
}

// VisitShow is only available to the owner of the visit
func VisitShow(c *gin.Context, profile *models.Profile) {
	id, ok := paramID(c, "pk")
	if !ok {
		return
	}
	visit, err := models.FindVisitForProfile(db.Instance, id, profile.ID)
	if err != nil {
		respondFault(c, err)
		return
	}
	types, err := stickerCtl.Catalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, visitInfo(&visit, types))
}

// ItemShow is only available to the owner of the visit the item belongs to
func ItemShow(c *gin.Context, profile *models.Profile) {
	id, ok := paramID(c, "pk")
	if !ok {
		return
	}
	item, err := models.FindItemForProfile(db.Instance, id, profile.ID)
	if err != nil {
		respondFault(c, err)
		return
	}
	c.JSON(http.StatusOK, ItemDetail{
		ItemInfo:    itemInfo(&item),
		VisitID:     item.VisitID,
		DateVisited: item.Visit.DateVisited.Format("2006-01-02"),
		Cafe:        cafeInfo(&item.Visit.Cafe),
	})
}

func VisitDelete(c *gin.Context, profile *models.Profile) {
	id, ok := paramID(c, "pk")
	if !ok {
		return
	}
	visit, err := models.FindVisitForProfile(db.Instance, id, profile.ID)
	if err != nil {
		respondFault(c, err)
		return
	}
	if err = visitService.Delete(profile, visit.ID); err != nil {
		respondFault(c, err)
		return
	}
	redirect(c, "/", "Visit to "+visit.Cafe.Name+" successfully deleted.")
}
