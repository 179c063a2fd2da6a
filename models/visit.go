package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MaxVisitPhotos   = 5
	MaxFavoriteItems = 3
	MaxItemPhotos    = 2
)

type Visit struct {
	ID            uint64 `gorm:"primaryKey"`
	CreatedAt     int64
	UpdatedAt     int64
	ProfileID     uint64         `gorm:"not null;index:profile_visits,priority:1"`
	Profile       Profile        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CafeID        uint64         `gorm:"not null;index"`
	Cafe          Cafe           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	DateVisited   time.Time      `gorm:"type:date;not null;index:profile_visits,priority:2"`
	UserRating    float64        `gorm:"not null"`
	AmountSpent   float64        `gorm:"not null;default:0"`
	Notes         string         `gorm:"type:text;not null"`
	Photos        []VisitPhoto   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FavoriteItems []FavoriteItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Stickers      []Sticker      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func preloadVisit(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Cafe").
		Preload("Photos", orderByID).
		Preload("FavoriteItems", orderByID).
		Preload("FavoriteItems.Photos", orderByID).
		Preload("Stickers", orderByID)
}

func orderByID(tx *gorm.DB) *gorm.DB {
	return tx.Order("id")
}

// FindVisitForProfile returns ErrNotFound for visits owned by someone else too
func FindVisitForProfile(tx *gorm.DB, id, profileID uint64) (v Visit, err error) {
	err = preloadVisit(tx).Where("id = ? AND profile_id = ?", id, profileID).First(&v).Error
	return v, notFound(err)
}

func FindVisitsByProfile(tx *gorm.DB, profileID uint64) (visits []Visit, err error) {
	err = preloadVisit(tx).Where("profile_id = ?", profileID).Order("date_visited desc, id desc").Find(&visits).Error
	return
}

// VisitedCafeIDs returns the set of cafes the profile logged at least one visit for
func VisitedCafeIDs(tx *gorm.DB, profileID uint64) (map[uint64]bool, error) {
	ids := []uint64{}
	err := tx.Model(&Visit{}).Distinct("cafe_id").Where("profile_id = ?", profileID).Pluck("cafe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	result := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// ImagePaths lists every stored image of the visit and its items
func (v *Visit) ImagePaths() (paths []string) {
	for _, p := range v.Photos {
		paths = append(paths, p.Paths()...)
	}
	for _, item := range v.FavoriteItems {
		for _, p := range item.Photos {
			paths = append(paths, p.Paths()...)
		}
	}
	return
}

// CoverImage picks the first visit photo, then the first favorite item photo,
// then the cafe image. Empty if none of them exist.
func (v *Visit) CoverImage() string {
	for _, p := range v.Photos {
		if p.Image != "" {
			return p.Image
		}
	}
	for _, item := range v.FavoriteItems {
		for _, p := range item.Photos {
			if p.Image != "" {
				return p.Image
			}
		}
	}
	return v.Cafe.Image
}

// VisitDelete removes the visit with all of its children. The caller is
// responsible for removing the stored images afterwards.
func VisitDelete(tx *gorm.DB, v *Visit) error {
	itemIDs := []uint64{}
	for _, item := range v.FavoriteItems {
		itemIDs = append(itemIDs, item.ID)
	}
	if len(itemIDs) > 0 {
		if err := tx.Where("favorite_item_id IN ?", itemIDs).Delete(&ItemPhoto{}).Error; err != nil {
			return err
		}
	}
	for _, model := range []any{&FavoriteItem{}, &VisitPhoto{}, &Sticker{}} {
		if err := tx.Where("visit_id = ?", v.ID).Delete(model).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&Visit{}, v.ID).Error
}
