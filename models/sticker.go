package models

import (
	"gorm.io/gorm"
)

// StickerType is a catalog entry, looked up by its unique name
type StickerType struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"type:varchar(255);not null;index:uniq_sticker_type,unique"`
	Image string `gorm:"type:varchar(300);not null"`
}

// Sticker keeps its own copy of the type's image so that later catalog
// changes do not alter stickers already placed.
type Sticker struct {
	ID        uint64      `gorm:"primaryKey"`
	VisitID   uint64      `gorm:"not null;index"`
	Visit     Visit       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TypeID    *uint64     // null once the catalog entry is gone
	Type      StickerType `gorm:"foreignKey:TypeID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	XPosition float64     `gorm:"not null;default:0"`
	YPosition float64     `gorm:"not null;default:0"`
	Rotation  float64     `gorm:"not null;default:0"`
	Scale     float64     `gorm:"not null;default:1"`
	Image     string      `gorm:"type:varchar(300);not null"`
}

func FindStickerType(tx *gorm.DB, name string) (st StickerType, err error) {
	err = tx.Where("name = ?", name).First(&st).Error
	return st, notFound(err)
}

func StickerTypeList(tx *gorm.DB) (types []StickerType, err error) {
	err = tx.Order("name").Find(&types).Error
	return
}

// FindStickerForProfile only returns stickers placed on the profile's own visits
func FindStickerForProfile(tx *gorm.DB, id, profileID uint64) (s Sticker, err error) {
	err = tx.Joins("JOIN visits ON visits.id = stickers.visit_id").
		Where("stickers.id = ? AND visits.profile_id = ?", id, profileID).
		First(&s).Error
	return s, notFound(err)
}
