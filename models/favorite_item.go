package models

import (
	"gorm.io/gorm"
)

type FavoriteItem struct {
	ID          uint64      `gorm:"primaryKey"`
	VisitID     uint64      `gorm:"not null;index"`
	Visit       Visit       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name        string      `gorm:"type:varchar(255);not null"`
	Price       float64     `gorm:"not null"`
	Rating      float64     `gorm:"not null"`
	Description string      `gorm:"type:text;not null"`
	Photos      []ItemPhoto `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// FindItemForProfile only returns items of the profile's own visits
func FindItemForProfile(tx *gorm.DB, id, profileID uint64) (item FavoriteItem, err error) {
	err = tx.Preload("Photos", orderByID).Preload("Visit.Cafe").
		Joins("JOIN visits ON visits.id = favorite_items.visit_id").
		Where("favorite_items.id = ? AND visits.profile_id = ?", id, profileID).
		First(&item).Error
	return item, notFound(err)
}
