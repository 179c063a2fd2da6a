package models

import (
	"gorm.io/gorm"
)

// Wish marks a cafe a profile wants to visit. HasBeenVisited is always derived
// from the profile's visits and never stored.
type Wish struct {
	ID             uint64  `gorm:"primaryKey"`
	AddedOn        int64   `gorm:"autoCreateTime"`
	ProfileID      uint64  `gorm:"not null;index:uniq_wish,unique,priority:1"`
	Profile        Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CafeID         uint64  `gorm:"not null;index:uniq_wish,unique,priority:2"`
	Cafe           Cafe    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	HasBeenVisited bool    `gorm:"-"`
}

func FindWishesByProfile(tx *gorm.DB, profileID uint64) (wishes []Wish, err error) {
	err = tx.Preload("Cafe").Where("profile_id = ?", profileID).Order("added_on desc, id desc").Find(&wishes).Error
	return
}

func FindWish(tx *gorm.DB, profileID, cafeID uint64) (w Wish, err error) {
	err = tx.Where("profile_id = ? AND cafe_id = ?", profileID, cafeID).First(&w).Error
	return w, notFound(err)
}
