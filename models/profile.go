package models

import (
	"gorm.io/gorm"
)

const (
	ThemeDefault  = "default"
	ThemeDark     = "dark"
	ThemeForest   = "forest"
	ThemeOcean    = "ocean"
	ThemeRoastery = "roastery"
	ThemeLavender = "lavender"
	ThemeGothic   = "gothic"
)

var Themes = []string{ThemeDefault, ThemeDark, ThemeForest, ThemeOcean, ThemeRoastery, ThemeLavender, ThemeGothic}

// Profile is the acting identity for every visit, wish and sticker operation
type Profile struct {
	ID              uint64 `gorm:"primaryKey"`
	CreatedAt       int64
	UserID          uint64 `gorm:"not null;index:uniq_profile_user,unique"`
	User            User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	DisplayName     string `gorm:"type:varchar(255)"`
	Bio             string `gorm:"type:text"`
	HomeCity        string `gorm:"type:varchar(255)"`
	ThemePreference string `gorm:"type:varchar(50);not null;default:default"`
}

func IsValidTheme(theme string) bool {
	for _, t := range Themes {
		if t == theme {
			return true
		}
	}
	return false
}

func FindProfileByUser(tx *gorm.DB, userID uint64) (p Profile, err error) {
	err = tx.Preload("User").Where("user_id = ?", userID).First(&p).Error
	return p, notFound(err)
}

func FindProfile(tx *gorm.DB, id uint64) (p Profile, err error) {
	err = tx.Preload("User").First(&p, id).Error
	return p, notFound(err)
}

func (p *Profile) SetTheme(tx *gorm.DB, theme string) error {
	if !IsValidTheme(theme) {
		return NewFault(FaultValidation, "Invalid theme selected.")
	}
	p.ThemePreference = theme
	return tx.Model(p).Update("theme_preference", theme).Error
}

// Name returns the display name, falling back to the login e-mail
func (p *Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.User.Email
}
