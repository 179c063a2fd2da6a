package models

import (
	"strings"

	"github.com/annalapradeBU/cafe-passport/utils"

	"gorm.io/gorm"
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	Email     string `gorm:"type:varchar(150);index:uniq_email,unique"`
	Password  string `gorm:"type:varchar(128)"`
	PassSalt  string `gorm:"type:varchar(200)"`
	IsStaff   bool   `gorm:"not null;default:false"`
}

const saltSize = 60

func (u *User) SetPassword(plainTextPassword string) {
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
}

// UserCreate registers a new account together with its (empty) profile
func UserCreate(tx *gorm.DB, email, plainTextPassword string) (p Profile, err error) {
	u := User{Email: strings.ToLower(strings.TrimSpace(email))}
	u.SetPassword(plainTextPassword)
	if err = tx.Create(&u).Error; err != nil {
		return
	}
	p = Profile{UserID: u.ID, User: u, ThemePreference: ThemeDefault}
	err = tx.Omit("User").Create(&p).Error
	return
}

func UserLogin(tx *gorm.DB, email, plainTextPassword string) (u User, success bool) {
	result := tx.First(&u, "email = ?", strings.ToLower(strings.TrimSpace(email)))
	if result.Error != nil {
		return User{}, false
	}
	if u.Password != utils.Sha512String(plainTextPassword+u.PassSalt) {
		return User{}, false
	}
	return u, true
}
