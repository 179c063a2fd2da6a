package models

import (
	"github.com/annalapradeBU/cafe-passport/db"

	"gorm.io/gorm"
)

func Init() {
	if err := Migrate(db.Instance); err != nil {
		panic(err)
	}
}

// Migrate creates or updates all tables. Order matters for the foreign keys.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&User{},
		&Profile{},
		&Tag{},
		&Cafe{},
		&Wish{},
		&Visit{},
		&VisitPhoto{},
		&FavoriteItem{},
		&ItemPhoto{},
		&StickerType{},
		&Sticker{},
	)
}
