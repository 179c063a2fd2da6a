package models

import (
	"strings"

	"gorm.io/gorm"
)

type Tag struct {
	ID   uint64 `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);not null;index:uniq_tag_name,unique"`
}

// SplitTagNames turns "wifi, quiet ,,vegan" into a clean list of names
func SplitTagNames(list string) (names []string) {
	seen := map[string]bool{}
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return
}

func TagsGetOrCreate(tx *gorm.DB, names []string) (tags []Tag, err error) {
	for _, name := range names {
		tag := Tag{}
		if err = tx.Where(Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return
}

func TagList(tx *gorm.DB) (tags []Tag, err error) {
	err = tx.Order("name").Find(&tags).Error
	return
}
