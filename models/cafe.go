package models

import (
	"strings"

	"gorm.io/gorm"
)

type Cafe struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	Name        string   `gorm:"type:varchar(255);not null"`
	Address     string   `gorm:"type:varchar(255);not null"`
	Description string   `gorm:"type:text"`
	Rating      *float64 `gorm:"type:double"`
	Image       string   `gorm:"type:varchar(2000)"` // Remote URL or a storage path
	Tags        []Tag    `gorm:"many2many:cafe_tags;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (c *Cafe) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Address = strings.TrimSpace(c.Address)
	if c.Name == "" || c.Address == "" {
		return NewFault(FaultValidation, "Name and address are required.")
	}
	if c.Rating != nil && (*c.Rating < 0 || *c.Rating > 5) {
		return NewFault(FaultValidation, "Rating must be between 0 and 5.")
	}
	return nil
}

func FindCafe(tx *gorm.DB, id uint64) (c Cafe, err error) {
	err = tx.Preload("Tags").First(&c, id).Error
	return c, notFound(err)
}

func CafeList(tx *gorm.DB) (cafes []Cafe, err error) {
	err = tx.Preload("Tags").Order("name").Find(&cafes).Error
	return
}

// CafeSave creates or updates a cafe. The tag set becomes the union of the
// existing tags picked by ID and the comma separated new tag names.
func CafeSave(tx *gorm.DB, c *Cafe, tagIDs []uint64, newTags string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	tags, unique := []Tag{}, []Tag{}
	if len(tagIDs) > 0 {
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return err
		}
	}
	created, err := TagsGetOrCreate(tx, SplitTagNames(newTags))
	if err != nil {
		return err
	}
	seen := map[uint64]bool{}
	for _, tag := range append(tags, created...) {
		if !seen[tag.ID] {
			seen[tag.ID] = true
			unique = append(unique, tag)
		}
	}

	if c.ID == 0 {
		err = tx.Omit("Tags").Create(c).Error
	} else {
		err = tx.Omit("Tags").Save(c).Error
	}
	if err != nil {
		return err
	}
	c.Tags = unique
	return tx.Model(c).Association("Tags").Replace(unique)
}

func CafeDelete(tx *gorm.DB, id uint64) error {
	result := tx.Delete(&Cafe{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
