package models

type VisitPhoto struct {
	ID      uint64 `gorm:"primaryKey"`
	VisitID uint64 `gorm:"not null;index"`
	Visit   Visit  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Image   string `gorm:"type:varchar(300);not null"`
	Thumb   string `gorm:"type:varchar(300)"`
	Caption string `gorm:"type:text;not null"`
}

type ItemPhoto struct {
	ID             uint64       `gorm:"primaryKey"`
	FavoriteItemID uint64       `gorm:"not null;index"`
	FavoriteItem   FavoriteItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Image          string       `gorm:"type:varchar(300);not null"`
	Thumb          string       `gorm:"type:varchar(300)"`
	Caption        string       `gorm:"type:text;not null"`
}

func (p *VisitPhoto) Paths() []string {
	return imagePaths(p.Image, p.Thumb)
}

func (p *ItemPhoto) Paths() []string {
	return imagePaths(p.Image, p.Thumb)
}

func imagePaths(image, thumb string) (paths []string) {
	if image != "" {
		paths = append(paths, image)
	}
	if thumb != "" {
		paths = append(paths, thumb)
	}
	return
}
