package visits

import (
	"github.com/annalapradeBU/cafe-passport/forms"
	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var clauseAssociations = []string{clause.Associations}

// savePhotos applies a validated visit photo set. It returns the stored
// images that are no longer referenced once the transaction commits.
func (s *Service) savePhotos(tx *gorm.DB, up *uploads, visit *models.Visit, set *forms.PhotoSet) (stale []string, err error) {
	existing := map[uint64]models.VisitPhoto{}
	for _, photo := range visit.Photos {
		existing[photo.ID] = photo
	}
	for i := range set.Entries {
		entry := &set.Entries[i]
		if entry.Skipped() {
			continue
		}
		photo := existing[entry.PhotoID()]
		if entry.Removes() {
			if err = tx.Delete(&models.VisitPhoto{}, photo.ID).Error; err != nil {
				return
			}
			stale = append(stale, photo.Paths()...)
			continue
		}
		if fh := entry.File(); fh != nil {
			saved, err := up.save(storage.LocationVisitPhotos, fh)
			if err != nil {
				return stale, err
			}
			stale = append(stale, photo.Paths()...)
			photo.Image, photo.Thumb = saved.Path, saved.Thumb
		}
		photo.VisitID = visit.ID
		photo.Caption = entry.Caption
		if err = tx.Omit(clauseAssociations...).Save(&photo).Error; err != nil {
			return
		}
	}
	return
}

// saveItems applies a validated item set with the nested photo set of
// every item. Removing an item removes its photos too.
func (s *Service) saveItems(tx *gorm.DB, up *uploads, visit *models.Visit, set *forms.ItemSet) (stale []string, err error) {
	existing := map[uint64]models.FavoriteItem{}
	for _, item := range visit.FavoriteItems {
		existing[item.ID] = item
	}
	for i := range set.Entries {
		entry := &set.Entries[i]
		if entry.Skipped() {
			continue
		}
		item := existing[entry.ItemID()]
		if entry.Removes() {
			if err = tx.Where("favorite_item_id = ?", item.ID).Delete(&models.ItemPhoto{}).Error; err != nil {
				return
			}
			if err = tx.Delete(&models.FavoriteItem{}, item.ID).Error; err != nil {
				return
			}
			for _, photo := range item.Photos {
				stale = append(stale, photo.Paths()...)
			}
			continue
		}
		data := entry.Data()
		photos := item.Photos
		item = models.FavoriteItem{
			ID:          item.ID,
			VisitID:     visit.ID,
			Name:        data.Name,
			Price:       data.Price,
			Rating:      data.Rating,
			Description: data.Description,
		}
		if err = tx.Omit(clauseAssociations...).Save(&item).Error; err != nil {
			return
		}
		removed, err := s.saveItemPhotos(tx, up, item.ID, photos, &entry.Photos)
		stale = append(stale, removed...)
		if err != nil {
			return stale, err
		}
	}
	return
}

func (s *Service) saveItemPhotos(tx *gorm.DB, up *uploads, itemID uint64, current []models.ItemPhoto, set *forms.PhotoSet) (stale []string, err error) {
	existing := map[uint64]models.ItemPhoto{}
	for _, photo := range current {
		existing[photo.ID] = photo
	}
	for i := range set.Entries {
		entry := &set.Entries[i]
		if entry.Skipped() {
			continue
		}
		photo := existing[entry.PhotoID()]
		if entry.Removes() {
			if err = tx.Delete(&models.ItemPhoto{}, photo.ID).Error; err != nil {
				return
			}
			stale = append(stale, photo.Paths()...)
			continue
		}
		if fh := entry.File(); fh != nil {
			saved, err := up.save(storage.LocationItemPhotos, fh)
			if err != nil {
				return stale, err
			}
			stale = append(stale, photo.Paths()...)
			photo.Image, photo.Thumb = saved.Path, saved.Thumb
		}
		photo.FavoriteItemID = itemID
		photo.Caption = entry.Caption
		if err = tx.Omit(clauseAssociations...).Save(&photo).Error; err != nil {
			return
		}
	}
	return
}
