package forms

import (
	"fmt"
	"strings"

	"github.com/annalapradeBU/cafe-passport/models"
)

type ItemData struct {
	Name        string
	Price       float64
	Rating      float64
	Description string
}

type itemInput struct {
	Name   string   `json:"name" validate:"required,max=255"`
	Price  *float64 `json:"price" validate:"required,gte=0"`
	Rating *float64 `json:"rating" validate:"required,gte=0,lte=5"`
}

type ItemEntry struct {
	Prefix      string            `json:"prefix"`
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name"`
	Price       string            `json:"price"`
	Rating      string            `json:"rating"`
	Description string            `json:"description"`
	Delete      bool              `json:"DELETE,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
	Photos      PhotoSet          `json:"photos"`

	id   uint64
	data ItemData
}

// ItemID is 0 for new items
func (i *ItemEntry) ItemID() uint64 {
	return i.id
}

func (i *ItemEntry) Data() ItemData {
	return i.data
}

func (i *ItemEntry) empty() bool {
	for _, v := range []string{i.ID, i.Name, i.Price, i.Rating, i.Description} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (i *ItemEntry) Skipped() bool {
	return i.empty() || (strings.TrimSpace(i.ID) == "" && i.Delete)
}

func (i *ItemEntry) Removes() bool {
	return !i.Skipped() && i.Delete
}

func (i *ItemEntry) validate(existing map[uint64]models.FavoriteItem) bool {
	i.Errors = map[string]string{}
	id, ok := parseID(i.ID)
	if _, found := existing[id]; !ok || (id != 0 && !found) {
		i.Errors["id"] = msgInvalidID
		return false
	}
	i.id = id
	if i.Delete {
		return true
	}
	input := itemInput{Name: strings.TrimSpace(i.Name)}
	if input.Price, ok = parseFloat(i.Price); !ok {
		i.Errors["price"] = "Enter a number."
	}
	if input.Rating, ok = parseFloat(i.Rating); !ok {
		i.Errors["rating"] = "Enter a number."
	}
	fieldErrors(input, i.Errors)
	if len(i.Errors) > 0 {
		return false
	}
	i.data = ItemData{
		Name:        input.Name,
		Price:       *input.Price,
		Rating:      *input.Rating,
		Description: i.Description,
	}
	return true
}

type ItemSet struct {
	Prefix  string      `json:"prefix"`
	Entries []ItemEntry `json:"entries"`
	Errors  []string    `json:"errors,omitempty"`
}

func parseItemSet(v values) ItemSet {
	set := ItemSet{Prefix: ItemsPrefix, Entries: []ItemEntry{}}
	total, err := v.totalForms(ItemsPrefix)
	if err != nil {
		set.Errors = append(set.Errors, err.Error())
		return set
	}
	for i := 0; i < total; i++ {
		entryPrefix := fmt.Sprintf("%s-%d", ItemsPrefix, i)
		set.Entries = append(set.Entries, ItemEntry{
			Prefix:      entryPrefix,
			ID:          v.get(entryPrefix + "-id"),
			Name:        v.get(entryPrefix + "-name"),
			Price:       v.get(entryPrefix + "-price"),
			Rating:      v.get(entryPrefix + "-rating"),
			Description: v.get(entryPrefix + "-description"),
			Delete:      v.checked(entryPrefix + "-DELETE"),
			Photos:      parsePhotoSet(v, fmt.Sprintf("%s-%d", ItemPhotosPrefix, i), models.MaxItemPhotos),
		})
	}
	return set
}

func (s *ItemSet) Active() (count int) {
	for i := range s.Entries {
		if !s.Entries[i].Skipped() && !s.Entries[i].Delete {
			count++
		}
	}
	return
}

// kept counts the items left after saving, including existing items the
// form leaves out
func (s *ItemSet) kept(existing map[uint64]models.FavoriteItem) int {
	count := s.Active()
	mentioned := map[uint64]bool{}
	for i := range s.Entries {
		if id, ok := parseID(s.Entries[i].ID); ok && !s.Entries[i].Skipped() {
			mentioned[id] = true
		}
	}
	for id := range existing {
		if !mentioned[id] {
			count++
		}
	}
	return count
}

// validateItems checks the item fields only
func (s *ItemSet) validateItems(existing map[uint64]models.FavoriteItem) bool {
	valid := len(s.Errors) == 0
	for i := range s.Entries {
		entry := &s.Entries[i]
		if entry.Skipped() {
			continue
		}
		if !entry.validate(existing) {
			valid = false
		}
	}
	if s.kept(existing) > models.MaxFavoriteItems {
		s.Errors = append(s.Errors, fmt.Sprintf("Please submit at most %d items.", models.MaxFavoriteItems))
		valid = false
	}
	return valid
}

// validatePhotos checks the nested photos of every kept item, not stopping
// at the first invalid one
func (s *ItemSet) validatePhotos(existing map[uint64]models.FavoriteItem) bool {
	valid := true
	for i := range s.Entries {
		entry := &s.Entries[i]
		if entry.Skipped() {
			if entry.Photos.Active() > 0 {
				entry.Errors = map[string]string{"__all__": msgPhotosNoItem}
				valid = false
			}
			continue
		}
		if entry.Delete {
			continue
		}
		allowed := map[uint64]bool{}
		for _, photo := range existing[entry.id].Photos {
			allowed[photo.ID] = true
		}
		if !entry.Photos.validate(allowed) {
			valid = false
		}
	}
	return valid
}
