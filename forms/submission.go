package forms

import (
	"mime/multipart"

	"github.com/annalapradeBU/cafe-passport/models"
)

type Stage string

const (
	StageVisit      Stage = "visit"
	StagePhotos     Stage = "photos"
	StageItems      Stage = "items"
	StageItemPhotos Stage = "item_photos"
)

var stageMessages = map[Stage]string{
	StageVisit:      "Please correct the errors in the visit details.",
	StagePhotos:     "Please correct the errors in the visit photos.",
	StageItems:      "Please correct the errors in the favorite items.",
	StageItemPhotos: "Please correct the errors in the Favorite Item Photos.",
}

// Submission is a parsed visit form: the visit fields, its photo set and
// its item set with one nested photo set per item.
type Submission struct {
	Visit    VisitEntry `json:"visit"`
	Photos   PhotoSet   `json:"photos"`
	Items    ItemSet    `json:"items"`
	FailedAt Stage      `json:"failed_at,omitempty"`
}

func Parse(form *multipart.Form) *Submission {
	if form == nil {
		form = &multipart.Form{}
	}
	v := values{form: form}
	return &Submission{
		Visit: VisitEntry{
			DateVisited: v.get("date_visited"),
			UserRating:  v.get("user_rating"),
			AmountSpent: v.get("amount_spent"),
			Notes:       v.get("notes"),
		},
		Photos: parsePhotoSet(v, VisitPhotosPrefix, models.MaxVisitPhotos),
		Items:  parseItemSet(v),
	}
}

// Validate checks the visit fields, then the visit photos, then the items,
// stopping at the first invalid level. Nested item photos are checked for
// every item. existing is nil when creating a new visit; when updating,
// only its own photos and items may be referenced by id.
func (s *Submission) Validate(existing *models.Visit) bool {
	s.FailedAt = ""
	photos := map[uint64]bool{}
	items := map[uint64]models.FavoriteItem{}
	if existing != nil {
		for _, photo := range existing.Photos {
			photos[photo.ID] = true
		}
		for _, item := range existing.FavoriteItems {
			items[item.ID] = item
		}
	}
	switch {
	case !s.Visit.validate():
		s.FailedAt = StageVisit
	case !s.Photos.validate(photos):
		s.FailedAt = StagePhotos
	case !s.Items.validateItems(items):
		s.FailedAt = StageItems
	case !s.Items.validatePhotos(items):
		s.FailedAt = StageItemPhotos
	}
	return s.FailedAt == ""
}

// Message is a summary of the failed stage, empty when valid
func (s *Submission) Message() string {
	return stageMessages[s.FailedAt]
}
