package visits

import (
	"mime/multipart"

	"github.com/annalapradeBU/cafe-passport/db"
	"github.com/annalapradeBU/cafe-passport/forms"
	"github.com/annalapradeBU/cafe-passport/logger"
	"github.com/annalapradeBU/cafe-passport/metrics"
	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/storage"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MsgInvalidForm   = "Please correct the errors below."
	MsgConstraint    = "A database error occurred (missing required data or constraint violation)."
	MsgCafeNotFound  = "Cafe not found."
	MsgVisitNotFound = "Visit not found."
)

// Service saves a visit together with its photos, favorite items and item
// photos as a single unit of work. A nil Storage follows
// storage.GetDefaultStorage, so bucket changes apply to the next save.
type Service struct {
	DB      *gorm.DB
	Storage storage.StorageAPI
}

func NewService(conn *gorm.DB, store storage.StorageAPI) *Service {
	return &Service{DB: conn, Storage: store}
}

func (s *Service) store() storage.StorageAPI {
	if s.Storage != nil {
		return s.Storage
	}
	return storage.GetDefaultStorage()
}

// uploads tracks the objects written during a save so they can be
// removed if the transaction does not commit
type uploads struct {
	store storage.StorageAPI
	paths []string
}

func (u *uploads) save(location string, fh *multipart.FileHeader) (storage.SavedImage, error) {
	file, err := fh.Open()
	if err != nil {
		return storage.SavedImage{}, errors.Wrapf(err, "cannot open upload %s", fh.Filename)
	}
	defer file.Close()
	saved, err := storage.SaveImage(u.store, location, fh.Filename, file)
	if err != nil {
		return saved, errors.Wrapf(err, "cannot store upload %s", fh.Filename)
	}
	u.paths = append(u.paths, saved.Paths()...)
	return saved, nil
}

func (u *uploads) discard() {
	storage.RemoveAll(u.store, u.paths...)
	u.paths = nil
}

// commit runs fn in a transaction, discarding stored uploads on failure.
// Storage and database errors become Constraint or Unexpected faults.
func (s *Service) commit(fn func(tx *gorm.DB, up *uploads) error) error {
	up := &uploads{store: s.store()}
	err := db.Transaction(s.DB, func(tx *gorm.DB) error {
		return fn(tx, up)
	})
	if err == nil {
		return nil
	}
	up.discard()
	var fault *models.Fault
	if errors.As(err, &fault) {
		return fault
	}
	if models.IsConstraintError(err) {
		return models.WrapFault(models.FaultConstraint, MsgConstraint, err)
	}
	return models.WrapFault(models.FaultUnexpected, "cannot save visit", err)
}

// Create validates the submission and, when valid, stores a new visit of
// profile at cafeID. A validation fault leaves the annotated submission
// ready to be echoed back.
func (s *Service) Create(profile *models.Profile, cafeID uint64, sub *forms.Submission) (*models.Visit, error) {
	cafe, err := models.FindCafe(s.DB, cafeID)
	if err != nil {
		return nil, models.WrapFault(models.KindOf(err), MsgCafeNotFound, err)
	}
	if !sub.Validate(nil) {
		return nil, models.NewFault(models.FaultValidation, sub.Message())
	}
	data := sub.Visit.Data()
	visit := models.Visit{
		ProfileID:   profile.ID,
		CafeID:      cafe.ID,
		DateVisited: data.DateVisited,
		UserRating:  data.UserRating,
		AmountSpent: data.AmountSpent,
		Notes:       data.Notes,
	}
	err = s.commit(func(tx *gorm.DB, up *uploads) error {
		if err := tx.Omit(clauseAssociations...).Create(&visit).Error; err != nil {
			return err
		}
		if _, err := s.savePhotos(tx, up, &visit, &sub.Photos); err != nil {
			return err
		}
		_, err := s.saveItems(tx, up, &visit, &sub.Items)
		return err
	})
	if err != nil {
		logger.Log.Error("visit create failed", zap.Uint64("cafe_id", cafeID), zap.Uint64("profile_id", profile.ID), zap.Error(err))
		return nil, err
	}
	visit.Cafe = cafe
	metrics.VisitsSaved.WithLabelValues(metrics.ProtocolForm, "create").Inc()
	logger.Log.Info("visit created", zap.Uint64("visit_id", visit.ID), zap.Uint64("profile_id", profile.ID))
	return &visit, nil
}

// Update applies an edit submission to a visit owned by profile. Removed
// photos and items are deleted in the same transaction; their stored
// images are removed once it commits.
func (s *Service) Update(profile *models.Profile, visitID uint64, sub *forms.Submission) (*models.Visit, error) {
	visit, err := models.FindVisitForProfile(s.DB, visitID, profile.ID)
	if err != nil {
		return nil, models.WrapFault(models.KindOf(err), MsgVisitNotFound, err)
	}
	if !sub.Validate(&visit) {
		return nil, models.NewFault(models.FaultValidation, sub.Message())
	}
	data := sub.Visit.Data()
	stale := []string{}
	err = s.commit(func(tx *gorm.DB, up *uploads) error {
		err := tx.Model(&visit).
			Select("DateVisited", "UserRating", "AmountSpent", "Notes", "UpdatedAt").
			Updates(models.Visit{
				DateVisited: data.DateVisited,
				UserRating:  data.UserRating,
				AmountSpent: data.AmountSpent,
				Notes:       data.Notes,
			}).Error
		if err != nil {
			return err
		}
		removed, err := s.savePhotos(tx, up, &visit, &sub.Photos)
		if err != nil {
			return err
		}
		stale = append(stale, removed...)
		removed, err = s.saveItems(tx, up, &visit, &sub.Items)
		stale = append(stale, removed...)
		return err
	})
	if err != nil {
		logger.Log.Error("visit update failed", zap.Uint64("visit_id", visitID), zap.Error(err))
		return nil, err
	}
	storage.RemoveAll(s.store(), stale...)
	metrics.VisitsSaved.WithLabelValues(metrics.ProtocolForm, "update").Inc()
	return &visit, nil
}

// Delete removes a visit of profile with everything attached to it
func (s *Service) Delete(profile *models.Profile, visitID uint64) error {
	visit, err := models.FindVisitForProfile(s.DB, visitID, profile.ID)
	if err != nil {
		return models.WrapFault(models.KindOf(err), MsgVisitNotFound, err)
	}
	err = db.Transaction(s.DB, func(tx *gorm.DB) error {
		return models.VisitDelete(tx, &visit)
	})
	if err != nil {
		logger.Log.Error("visit delete failed", zap.Uint64("visit_id", visitID), zap.Error(err))
		return models.WrapFault(models.FaultUnexpected, "cannot delete visit", err)
	}
	storage.RemoveAll(s.store(), visit.ImagePaths()...)
	return nil
}
