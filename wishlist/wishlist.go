package wishlist

import (
	"errors"

	"github.com/annalapradeBU/cafe-passport/db"
	"github.com/annalapradeBU/cafe-passport/logger"
	"github.com/annalapradeBU/cafe-passport/metrics"
	"github.com/annalapradeBU/cafe-passport/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MsgNotOnWishlist = "Cafe is not on the wishlist."

type Reconciler struct {
	DB *gorm.DB
}

func NewReconciler(conn *gorm.DB) *Reconciler {
	return &Reconciler{DB: conn}
}

// ListForProfile returns the wishes of profile, newest first, each marked
// with whether the profile has visited that cafe
func (r *Reconciler) ListForProfile(profileID uint64) ([]models.Wish, error) {
	wishes, err := models.FindWishesByProfile(r.DB, profileID)
	if err != nil {
		return nil, err
	}
	visited, err := models.VisitedCafeIDs(r.DB, profileID)
	if err != nil {
		return nil, err
	}
	for i := range wishes {
		wishes[i].HasBeenVisited = visited[wishes[i].CafeID]
	}
	return wishes, nil
}

// Add puts the cafe on the wishlist. created is false when it was already
// there, including when a concurrent request added it first.
func (r *Reconciler) Add(profileID, cafeID uint64) (created bool, err error) {
	if _, err = models.FindCafe(r.DB, cafeID); err != nil {
		return false, err
	}
	return add(r.DB, profileID, cafeID)
}

func add(tx *gorm.DB, profileID, cafeID uint64) (bool, error) {
	_, err := models.FindWish(tx, profileID, cafeID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}
	err = tx.Omit("Profile", "Cafe").Create(&models.Wish{ProfileID: profileID, CafeID: cafeID}).Error
	if models.IsDuplicateError(err) {
		logger.Log.Debug("wish added concurrently", zap.Uint64("profile_id", profileID), zap.Uint64("cafe_id", cafeID))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	metrics.WishlistChanges.WithLabelValues("add").Inc()
	return true, nil
}

func (r *Reconciler) Remove(profileID, cafeID uint64) error {
	result := r.DB.Where("profile_id = ? AND cafe_id = ?", profileID, cafeID).Delete(&models.Wish{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.WrapFault(models.FaultNotFound, MsgNotOnWishlist, models.ErrNotFound)
	}
	metrics.WishlistChanges.WithLabelValues("remove").Inc()
	return nil
}

// AddNewCafe creates a cafe with its tags and, if wished, puts it on the
// wishlist in the same transaction
func (r *Reconciler) AddNewCafe(profileID uint64, cafe *models.Cafe, tagIDs []uint64, newTags string, wish bool) error {
	return db.Transaction(r.DB, func(tx *gorm.DB) error {
		if err := models.CafeSave(tx, cafe, tagIDs, newTags); err != nil {
			return err
		}
		if !wish {
			return nil
		}
		_, err := add(tx, profileID, cafe.ID)
		return err
	})
}
