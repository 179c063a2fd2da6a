package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/annalapradeBU/cafe-passport/auth"
	"github.com/annalapradeBU/cafe-passport/db"
	"github.com/annalapradeBU/cafe-passport/logger"
	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const wishlistPath = "/wishlist/"

type WishlistAddRequest struct {
	CafeRequest
	CafeChoice    string  `form:"cafe_choice"`
	NewCafeSubmit *string `form:"new_cafe_submit"`
}

func WishlistShow(c *gin.Context, profile *models.Profile) {
	list, err := wishes.ListForProfile(profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wishes":   wishInfos(list),
		"messages": auth.LoadSession(c).Messages(),
	})
}

// WishlistAdd either wishes an existing cafe (cafe_choice) or creates a new
// one from the cafe fields when new_cafe_submit is present
func WishlistAdd(c *gin.Context, profile *models.Profile) {
	r := WishlistAddRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if r.NewCafeSubmit != nil {
		cafe := models.Cafe{}
		stored, err := r.apply(c, &cafe)
		if err == nil {
			err = wishes.AddNewCafe(profile.ID, &cafe, r.Tags, r.NewTags, r.wantsWishlist())
		}
		if err != nil {
			storage.RemoveAll(storage.GetDefaultStorage(), stored...)
			if models.KindOf(err) == models.FaultValidation {
				c.JSON(http.StatusBadRequest, Response{"Please correct the errors in the New Cafe form. " + faultMessage(err)})
				return
			}
			respondFault(c, err)
			return
		}
		redirect(c, wishlistPath, "New cafe, "+cafe.Name+", created and added to wishlist.")
		return
	}

	cafeID, err := strconv.ParseUint(strings.TrimSpace(r.CafeChoice), 10, 64)
	if err != nil || cafeID == 0 {
		c.JSON(http.StatusBadRequest, Response{"Please select a cafe from the list."})
		return
	}
	cafe, err := models.FindCafe(db.Instance, cafeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{"Please select a cafe from the list."})
		return
	}
	if _, err = wishes.Add(profile.ID, cafe.ID); err != nil {
		logger.Log.Error("wishlist add failed", zap.Uint64("cafe_id", cafe.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{"Error adding cafe to wishlist."})
		return
	}
	redirect(c, wishlistPath, "Successfully added "+cafe.Name+" to your wishlist.")
}

func WishAdd(c *gin.Context, profile *models.Profile) {
	cafeID, ok := paramID(c, "pk")
	if !ok {
		return
	}
	cafe, err := models.FindCafe(db.Instance, cafeID)
	if err != nil {
		respondFault(c, err)
		return
	}
	created, err := wishes.Add(profile.ID, cafe.ID)
	if err != nil {
		respondFault(c, err)
		return
	}
	message := cafe.Name + " is already on your wishlist."
	if created {
		message = "Successfully added " + cafe.Name + " to your wishlist!"
	}
	redirect(c, cafePath(cafe.ID), message)
}

func WishRemove(c *gin.Context, profile *models.Profile) {
	cafeID, ok := paramID(c, "pk")
	if !ok {
		return
	}
	cafe, err := models.FindCafe(db.Instance, cafeID)
	if err != nil {
		respondFault(c, err)
		return
	}
	err = wishes.Remove(profile.ID, cafe.ID)
	switch {
	case err == nil:
		redirect(c, cafePath(cafe.ID), "Successfully removed "+cafe.Name+" from your wishlist.")
	case models.KindOf(err) == models.FaultNotFound:
		redirect(c, cafePath(cafe.ID), cafe.Name+" was not found on your wishlist.")
	default:
		respondFault(c, err)
	}
}
