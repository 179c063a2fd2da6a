package handlers

import (
	"net/http"
	"strconv"

	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/stickers"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const msgInvalidJSON = "Invalid JSON format."

// Sticker errors are reported as {"status":"error"} with 400, including
// unknown visits, types and stickers
func stickerError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

func StickerPlace(c *gin.Context, profile *models.Profile) {
	r := stickers.PlaceRequest{}
	if err := c.ShouldBindWith(&r, binding.JSON); err != nil {
		stickerError(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	id, err := stickerCtl.Place(profile, r)
	if err != nil {
		stickerError(c, http.StatusBadRequest, faultMessage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "id": id})
}

func StickerUpdate(c *gin.Context, profile *models.Profile) {
	r := stickers.UpdateRequest{}
	if err := c.ShouldBindWith(&r, binding.JSON); err != nil {
		stickerError(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if err := stickerCtl.Update(profile, r); err != nil {
		stickerError(c, http.StatusBadRequest, faultMessage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func StickerDelete(c *gin.Context, profile *models.Profile) {
	r := stickers.DeleteRequest{}
	if err := c.ShouldBindWith(&r, binding.JSON); err != nil {
		stickerError(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	id, err := stickerCtl.Delete(profile, r)
	switch models.KindOf(err) {
	case models.FaultRequestFormat, models.FaultValidation, models.FaultNotFound:
		stickerError(c, http.StatusBadRequest, faultMessage(err))
		return
	}
	if err != nil {
		stickerError(c, http.StatusInternalServerError, faultMessage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Sticker " + strconv.FormatUint(id, 10) + " deleted."})
}
