package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/annalapradeBU/cafe-passport/auth"
	"github.com/annalapradeBU/cafe-passport/config"
	"github.com/annalapradeBU/cafe-passport/db"
	"github.com/annalapradeBU/cafe-passport/logger"
	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/stickers"
	"github.com/annalapradeBU/cafe-passport/visits"
	"github.com/annalapradeBU/cafe-passport/wishlist"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Response struct {
	Error string `json:"error"`
}

const maxUploadMemory = 32 << 20

var (
	// Predefined errors
	OKResponse       = Response{}
	NotFoundResponse = Response{"Not found"}
	DBErrorResponse  = Response{"Database error"}
	InternalResponse = Response{"An internal server error occurred."}
)

var (
	visitService *visits.Service
	stickerCtl   *stickers.Controller
	wishes       *wishlist.Reconciler
)

// Init wires the services to the current database. It runs once, before
// the router serves requests. Visits are saved to whatever storage is the
// default at the time, so bucket changes need no rewiring.
func Init() {
	visitService = visits.NewService(db.Instance, nil)
	stickerCtl = stickers.NewController(db.Instance, config.STICKER_CACHE_TTL)
	wishes = wishlist.NewReconciler(db.Instance)
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return 0, false
	}
	return id, true
}

// multipartForm returns the posted form, url-encoded bodies included
func multipartForm(c *gin.Context) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err == nil {
		return form, nil
	}
	if !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	if err = c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return &multipart.Form{Value: c.Request.PostForm, File: map[string][]*multipart.FileHeader{}}, nil
}

func faultStatus(kind models.FaultKind) int {
	switch kind {
	case models.FaultRequestFormat, models.FaultValidation:
		return http.StatusBadRequest
	case models.FaultNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// faultMessage is safe to show to the client. Unexpected errors only
// carry details in debug mode.
func faultMessage(err error) string {
	var fault *models.Fault
	if errors.As(err, &fault) && (fault.Kind != models.FaultUnexpected || config.DEBUG_MODE) {
		return fault.Message
	}
	switch models.KindOf(err) {
	case models.FaultNotFound:
		return NotFoundResponse.Error
	case models.FaultConstraint:
		return visits.MsgConstraint
	}
	if config.DEBUG_MODE {
		return err.Error()
	}
	return InternalResponse.Error
}

func respondFault(c *gin.Context, err error) {
	kind := models.KindOf(err)
	if kind == models.FaultUnexpected || kind == models.FaultConstraint {
		logger.Log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(faultStatus(kind), Response{faultMessage(err)})
}

// redirect sends the browser on with a one-off message for the next page
func redirect(c *gin.Context, location, message string) {
	if message != "" {
		auth.LoadSession(c).Flash(message)
	}
	c.Redirect(http.StatusFound, location)
}
