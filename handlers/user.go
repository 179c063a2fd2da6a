package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/annalapradeBU/cafe-passport/auth"
	"github.com/annalapradeBU/cafe-passport/db"
	"github.com/annalapradeBU/cafe-passport/logger"
	"github.com/annalapradeBU/cafe-passport/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const DefaultCoverURL = "https://img.freepik.com/premium-vector/cute-doodle-cup-coffee-saucer-isolated-white-background_361363-219.jpg"

type UserCreateRequest struct {
	Email       string `form:"email" binding:"required,email"`
	Password    string `form:"password" binding:"required,min=8"`
	DisplayName string `form:"display_name"`
	HomeCity    string `form:"home_city"`
	Bio         string `form:"bio"`
}

type UserLoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type VisitCard struct {
	ID          uint64  `json:"id"`
	CafeID      uint64  `json:"cafe_id"`
	CafeName    string  `json:"cafe_name"`
	DateVisited string  `json:"date_visited"`
	UserRating  float64 `json:"user_rating"`
	ImageURL    string  `json:"image_url"`
}

type WishInfo struct {
	CafeID     uint64 `json:"cafe_id"`
	CafeName   string `json:"cafe_name"`
	AddedOn    int64  `json:"added_on"`
	HasVisited bool   `json:"has_visited"`
}

type ProfileInfo struct {
	ID              uint64      `json:"id"`
	Name            string      `json:"name"`
	HomeCity        string      `json:"home_city"`
	Bio             string      `json:"bio"`
	ThemePreference string      `json:"theme_preference"`
	Visits          []VisitCard `json:"visits"`
	Wishlist        []WishInfo  `json:"wishlist"`
}

// mediaURL turns a stored path into a URL served by MediaFetch. Remote
// URLs (cafe images) are returned unchanged.
func mediaURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return "/media/" + path
}

func wishInfos(wishes []models.Wish) []WishInfo {
	result := make([]WishInfo, 0, len(wishes))
	for _, w := range wishes {
		result = append(result, WishInfo{
			CafeID:     w.CafeID,
			CafeName:   w.Cafe.Name,
			AddedOn:    w.AddedOn,
			HasVisited: w.HasBeenVisited,
		})
	}
	return result
}

func UserSignup(c *gin.Context) {
	r := UserCreateRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	profile, err := models.UserCreate(db.Instance, r.Email, r.Password)
	if models.IsDuplicateError(err) {
		c.JSON(http.StatusBadRequest, Response{"A user with that email already exists."})
		return
	}
	if err != nil {
		logger.Log.Error("signup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	err = db.Instance.Model(&profile).Omit("User").Updates(models.Profile{
		DisplayName: strings.TrimSpace(r.DisplayName),
		HomeCity:    strings.TrimSpace(r.HomeCity),
		Bio:         r.Bio,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	c.Redirect(http.StatusFound, "/login/")
}

func UserLogin(c *gin.Context) {
	r := UserLoginRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	user, ok := models.UserLogin(db.Instance, r.Email, r.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{"Invalid email or password."})
		return
	}
	profile, err := models.FindProfileByUser(db.Instance, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	if err = auth.LoadSession(c).LoginUser(&user); err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	next := c.PostForm("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/profile/" + strconv.FormatUint(profile.ID, 10) + "/"
	}
	c.Redirect(http.StatusFound, next)
}

func UserLogout(c *gin.Context) {
	auth.LoadSession(c).LogoutUser()
	c.Redirect(http.StatusFound, "/")
}

// ProfileShow lists the visits of a profile, each with its cover image, and
// the profile's wishlist marked with what has been visited
func ProfileShow(c *gin.Context, _ *models.Profile) {
	id, ok := paramID(c, "pk")
	if !ok {
		return
	}
	profile, err := models.FindProfile(db.Instance, id)
	if err != nil {
		respondFault(c, err)
		return
	}
	visits, err := models.FindVisitsByProfile(db.Instance, profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	list, err := wishes.ListForProfile(profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBErrorResponse)
		return
	}
	result := ProfileInfo{
		ID:              profile.ID,
		Name:            profile.Name(),
		HomeCity:        profile.HomeCity,
		Bio:             profile.Bio,
		ThemePreference: profile.ThemePreference,
		Visits:          make([]VisitCard, 0, len(visits)),
		Wishlist:        wishInfos(list),
	}
	for i := range visits {
		cover := mediaURL(visits[i].CoverImage())
		if cover == "" {
			cover = DefaultCoverURL
		}
		result.Visits = append(result.Visits, VisitCard{
			ID:          visits[i].ID,
			CafeID:      visits[i].CafeID,
			CafeName:    visits[i].Cafe.Name,
			DateVisited: visits[i].DateVisited.Format("2006-01-02"),
			UserRating:  visits[i].UserRating,
			ImageURL:    cover,
		})
	}
	c.JSON(http.StatusOK, result)
}

func ThemeUpdate(c *gin.Context, profile *models.Profile) {
	theme := c.Param("theme_name")
	err := profile.SetTheme(db.Instance, theme)
	if models.KindOf(err) == models.FaultValidation {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": faultMessage(err)})
		return
	}
	if err != nil {
		logger.Log.Error("theme update failed", zap.Uint64("profile_id", profile.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": faultMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "theme": theme})
}
