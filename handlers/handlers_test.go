package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/annalapradeBU/cafe-passport/db"
	"github.com/annalapradeBU/cafe-passport/handlers"
	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/storage"
	"github.com/annalapradeBU/cafe-passport/testutil"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const email = "ana@example.com"

type client struct {
	t       *testing.T
	router  *gin.Engine
	conn    *gorm.DB
	cookies map[string]*http.Cookie
	profile models.Profile
	cafe    models.Cafe
}

// newClient runs the whole router against a temp database and storage
func newClient(t *testing.T) *client {
	gin.SetMode(gin.TestMode)
	conn := testutil.NewDB(t)
	db.Instance = conn
	storage.Use(testutil.NewDiskStorage(t))
	handlers.Init()
	c := &client{
		t:       t,
		router:  handlers.NewRouter(cookie.NewStore([]byte("test-session-key"))),
		conn:    conn,
		cookies: map[string]*http.Cookie{},
	}
	c.profile = testutil.CreateProfile(t, conn, email)
	c.cafe = testutil.CreateCafe(t, conn, "Bean There")
	return c
}

func (c *client) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

func (c *client) postMultipart(method, path string, form testutil.Multipart) *httptest.ResponseRecorder {
	body, contentType := form.Encode(c.t)
	return c.do(method, path, body, contentType)
}

func (c *client) postJSON(path string, body string) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, bytes.NewBufferString(body), "application/json")
}

func (c *client) login() {
	c.t.Helper()
	w := c.postForm("/login/", url.Values{"email": {email}, "password": {"secret-" + email}})
	require.Equal(c.t, http.StatusFound, w.Code)
	require.Equal(c.t, "/profile/"+itoa(c.profile.ID)+"/", w.Header().Get("Location"))
}

func (c *client) messages() []string {
	c.t.Helper()
	w := c.do(http.MethodGet, "/wishlist/", nil, "")
	require.Equal(c.t, http.StatusOK, w.Code)
	result := struct {
		Messages []string `json:"messages"`
	}{}
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &result))
	return result.Messages
}

func (c *client) createVisit() models.Visit {
	c.t.Helper()
	visit := models.Visit{ProfileID: c.profile.ID, CafeID: c.cafe.ID, DateVisited: time.Now(), UserRating: 4}
	require.NoError(c.t, c.conn.Omit("Profile", "Cafe").Create(&visit).Error)
	return visit
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	result := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), w.Body.String())
	return result
}

func TestLoginRequired(t *testing.T) {
	c := newClient(t)
	for _, path := range []string{"/wishlist/", "/profile/1/", "/visit/1/"} {
		w := c.do(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := c.postJSON("/sticker/place/", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupAndLogin(t *testing.T) {
	c := newClient(t)
	w := c.postForm("/signup/", url.Values{"email": {"bo@example.com"}, "password": {"long enough"}, "display_name": {"Bo"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/", w.Header().Get("Location"))

	w = c.postForm("/signup/", url.Values{"email": {"BO@example.com"}, "password": {"long enough"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.postForm("/login/", url.Values{"email": {"bo@example.com"}, "password": {"wrong password"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = c.postForm("/login/", url.Values{"email": {"bo@example.com"}, "password": {"long enough"}})
	require.Equal(t, http.StatusFound, w.Code)
	w = c.do(http.MethodGet, w.Header().Get("Location"), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bo", decode(t, w)["name"])

	c.postForm("/logout/", nil)
	w = c.do(http.MethodGet, "/wishlist/", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileCoverImages(t *testing.T) {
	c := newClient(t)
	c.login()
	withCafeImage := c.createVisit()
	plain := testutil.CreateCafe(t, c.conn, "Plain")
	require.NoError(t, c.conn.Model(&plain).Update("image", "").Error)
	noImage := models.Visit{ProfileID: c.profile.ID, CafeID: plain.ID, DateVisited: time.Now().AddDate(0, 0, -1), UserRating: 3}
	require.NoError(t, c.conn.Omit("Profile", "Cafe").Create(&noImage).Error)
	require.NoError(t, c.conn.Omit("Profile", "Cafe").Create(&models.Wish{ProfileID: c.profile.ID, CafeID: c.cafe.ID}).Error)

	w := c.do(http.MethodGet, "/profile/"+itoa(c.profile.ID)+"/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	info := handlers.ProfileInfo{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	require.Len(t, info.Visits, 2)
	assert.Equal(t, withCafeImage.ID, info.Visits[0].ID)
	assert.Equal(t, c.cafe.Image, info.Visits[0].ImageURL)
	assert.Equal(t, handlers.DefaultCoverURL, info.Visits[1].ImageURL)
	require.Len(t, info.Wishlist, 1)
	assert.True(t, info.Wishlist[0].HasVisited)
}

func TestThemeUpdate(t *testing.T) {
	c := newClient(t)
	c.login()
	w := c.do(http.MethodPost, "/profile/theme/forest/update/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "forest", decode(t, w)["theme"])

	w = c.do(http.MethodPost, "/profile/theme/neon/update/", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", decode(t, w)["status"])

	profile, err := models.FindProfile(c.conn, c.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "forest", profile.ThemePreference)
}

func TestVisitCreateForm(t *testing.T) {
	c := newClient(t)
	c.login()
	png := testutil.PNG(t)
	w := c.postMultipart(http.MethodPost, "/cafe/"+itoa(c.cafe.ID)+"/add_visit/", testutil.Multipart{
		Values: map[string]string{
			"date_visited":              "2025-03-14",
			"user_rating":               "4.5",
			"amount_spent":              "7.25",
			"notes":                     "window seat",
			"photos-TOTAL_FORMS":        "1",
			"photos-0-caption":          "latte art",
			"items-TOTAL_FORMS":         "1",
			"items-0-name":              "Cortado",
			"items-0-price":             "3.5",
			"items-0-rating":            "5",
			"item_photos-0-TOTAL_FORMS": "1",
		},
		Files: map[string][]byte{"photos-0-image": png, "item_photos-0-0-image": png},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	location := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "/visit/"))

	w = c.do(http.MethodGet, location, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	visit := handlers.VisitInfo{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &visit))
	assert.Equal(t, "2025-03-14", visit.DateVisited)
	assert.Equal(t, 7.25, visit.AmountSpent)
	require.Len(t, visit.Photos, 1)
	assert.Equal(t, "latte art", visit.Photos[0].Caption)
	require.Len(t, visit.FavoriteItems, 1)
	require.Len(t, visit.FavoriteItems[0].Photos, 1)

	w = c.do(http.MethodGet, visit.Photos[0].ImageURL, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, png, w.Body.Bytes())
}

func TestVisitCreateInvalidFormIsEchoed(t *testing.T) {
	c := newClient(t)
	c.login()
	w := c.postMultipart(http.MethodPost, "/cafe/"+itoa(c.cafe.ID)+"/add_visit/", testutil.Multipart{
		Values: map[string]string{"user_rating": "9", "notes": "keep me"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	result := decode(t, w)
	assert.Equal(t, "Please correct the errors in the visit details.", result["error"])
	assert.Contains(t, w.Body.String(), "keep me")

	var visits int64
	require.NoError(t, c.conn.Model(&models.Visit{}).Count(&visits).Error)
	assert.Zero(t, visits)

	w = c.postMultipart(http.MethodPost, "/cafe/999/add_visit/", testutil.Multipart{
		Values: map[string]string{"date_visited": "2025-03-14", "user_rating": "4"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVisitUpdateAndDelete(t *testing.T) {
	c := newClient(t)
	c.login()
	visit := c.createVisit()
	path := "/visit/" + itoa(visit.ID) + "/"

	w := c.postMultipart(http.MethodPost, path+"update/", testutil.Multipart{
		Values: map[string]string{"date_visited": "2024-12-24", "user_rating": "2", "notes": "too busy"},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Contains(t, c.messages(), "Visit to Bean There updated successfully!")

	stored := models.Visit{}
	require.NoError(t, c.conn.First(&stored, visit.ID).Error)
	assert.Equal(t, "too busy", stored.Notes)
	assert.Equal(t, 2.0, stored.UserRating)

	w = c.do(http.MethodPost, path+"delete/", nil, "")
	require.Equal(t, http.StatusFound, w.Code)
	w = c.do(http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVisitOfAnotherProfile(t *testing.T) {
	c := newClient(t)
	other := testutil.CreateProfile(t, c.conn, "bo@example.com")
	visit := models.Visit{ProfileID: other.ID, CafeID: c.cafe.ID, DateVisited: time.Now(), UserRating: 4}
	require.NoError(t, c.conn.Omit("Profile", "Cafe").Create(&visit).Error)
	c.login()

	w := c.do(http.MethodGet, "/visit/"+itoa(visit.ID)+"/", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = c.do(http.MethodPost, "/visit/"+itoa(visit.ID)+"/delete/", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVisitLog(t *testing.T) {
	c := newClient(t)
	c.login()
	png := testutil.PNG(t)
	path := "/cafe/" + itoa(c.cafe.ID) + "/log_visit/"
	form := testutil.Multipart{
		Values: map[string]string{
			"date_visited": "2025-03-14",
			"user_rating":  "4",
			"amount_spent": "12",
			"dynamic_data": `{"visitPhotos":[{"file_key":"p1","caption":"bar"},{"file_key":"missing"}],
				"favoriteItems":[{"name":"Mocha","price":"4.5","rating":5,"photos":[{"file_key":"i1"}]},{"name":""}]}`,
		},
		Files: map[string][]byte{"p1": png, "i1": png},
	}
	for _, method := range []string{http.MethodPost, http.MethodPut} {
		w := c.postMultipart(method, path, form)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		result := decode(t, w)
		assert.Equal(t, true, result["success"])
		assert.Equal(t, "Visit logged successfully!", result["detail"])
		assert.True(t, strings.HasPrefix(result["redirect_url"].(string), "/visit/"))
	}

	var photos, items int64
	require.NoError(t, c.conn.Model(&models.VisitPhoto{}).Count(&photos).Error)
	require.NoError(t, c.conn.Model(&models.FavoriteItem{}).Count(&items).Error)
	assert.EqualValues(t, 2, photos)
	assert.EqualValues(t, 2, items)
}

func TestVisitLogErrors(t *testing.T) {
	c := newClient(t)
	c.login()
	path := "/cafe/" + itoa(c.cafe.ID) + "/log_visit/"
	values := map[string]string{"date_visited": "2025-03-14", "user_rating": "4", "amount_spent": "1"}

	w := c.postMultipart(http.MethodPost, path, testutil.Multipart{Values: values})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing 'dynamic_data' payload.", decode(t, w)["detail"])

	values["dynamic_data"] = "{not json"
	w = c.postMultipart(http.MethodPost, path, testutil.Multipart{Values: values})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON format in 'dynamic_data' field.", decode(t, w)["detail"])

	values["dynamic_data"] = "{}"
	w = c.postMultipart(http.MethodPost, "/cafe/999/log_visit/", testutil.Multipart{Values: values})
	assert.Equal(t, http.StatusNotFound, w.Code)

	delete(values, "user_rating")
	w = c.postMultipart(http.MethodPost, path, testutil.Multipart{Values: values})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	result := decode(t, w)
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "A database error occurred (missing required data or constraint violation).", result["detail"])
}

func TestStickers(t *testing.T) {
	c := newClient(t)
	c.login()
	visit := c.createVisit()
	testutil.CreateStickerType(t, c.conn, "heart")

	w := c.postJSON("/sticker/place/", `{"visit_id":`+itoa(visit.ID)+`,"sticker_type":"heart","x":"10.5","y":20}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode(t, w)
	assert.Equal(t, "success", result["status"])
	id := uint64(result["id"].(float64))

	w = c.postJSON("/update-sticker/", `{"sticker_id":`+itoa(id)+`,"x":1,"y":2,"rotation":45,"scale":"1.5"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "success", decode(t, w)["status"])

	w = c.postJSON("/update-sticker/", `{"sticker_id":`+itoa(id)+`,"x":"left","y":2,"rotation":45,"scale":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", decode(t, w)["status"])

	w = c.do(http.MethodGet, "/visit/"+itoa(visit.ID)+"/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	info := handlers.VisitInfo{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	require.Len(t, info.Stickers, 1)
	assert.Equal(t, 45.0, info.Stickers[0].Rotation)
	assert.Equal(t, 1.5, info.Stickers[0].Scale)
	require.Len(t, info.StickerTypes, 1)

	w = c.postJSON("/sticker/place/", `{"visit_id":`+itoa(visit.ID)+`,"sticker_type":"unicorn"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Sticker type not found.", decode(t, w)["message"])

	w = c.postJSON("/stickers/delete/", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = c.postJSON("/stickers/delete/", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.postJSON("/stickers/delete/", `{"sticker_id":`+itoa(id)+`}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sticker "+itoa(id)+" deleted.", decode(t, w)["message"])

	w = c.postJSON("/stickers/delete/", `{"sticker_id":`+itoa(id)+`}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Sticker not found.", decode(t, w)["message"])
}

func TestWishAddRemove(t *testing.T) {
	c := newClient(t)
	c.login()
	cafePath := "/cafe/" + itoa(c.cafe.ID) + "/"

	w := c.do(http.MethodPost, cafePath+"add_wish/", nil, "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, cafePath, w.Header().Get("Location"))
	assert.Equal(t, []string{"Successfully added Bean There to your wishlist!"}, c.messages())

	c.do(http.MethodPost, cafePath+"add_wish/", nil, "")
	assert.Equal(t, []string{"Bean There is already on your wishlist."}, c.messages())

	w = c.do(http.MethodGet, cafePath, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["wishlisted"])

	c.do(http.MethodPost, cafePath+"remove_wish/", nil, "")
	assert.Equal(t, []string{"Successfully removed Bean There from your wishlist."}, c.messages())
	c.do(http.MethodPost, cafePath+"remove_wish/", nil, "")
	assert.Equal(t, []string{"Bean There was not found on your wishlist."}, c.messages())

	w = c.do(http.MethodPost, "/cafe/999/add_wish/", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWishlistAdd(t *testing.T) {
	c := newClient(t)
	c.login()

	w := c.postForm("/wishlist/add/", url.Values{"cafe_choice": {itoa(c.cafe.ID)}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/wishlist/", w.Header().Get("Location"))

	w = c.postForm("/wishlist/add/", url.Values{
		"new_cafe_submit": {"1"},
		"name":            {"Grind House"},
		"address":         {"2 Side St"},
		"new_tags":        {"cozy, wifi"},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	w = c.do(http.MethodGet, "/wishlist/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	result := struct {
		Wishes   []handlers.WishInfo `json:"wishes"`
		Messages []string            `json:"messages"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Wishes, 2)
	assert.Equal(t, []string{
		"Successfully added Bean There to your wishlist.",
		"New cafe, Grind House, created and added to wishlist.",
	}, result.Messages)

	cafe := models.Cafe{}
	require.NoError(t, c.conn.Preload("Tags").Where("name = ?", "Grind House").First(&cafe).Error)
	assert.Len(t, cafe.Tags, 2)

	w = c.postForm("/wishlist/add/", url.Values{"new_cafe_submit": {"1"}, "name": {"No Address"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = c.postForm("/wishlist/add/", url.Values{"cafe_choice": {""}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCafeCrud(t *testing.T) {
	c := newClient(t)
	c.login()

	w := c.postForm("/cafes/new/", url.Values{"name": {"Drip"}, "address": {"3 Corner"}, "rating": {"4.5"}, "add_to_wishlist": {"false"}})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	path := w.Header().Get("Location")

	w = c.postForm(path+"edit/", url.Values{"name": {"Drip Bar"}, "address": {"3 Corner"}, "new_tags": {"espresso"}})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	w = c.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	detail := handlers.CafeDetail{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "Drip Bar", detail.Name)
	assert.False(t, detail.Wishlisted)
	require.Len(t, detail.Tags, 1)
	assert.Equal(t, "espresso", detail.Tags[0].Name)

	w = c.do(http.MethodGet, "/tags/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	tags := []handlers.TagInfo{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, detail.Tags[0].ID, tags[0].ID)

	w = c.do(http.MethodPost, path+"delete/", nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, c.conn.Model(&models.User{}).Where("id = ?", c.profile.UserID).Update("is_staff", true).Error)
	w = c.do(http.MethodPost, path+"delete/", nil, "")
	require.Equal(t, http.StatusFound, w.Code)
	w = c.do(http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetrics(t *testing.T) {
	c := newClient(t)
	c.login()
	c.do(http.MethodPost, "/cafe/"+itoa(c.cafe.ID)+"/add_wish/", nil, "")

	w := c.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cafe_passport_wishlist_changes_total")
}

func TestItemShow(t *testing.T) {
	c := newClient(t)
	visit := c.createVisit()
	item := models.FavoriteItem{VisitID: visit.ID, Name: "Cortado", Price: 3.5, Rating: 5}
	require.NoError(t, c.conn.Omit("Visit").Create(&item).Error)
	require.NoError(t, c.conn.Omit("FavoriteItem").Create(&models.ItemPhoto{FavoriteItemID: item.ID, Image: "item_photos/a.png", Caption: "foam"}).Error)
	path := "/item/" + itoa(item.ID) + "/"

	w := c.do(http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c.login()
	w = c.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	detail := handlers.ItemDetail{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "Cortado", detail.Name)
	assert.Equal(t, visit.ID, detail.VisitID)
	assert.Equal(t, "Bean There", detail.Cafe.Name)
	require.Len(t, detail.Photos, 1)
	assert.Equal(t, "/media/item_photos/a.png", detail.Photos[0].ImageURL)

	other := testutil.CreateProfile(t, c.conn, "bo@example.com")
	otherVisit := models.Visit{ProfileID: other.ID, CafeID: c.cafe.ID, DateVisited: time.Now(), UserRating: 3}
	require.NoError(t, c.conn.Omit("Profile", "Cafe").Create(&otherVisit).Error)
	otherItem := models.FavoriteItem{VisitID: otherVisit.ID, Name: "Tea"}
	require.NoError(t, c.conn.Omit("Visit").Create(&otherItem).Error)
	w = c.do(http.MethodGet, "/item/"+itoa(otherItem.ID)+"/", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBucketSaveSwitchesStorage(t *testing.T) {
	c := newClient(t)
	c.login()
	require.NoError(t, c.conn.Model(&models.User{}).Where("id = ?", c.profile.UserID).Update("is_staff", true).Error)
	dir := t.TempDir()
	body, err := json.Marshal(storage.Bucket{Name: "photos", StorageType: storage.StorageTypeFile, Path: dir})
	require.NoError(t, err)

	w := c.postJSON("/bucket/save", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, dir, storage.GetDefaultStorage().GetBucket().Path)

	// the running services write to the new bucket without being rebuilt
	w = c.postMultipart(http.MethodPost, "/cafe/"+itoa(c.cafe.ID)+"/add_visit/", testutil.Multipart{
		Values: map[string]string{
			"date_visited":       "2025-03-14",
			"user_rating":        "4",
			"photos-TOTAL_FORMS": "1",
		},
		Files: map[string][]byte{"photos-0-image": testutil.PNG(t)},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, 2, testutil.CountFiles(t, storage.GetDefaultStorage(), storage.LocationVisitPhotos))
}
