package visits

import (
	"strconv"
	"testing"

	"github.com/annalapradeBU/cafe-passport/config"
	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/storage"
	"github.com/annalapradeBU/cafe-passport/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func logRequest(t *testing.T, values map[string]string, files ...string) LogRequest {
	all := map[string]string{
		"date_visited": "2025-04-01",
		"user_rating":  "4.5",
		"amount_spent": "9.75",
		"notes":        "rainy day",
	}
	for k, v := range values {
		all[k] = v
	}
	uploads := map[string][]byte{}
	for _, key := range files {
		uploads[key] = testutil.PNG(t)
	}
	return NewLogRequest(testutil.Multipart{Values: all, Files: uploads}.Form(t))
}

func TestLog(t *testing.T) {
	f := newFixture(t)
	req := logRequest(t, map[string]string{"dynamic_data": `{
		"visitPhotos": [{"file_key": "visit_photo_0", "caption": "storefront"}, {"file_key": "missing"}],
		"favoriteItems": [
			{"name": "Chai", "price": "4.25", "rating": 5, "description": "spicy",
			 "photos": [{"file_key": "item_photo_0_0", "caption": "cup"}, {"file_key": "nope"}]},
			{"name": "", "price": 1, "rating": 1},
			{"name": "Muffin", "price": 3, "rating": "4"}
		]}`}, "visit_photo_0", "item_photo_0_0")

	visit, err := f.service.Log(&f.profile, f.cafe.ID, req)
	require.NoError(t, err)
	stored, err := models.FindVisitForProfile(f.conn, visit.ID, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, stored.UserRating)
	assert.Equal(t, 9.75, stored.AmountSpent)
	assert.Equal(t, "rainy day", stored.Notes)
	require.Len(t, stored.Photos, 1)
	assert.Equal(t, "storefront", stored.Photos[0].Caption)
	require.Len(t, stored.FavoriteItems, 2)
	assert.Equal(t, "Chai", stored.FavoriteItems[0].Name)
	assert.Equal(t, 4.25, stored.FavoriteItems[0].Price)
	require.Len(t, stored.FavoriteItems[0].Photos, 1)
	assert.Equal(t, "cup", stored.FavoriteItems[0].Photos[0].Caption)
	assert.Equal(t, "Muffin", stored.FavoriteItems[1].Name)
	assert.Equal(t, 4.0, stored.FavoriteItems[1].Rating)
}

func TestLogEmptyCollections(t *testing.T) {
	f := newFixture(t)
	visit, err := f.service.Log(&f.profile, f.cafe.ID, logRequest(t, map[string]string{"dynamic_data": `{}`}))
	require.NoError(t, err)
	assert.NotZero(t, visit.ID)
	assert.Zero(t, f.count(t, &models.VisitPhoto{}))
}

func TestLogPayloadErrors(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Log(&f.profile, f.cafe.ID, logRequest(t, nil))
	require.Error(t, err)
	assert.Equal(t, models.FaultRequestFormat, models.KindOf(err))
	assert.Equal(t, MsgMissingPayload, err.Error())

	_, err = f.service.Log(&f.profile, f.cafe.ID, logRequest(t, map[string]string{"dynamic_data": `{"visitPhotos": [`}))
	require.Error(t, err)
	assert.Equal(t, models.FaultRequestFormat, models.KindOf(err))
	var fault *models.Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, MsgInvalidPayload, fault.Message)
	assert.Zero(t, f.count(t, &models.Visit{}))
}

func TestLogTooManyPhotos(t *testing.T) {
	f := newFixture(t)
	keys := []string{"a", "b", "c", "d", "e", "f"}
	payload := `{"visitPhotos": [`
	for i, key := range keys {
		if i > 0 {
			payload += ","
		}
		payload += `{"file_key": "` + key + `"}`
	}
	payload += `]}`
	_, err := f.service.Log(&f.profile, f.cafe.ID, logRequest(t, map[string]string{"dynamic_data": payload}, keys...))
	assert.Equal(t, models.FaultRequestFormat, models.KindOf(err))
	assert.Zero(t, f.count(t, &models.Visit{}))
}

func TestLogMissingValuesAreConstraintFaults(t *testing.T) {
	f := newFixture(t)
	tests := map[string]map[string]string{
		"missing date":   {"date_visited": "", "dynamic_data": `{}`},
		"missing rating": {"user_rating": "", "dynamic_data": `{}`},
		"missing price":  {"dynamic_data": `{"favoriteItems": [{"name": "Tea", "rating": 3}]}`},
		"null rating":    {"dynamic_data": `{"favoriteItems": [{"name": "Tea", "price": 3, "rating": null}]}`},
	}
	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.Log(&f.profile, f.cafe.ID, logRequest(t, values))
			require.Error(t, err)
			assert.Equal(t, models.FaultConstraint, models.KindOf(err))
			var fault *models.Fault
			require.ErrorAs(t, err, &fault)
			assert.Equal(t, MsgConstraint, fault.Message)
		})
	}
	assert.Zero(t, f.count(t, &models.Visit{}))
	assert.Zero(t, f.count(t, &models.FavoriteItem{}))
}

func TestLogUnexpectedFault(t *testing.T) {
	f := newFixture(t)
	debug := config.DEBUG_MODE
	defer func() { config.DEBUG_MODE = debug }()
	req := logRequest(t, map[string]string{"dynamic_data": `{"favoriteItems": [{"name": "Tea", "price": "cheap", "rating": 3}]}`}, "x")

	config.DEBUG_MODE = false
	_, err := f.service.Log(&f.profile, f.cafe.ID, req)
	var fault *models.Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, models.FaultUnexpected, fault.Kind)
	assert.Equal(t, "An internal server error occurred.", fault.Message)

	config.DEBUG_MODE = true
	_, err = f.service.Log(&f.profile, f.cafe.ID, req)
	require.ErrorAs(t, err, &fault)
	assert.Contains(t, fault.Message, "cheap")
	assert.Zero(t, f.count(t, &models.Visit{}))
}

func TestLogRollsBackStoredFiles(t *testing.T) {
	f := newFixture(t)
	f.service.Storage = &failingStorage{StorageAPI: f.store, allow: 2}
	req := logRequest(t, map[string]string{"dynamic_data": `{"visitPhotos": [{"file_key": "a"}, {"file_key": "b"}]}`}, "a", "b")

	_, err := f.service.Log(&f.profile, f.cafe.ID, req)
	require.Error(t, err)
	assert.Zero(t, f.count(t, &models.Visit{}))
	assert.Zero(t, testutil.CountFiles(t, f.store, storage.LocationVisitPhotos))
}
