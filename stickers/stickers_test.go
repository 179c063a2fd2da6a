package stickers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/annalapradeBU/cafe-passport/models"
	"github.com/annalapradeBU/cafe-passport/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	conn    *gorm.DB
	ctrl    *Controller
	profile models.Profile
	visit   models.Visit
	heart   models.StickerType
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{conn: testutil.NewDB(t)}
	f.ctrl = NewController(f.conn, time.Minute)
	f.profile = testutil.CreateProfile(t, f.conn, "ana@example.com")
	cafe := testutil.CreateCafe(t, f.conn, "Bean There")
	f.visit = models.Visit{ProfileID: f.profile.ID, CafeID: cafe.ID, DateVisited: time.Now(), UserRating: 4}
	require.NoError(t, f.conn.Omit("Profile", "Cafe").Create(&f.visit).Error)
	f.heart = testutil.CreateStickerType(t, f.conn, "heart")
	return f
}

func raw(s string) json.RawMessage {
	return json.RawMessage(s)
}

func (f *fixture) place(t *testing.T) uint64 {
	id, err := f.ctrl.Place(&f.profile, PlaceRequest{VisitID: raw(itoa(f.visit.ID)), StickerType: "heart"})
	require.NoError(t, err)
	return id
}

func (f *fixture) sticker(t *testing.T, id uint64) (s models.Sticker) {
	require.NoError(t, f.conn.First(&s, id).Error)
	return
}

func itoa(id uint64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestPlaceDefaults(t *testing.T) {
	f := newFixture(t)
	s := f.sticker(t, f.place(t))
	assert.Equal(t, f.visit.ID, s.VisitID)
	require.NotNil(t, s.TypeID)
	assert.Equal(t, f.heart.ID, *s.TypeID)
	assert.Equal(t, f.heart.Image, s.Image)
	assert.Zero(t, s.XPosition)
	assert.Zero(t, s.YPosition)
	assert.Zero(t, s.Rotation)
	assert.Equal(t, 1.0, s.Scale)

	id, err := f.ctrl.Place(&f.profile, PlaceRequest{VisitID: raw(itoa(f.visit.ID)), StickerType: "heart", X: raw(`10`), Y: raw(`20`)})
	require.NoError(t, err)
	s = f.sticker(t, id)
	assert.Equal(t, []float64{10, 20, 0, 1}, []float64{s.XPosition, s.YPosition, s.Rotation, s.Scale})
}

func TestPlaceCoercesNumbers(t *testing.T) {
	f := newFixture(t)
	id, err := f.ctrl.Place(&f.profile, PlaceRequest{
		VisitID:     raw(`"` + itoa(f.visit.ID) + `"`),
		StickerType: "heart",
		X:           raw(`"12.5"`),
		Y:           raw(`40`),
		Rotation:    raw(`-15`),
		Scale:       raw(`"1.5"`),
	})
	require.NoError(t, err)
	s := f.sticker(t, id)
	assert.Equal(t, 12.5, s.XPosition)
	assert.Equal(t, 40.0, s.YPosition)
	assert.Equal(t, -15.0, s.Rotation)
	assert.Equal(t, 1.5, s.Scale)
}

func TestPlaceFailures(t *testing.T) {
	f := newFixture(t)
	other := testutil.CreateProfile(t, f.conn, "bo@example.com")
	visitID := raw(itoa(f.visit.ID))
	tests := []struct {
		name    string
		profile *models.Profile
		req     PlaceRequest
		kind    models.FaultKind
	}{
		{"bad x", &f.profile, PlaceRequest{VisitID: visitID, StickerType: "heart", X: raw(`"left"`)}, models.FaultValidation},
		{"null scale", &f.profile, PlaceRequest{VisitID: visitID, StickerType: "heart", Scale: raw(`null`)}, models.FaultValidation},
		{"boolean y", &f.profile, PlaceRequest{VisitID: visitID, StickerType: "heart", Y: raw(`true`)}, models.FaultValidation},
		{"missing visit", &f.profile, PlaceRequest{StickerType: "heart"}, models.FaultRequestFormat},
		{"unknown visit", &f.profile, PlaceRequest{VisitID: raw(`9999`), StickerType: "heart"}, models.FaultNotFound},
		{"someone else's visit", &other, PlaceRequest{VisitID: visitID, StickerType: "heart"}, models.FaultNotFound},
		{"unknown type", &f.profile, PlaceRequest{VisitID: visitID, StickerType: "unicorn"}, models.FaultNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ctrl.Place(tt.profile, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, models.KindOf(err))
		})
	}
	var total int64
	require.NoError(t, f.conn.Model(&models.Sticker{}).Count(&total).Error)
	assert.Zero(t, total)
}

func TestPlacedImageIsACopy(t *testing.T) {
	f := newFixture(t)
	id := f.place(t)
	require.NoError(t, f.conn.Model(&f.heart).Update("image", "stickers/heart-v2.png").Error)
	assert.Equal(t, "stickers/heart.png", f.sticker(t, id).Image)

	// deleting the catalog entry keeps the sticker displayable
	require.NoError(t, f.conn.Delete(&f.heart).Error)
	s := f.sticker(t, id)
	assert.Nil(t, s.TypeID)
	assert.Equal(t, "stickers/heart.png", s.Image)
}

func TestPlaceUsesCurrentType(t *testing.T) {
	f := newFixture(t)
	f.place(t)
	require.NoError(t, f.conn.Model(&f.heart).Update("image", "stickers/changed.png").Error)
	assert.Equal(t, "stickers/changed.png", f.sticker(t, f.place(t)).Image)

	require.NoError(t, f.conn.Delete(&f.heart).Error)
	_, err := f.ctrl.Place(&f.profile, PlaceRequest{VisitID: raw(itoa(f.visit.ID)), StickerType: "heart"})
	require.Error(t, err)
	assert.Equal(t, models.FaultNotFound, models.KindOf(err))
	assert.Contains(t, err.Error(), MsgTypeNotFound)
}

func TestCatalogCache(t *testing.T) {
	f := newFixture(t)
	types, err := f.ctrl.Catalog()
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "heart", types[0].Name)

	// listed from the cache until the TTL runs out
	testutil.CreateStickerType(t, f.conn, "star")
	types, err = f.ctrl.Catalog()
	require.NoError(t, err)
	assert.Len(t, types, 1)

	types, err = NewController(f.conn, time.Minute).Catalog()
	require.NoError(t, err)
	assert.Len(t, types, 2)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	id := f.place(t)
	stickerID := raw(itoa(id))

	err := f.ctrl.Update(&f.profile, UpdateRequest{ID: stickerID, X: raw(`10`), Y: raw(`"20"`), Rotation: raw(`30`), Scale: raw(`2`)})
	require.NoError(t, err)
	s := f.sticker(t, id)
	assert.Equal(t, []float64{10, 20, 30, 2}, []float64{s.XPosition, s.YPosition, s.Rotation, s.Scale})

	// last write wins
	err = f.ctrl.Update(&f.profile, UpdateRequest{ID: stickerID, X: raw(`1`), Y: raw(`2`), Rotation: raw(`3`), Scale: raw(`0.5`)})
	require.NoError(t, err)
	s = f.sticker(t, id)
	assert.Equal(t, []float64{1, 2, 3, 0.5}, []float64{s.XPosition, s.YPosition, s.Rotation, s.Scale})
}

func TestUpdateLeavesRowUntouchedOnFailure(t *testing.T) {
	f := newFixture(t)
	id := f.place(t)
	other := testutil.CreateProfile(t, f.conn, "bo@example.com")
	tests := []struct {
		name    string
		profile *models.Profile
		req     UpdateRequest
		kind    models.FaultKind
	}{
		{"missing rotation", &f.profile, UpdateRequest{ID: raw(itoa(id)), X: raw(`5`), Y: raw(`5`), Scale: raw(`1`)}, models.FaultValidation},
		{"missing scale", &f.profile, UpdateRequest{ID: raw(itoa(id)), X: raw(`5`), Y: raw(`5`), Rotation: raw(`5`)}, models.FaultValidation},
		{"bad rotation", &f.profile, UpdateRequest{ID: raw(itoa(id)), X: raw(`5`), Y: raw(`5`), Rotation: raw(`"spin"`), Scale: raw(`1`)}, models.FaultValidation},
		{"missing id", &f.profile, UpdateRequest{X: raw(`5`), Y: raw(`5`), Rotation: raw(`5`), Scale: raw(`1`)}, models.FaultRequestFormat},
		{"unknown sticker", &f.profile, UpdateRequest{ID: raw(`9999`), X: raw(`5`), Y: raw(`5`), Rotation: raw(`5`), Scale: raw(`1`)}, models.FaultNotFound},
		{"someone else's sticker", &other, UpdateRequest{ID: raw(itoa(id)), X: raw(`5`), Y: raw(`5`), Rotation: raw(`5`), Scale: raw(`1`)}, models.FaultNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.ctrl.Update(tt.profile, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, models.KindOf(err))
			s := f.sticker(t, id)
			assert.Equal(t, []float64{0, 0, 0, 1}, []float64{s.XPosition, s.YPosition, s.Rotation, s.Scale})
		})
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	id := f.place(t)

	_, err := f.ctrl.Delete(&f.profile, DeleteRequest{})
	assert.Equal(t, models.FaultRequestFormat, models.KindOf(err))

	other := testutil.CreateProfile(t, f.conn, "bo@example.com")
	_, err = f.ctrl.Delete(&other, DeleteRequest{StickerID: raw(itoa(id))})
	assert.Equal(t, models.FaultNotFound, models.KindOf(err))

	deleted, err := f.ctrl.Delete(&f.profile, DeleteRequest{StickerID: raw(itoa(id))})
	require.NoError(t, err)
	assert.Equal(t, id, deleted)

	_, err = f.ctrl.Delete(&f.profile, DeleteRequest{StickerID: raw(itoa(id))})
	assert.Equal(t, models.FaultNotFound, models.KindOf(err))
}
