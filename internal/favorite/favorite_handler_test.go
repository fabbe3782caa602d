package favorite

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DarkArtheme/museumguide-backend/internal/models"
	"github.com/DarkArtheme/museumguide-backend/internal/store/storetest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(h *FavoriteHandler) *gin.Engine {
	r := gin.New()
	r.POST("/get_favorites", h.GetFavorites)
	r.POST("/add_to_favorites", h.AddToFavorites)
	r.POST("/delete_from_favorites", h.DeleteFromFavorites)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestGetFavoritesUnknownUserCreatesRecord(t *testing.T) {
	favs := storetest.NewFavorites()
	r := newRouter(NewFavoriteHandler(favs, nil))

	w := post(r, "/get_favorites", `{"user_id":"new-user"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	ids, ok := favs.Record("new-user")
	assert.True(t, ok)
	assert.Empty(t, ids)
}

func TestAddToFavoritesIsIdempotent(t *testing.T) {
	favs := storetest.NewFavorites()
	pub := &storetest.Publisher{}
	r := newRouter(NewFavoriteHandler(favs, pub))

	w := post(r, "/add_to_favorites", `{"user_id":"u1","fav_id":2}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = post(r, "/add_to_favorites", `{"user_id":"u1","fav_id":2}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(r, "/get_favorites", `{"user_id":"u1"}`)
	assert.JSONEq(t, `[2]`, w.Body.String())

	assert.Equal(t, []models.FavoriteMsg{
		{UserID: "u1", MuseumID: 2, Action: models.FavoriteActionAdd},
	}, pub.Published())
}

func TestAddToFavoritesAcceptsZeroID(t *testing.T) {
	favs := storetest.NewFavorites()
	r := newRouter(NewFavoriteHandler(favs, nil))

	w := post(r, "/add_to_favorites", `{"user_id":"","fav_id":0}`)
	require.Equal(t, http.StatusOK, w.Code)

	ids, _ := favs.Record("")
	assert.Equal(t, []int{0}, ids)
}

func TestDeleteFromFavorites(t *testing.T) {
	favs := storetest.NewFavorites()
	pub := &storetest.Publisher{}
	r := newRouter(NewFavoriteHandler(favs, pub))

	post(r, "/add_to_favorites", `{"user_id":"u1","fav_id":1}`)
	post(r, "/add_to_favorites", `{"user_id":"u1","fav_id":2}`)

	w := post(r, "/delete_from_favorites", `{"user_id":"u1","fav_id":1}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	// absent id: nothing changes, nothing published
	w = post(r, "/delete_from_favorites", `{"user_id":"u1","fav_id":42}`)
	assert.Equal(t, http.StatusOK, w.Code)

	ids, _ := favs.Record("u1")
	assert.Equal(t, []int{2}, ids)
	assert.Len(t, pub.Published(), 3)
	assert.Equal(t, models.FavoriteActionRemove, pub.Published()[2].Action)
}

func TestDeleteFromFavoritesUnknownUser(t *testing.T) {
	favs := storetest.NewFavorites()
	r := newRouter(NewFavoriteHandler(favs, nil))

	w := post(r, "/delete_from_favorites", `{"user_id":"ghost","fav_id":1}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	_, ok := favs.Record("ghost")
	assert.False(t, ok)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	favs := storetest.NewFavorites()
	pub := &storetest.Publisher{Err: errors.New("broker down")}
	r := newRouter(NewFavoriteHandler(favs, pub))

	w := post(r, "/add_to_favorites", `{"user_id":"u1","fav_id":3}`)

	assert.Equal(t, http.StatusOK, w.Code)
	ids, _ := favs.Record("u1")
	assert.Equal(t, []int{3}, ids)
}

func TestFavoritesValidation(t *testing.T) {
	r := newRouter(NewFavoriteHandler(storetest.NewFavorites(), nil))

	tests := []struct {
		name string
		path string
		body string
	}{
		{"missing user id", "/get_favorites", `{}`},
		{"user id object", "/get_favorites", `{"user_id":{"id":5}}`},
		{"null user id", "/get_favorites", `{"user_id":null}`},
		{"missing fav id", "/add_to_favorites", `{"user_id":"u1"}`},
		{"fav id not a number", "/add_to_favorites", `{"user_id":"u1","fav_id":"two"}`},
		{"fav id fractional", "/add_to_favorites", `{"user_id":"u1","fav_id":2.5}`},
		{"malformed json", "/delete_from_favorites", `{"user_id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(r, tt.path, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestFavoritesCoercesIDs(t *testing.T) {
	favs := storetest.NewFavorites()
	r := newRouter(NewFavoriteHandler(favs, nil))

	w := post(r, "/add_to_favorites", `{"user_id":"u1","fav_id":"3"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	w = post(r, "/add_to_favorites", `{"user_id":"u1","fav_id":5.0}`)
	assert.Equal(t, http.StatusOK, w.Code)
	w = post(r, "/add_to_favorites", `{"user_id":42,"fav_id":1}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(r, "/get_favorites", `{"user_id":"u1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[3,5]`, w.Body.String())

	w = post(r, "/get_favorites", `{"user_id":"42"}`)
	assert.JSONEq(t, `[1]`, w.Body.String())

	w = post(r, "/delete_from_favorites", `{"user_id":"u1","fav_id":"3"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	w = post(r, "/get_favorites", `{"user_id":"u1"}`)
	assert.JSONEq(t, `[5]`, w.Body.String())
}

func TestFavoritesDatabaseError(t *testing.T) {
	favs := storetest.NewFavorites()
	favs.Err = errors.New("connection reset")
	r := newRouter(NewFavoriteHandler(favs, nil))

	for _, path := range []string{"/get_favorites", "/add_to_favorites", "/delete_from_favorites"} {
		w := post(r, path, `{"user_id":"u1","fav_id":1}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.JSONEq(t, `{"error":"database error"}`, w.Body.String(), path)
	}
}
