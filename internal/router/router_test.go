package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DarkArtheme/museumguide-backend/internal/favorite"
	"github.com/DarkArtheme/museumguide-backend/internal/models"
	"github.com/DarkArtheme/museumguide-backend/internal/museum"
	"github.com/DarkArtheme/museumguide-backend/internal/store/storetest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type app struct {
	engine    *gin.Engine
	favorites *storetest.Favorites
	publisher *storetest.Publisher
}

func newApp(ping func(context.Context) error) *app {
	catalog := storetest.NewCatalog(
		models.Museum{ID: 1, Name: "Pushkin", Pictures: []string{"p.jpg"}},
		models.Museum{ID: 2, Name: "Tretyakov", Pictures: []string{"t.jpg"}},
		models.Museum{ID: 3, Name: "Hermitage", Pictures: []string{"h.jpg"}},
	)
	favs := storetest.NewFavorites()
	pub := &storetest.Publisher{}

	engine := New(Deps{
		Museums:   museum.NewMuseumHandler(catalog, favs, nil),
		Favorites: favorite.NewFavoriteHandler(favs, pub),
		Ping:      ping,
	})
	return &app{engine: engine, favorites: favs, publisher: pub}
}

func (a *app) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	a.engine.ServeHTTP(w, req)
	return w
}

func TestStartPage(t *testing.T) {
	w := newApp(nil).do(http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `" This is start page "`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestFavoritesScenario(t *testing.T) {
	a := newApp(nil)

	w := a.do(http.MethodPost, "/museums", `{"user_id":"u1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var all []museum.ShortView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 3)
	for _, v := range all {
		assert.False(t, v.InFavourites, "museum %d", v.ID)
	}

	w = a.do(http.MethodPost, "/add_to_favorites", `{"user_id":"u1","fav_id":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	ids, ok := a.favorites.Record("u1")
	require.True(t, ok)
	assert.Equal(t, []int{2}, ids)

	w = a.do(http.MethodPost, "/favorites", `{"user_id":"u1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var favs []museum.ShortView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &favs))
	require.Len(t, favs, 1)
	assert.Equal(t, 2, favs[0].ID)
	assert.Equal(t, "t.jpg", favs[0].Pictures)
	assert.True(t, favs[0].InFavourites)

	assert.Equal(t, []models.FavoriteMsg{{UserID: "u1", MuseumID: 2, Action: "add"}}, a.publisher.Published())
}

func TestUnknownMuseumIsNull(t *testing.T) {
	w := newApp(nil).do(http.MethodPost, "/museums/by_id", `{"museum_id":999,"user_id":"u1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestGetFavoritesNewUser(t *testing.T) {
	a := newApp(nil)

	w := a.do(http.MethodPost, "/get_favorites", `{"user_id":"someone"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	_, ok := a.favorites.Record("someone")
	assert.True(t, ok)
}

func TestHealthz(t *testing.T) {
	w := newApp(func(context.Context) error { return nil }).do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = newApp(func(context.Context) error { return errors.New("no primary") }).do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	a := newApp(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/museums", nil)
	req.Header.Set("Origin", "https://museums.example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	a.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://museums.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestMetricsEndpoint(t *testing.T) {
	a := newApp(nil)
	a.do(http.MethodPost, "/museums", `{"user_id":"u1"}`)

	w := a.do(http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "museumguide_api_requests_total")
}

func TestRateLimitHookApplied(t *testing.T) {
	calls := 0
	catalog := storetest.NewCatalog()
	favs := storetest.NewFavorites()
	engine := New(Deps{
		Museums:   museum.NewMuseumHandler(catalog, favs, nil),
		Favorites: favorite.NewFavoriteHandler(favs, nil),
		RateLimit: func(c *gin.Context) {
			calls++
			c.AbortWithStatus(http.StatusTooManyRequests)
		},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/museums", bytes.NewBufferString(`{"user_id":"u1"}`))
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1, calls)
}
