package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owusuprince21/cheaprides.backend/internal/cars"
)

type fakeStore struct {
	cars []cars.Car
	err  error
}

func (f *fakeStore) available() []cars.Car {
	out := []cars.Car{}
	for _, c := range f.cars {
		if c.IsAvailable {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeStore) List(_ context.Context) ([]cars.Car, error) {
	return f.available(), f.err
}

func (f *fakeStore) Recent(_ context.Context) ([]cars.Car, error) {
	list := f.available()
	if len(list) > 8 {
		list = list[:8]
	}
	return list, f.err
}

func (f *fakeStore) Featured(_ context.Context) ([]cars.Car, error) {
	out := []cars.Car{}
	for _, c := range f.available() {
		if c.IsFeatured {
			out = append(out, c)
		}
	}
	return out, f.err
}

func (f *fakeStore) BySlug(_ context.Context, slug string) (*cars.Car, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.cars {
		if f.cars[i].Slug == slug && f.cars[i].IsAvailable {
			return &f.cars[i], nil
		}
	}
	return nil, cars.ErrNotFound
}

func (f *fakeStore) Related(_ context.Context, slug string) ([]cars.Car, error) {
	if f.err != nil {
		return nil, f.err
	}
	base, err := f.BySlug(context.Background(), slug)
	if err != nil {
		return []cars.Car{}, nil
	}
	out := []cars.Car{}
	for _, c := range f.available() {
		if c.Make == base.Make && c.Slug != slug && len(out) < 4 {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, car *cars.Car) error {
	car.ID = int64(len(f.cars) + 1)
	car.Slug = cars.Slugify(car.Title)
	f.cars = append(f.cars, *car)
	return nil
}

func (f *fakeStore) AddImage(_ context.Context, _ *cars.Image) error { return nil }

func (f *fakeStore) Stats(_ context.Context) (cars.Stats, error) {
	return cars.Stats{}, nil
}

func seededStore() *fakeStore {
	return &fakeStore{cars: []cars.Car{
		{ID: 1, Slug: "toyota-corolla", Title: "Toyota Corolla", Make: "Toyota", IsAvailable: true},
		{ID: 2, Slug: "toyota-camry", Title: "Toyota Camry", Make: "Toyota", IsAvailable: true, IsFeatured: true},
		{ID: 3, Slug: "honda-civic", Title: "Honda Civic", Make: "Honda", IsAvailable: true},
		{ID: 4, Slug: "toyota-yaris", Title: "Toyota Yaris", Make: "Toyota", IsAvailable: false},
	}}
}

func newTestRouter(store cars.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(store).RegisterRoutes(r)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []cars.Car {
	t.Helper()
	var list []cars.Car
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	return list
}

func TestListReturnsAvailableCars(t *testing.T) {
	w := get(newTestRouter(seededStore()), "/cars/")
	require.Equal(t, http.StatusOK, w.Code)

	list := decodeList(t, w)
	assert.Len(t, list, 3)
	for _, c := range list {
		assert.True(t, c.IsAvailable)
	}
}

func TestFeaturedReturnsOnlyFeatured(t *testing.T) {
	w := get(newTestRouter(seededStore()), "/cars/featured/")
	require.Equal(t, http.StatusOK, w.Code)

	list := decodeList(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "toyota-camry", list[0].Slug)
}

func TestDetailKnownSlug(t *testing.T) {
	w := get(newTestRouter(seededStore()), "/cars/honda-civic/")
	require.Equal(t, http.StatusOK, w.Code)

	var car cars.Car
	require.NoError(t, json.NewDecoder(w.Body).Decode(&car))
	assert.Equal(t, int64(3), car.ID)
}

func TestDetailUnknownSlugIs404(t *testing.T) {
	w := get(newTestRouter(seededStore()), "/cars/no-such-car/")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDetailUnavailableCarIs404(t *testing.T) {
	w := get(newTestRouter(seededStore()), "/cars/toyota-yaris/")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRelatedMatchesMakeAndExcludesSelf(t *testing.T) {
	w := get(newTestRouter(seededStore()), "/cars/toyota-corolla/related/")
	require.Equal(t, http.StatusOK, w.Code)

	list := decodeList(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "toyota-camry", list[0].Slug)
}

func TestRelatedUnknownSlugIsEmptyList(t *testing.T) {
	w := get(newTestRouter(seededStore()), "/cars/no-such-car/related/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))
}

func TestStoreErrorIs500(t *testing.T) {
	w := get(newTestRouter(&fakeStore{err: errors.New("db down")}), "/cars/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
