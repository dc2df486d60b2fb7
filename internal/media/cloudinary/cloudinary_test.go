package cloudinary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) (*Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := New("demo-cloud", "key-123", "secret-456", "cars")
	require.NoError(t, err)
	store.baseURL = srv.URL
	store.now = func() time.Time { return time.Unix(1700000000, 0) }
	return store, srv
}

func TestNewRejectsMissingCredentials(t *testing.T) {
	_, err := New("", "key", "secret", "")
	assert.Error(t, err)

	_, err = New("cloud", "key", "", "")
	assert.Error(t, err)
}

func TestSignatureIsDeterministicAndSorted(t *testing.T) {
	s := &Store{apiSecret: "secret-456"}

	a := s.signature(map[string]string{"timestamp": "1700000000", "public_id": "abc", "folder": "cars"})
	b := s.signature(map[string]string{"folder": "cars", "public_id": "abc", "timestamp": "1700000000"})

	assert.Equal(t, a, b, "signature must not depend on map order")
	assert.Len(t, a, 40)
}

func TestUploadReturnsSecureURL(t *testing.T) {
	var gotPath string
	var gotForm map[string]string

	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotForm = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotForm[k] = v[0]
		}
		w.Write([]byte(`{"secure_url": "https://res.cloudinary.com/demo-cloud/cars/x.jpg"}`))
	})

	url, err := store.Upload(context.Background(), "x.jpg", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo-cloud/cars/x.jpg", url)

	assert.Equal(t, "/v1_1/demo-cloud/image/upload", gotPath)
	assert.Equal(t, "key-123", gotForm["api_key"])
	assert.Equal(t, "1700000000", gotForm["timestamp"])
	assert.Equal(t, "cars", gotForm["folder"])
	assert.NotEmpty(t, gotForm["public_id"])

	want := store.signature(map[string]string{
		"timestamp": gotForm["timestamp"],
		"public_id": gotForm["public_id"],
		"folder":    gotForm["folder"],
	})
	assert.Equal(t, want, gotForm["signature"])
}

func TestUploadRejectedByProvider(t *testing.T) {
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "Invalid Signature"}}`))
	})

	_, err := store.Upload(context.Background(), "x.jpg", strings.NewReader("image-bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Signature")
}

func TestUploadMissingSecureURLIsError(t *testing.T) {
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := store.Upload(context.Background(), "x.jpg", strings.NewReader("image-bytes"))
	assert.Error(t, err)
}
