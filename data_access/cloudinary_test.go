package data_access

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCloudinaryClient(handler http.Handler) (*CloudinaryClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewCloudinaryClient("demo", "key123", "secret456", "tmdb-client/profile-images")
	client.SetBaseURL(srv.URL)
	return client, srv
}

func TestCloudinaryUpload(t *testing.T) {
	client, srv := newTestCloudinaryClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/demo/image/upload", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(10<<20))
		assert.Equal(t, "key123", r.FormValue("api_key"))
		assert.Equal(t, "tmdb-client/profile-images", r.FormValue("folder"))
		assert.NotEmpty(t, r.FormValue("signature"))
		assert.NotEmpty(t, r.FormValue("timestamp"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		_ = json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://res.cloudinary.com/demo/image/upload/profile_1.png",
			"public_id":  "tmdb-client/profile-images/profile_1",
		})
	}))
	defer srv.Close()

	image, err := client.Upload(context.Background(), []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/profile_1.png", image.URL)
	assert.Equal(t, "tmdb-client/profile-images/profile_1", image.PublicID)
}

func TestCloudinaryUpload_APIError(t *testing.T) {
	client, srv := newTestCloudinaryClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Invalid Signature"},
		})
	}))
	defer srv.Close()

	_, err := client.Upload(context.Background(), []byte("png-bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Signature")
}

func TestCloudinaryDestroy(t *testing.T) {
	client, srv := newTestCloudinaryClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/image/destroy", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "tmdb-client/profile-images/profile_1", r.FormValue("public_id"))
		assert.NotEmpty(t, r.FormValue("signature"))

		_ = json.NewEncoder(w).Encode(map[string]string{"result": "ok"})
	}))
	defer srv.Close()

	err := client.Destroy(context.Background(), "tmdb-client/profile-images/profile_1")
	assert.NoError(t, err)
}

func TestCloudinaryDestroy_EmptyPublicIDIsNoop(t *testing.T) {
	called := false
	client, srv := newTestCloudinaryClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	require.NoError(t, client.Destroy(context.Background(), ""))
	assert.False(t, called)
}

func TestCloudinaryDestroy_ServerError(t *testing.T) {
	client, srv := newTestCloudinaryClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := client.Destroy(context.Background(), "profile_1")
	assert.Error(t, err)
}
