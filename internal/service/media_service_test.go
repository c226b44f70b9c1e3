package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/config"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

type pixabayStub struct {
	server *httptest.Server
	hits   atomic.Int32
	last   atomic.Value
}

func newPixabayStub(t *testing.T, status int, body string) *pixabayStub {
	t.Helper()
	stub := &pixabayStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.hits.Add(1)
		stub.last.Store(r.URL.Path + "?" + r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func newCache(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func mediaConfig(baseURL string) config.PixabayConfig {
	return config.PixabayConfig{
		APIKey:          "test-key",
		BaseURL:         baseURL + "/api/",
		CacheTTLSeconds: 60,
		TimeoutSeconds:  5,
	}
}

func TestMediaService_SearchCachesResponses(t *testing.T) {
	stub := newPixabayStub(t, http.StatusOK, `{"totalHits":1,"hits":[{"id":1}]}`)
	cache, mr := newCache(t)
	svc := NewMediaService(mediaConfig(stub.server.URL), stub.server.Client(), cache, nil)

	body, err := svc.Search(context.Background(), "Mountains", "photo")
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalHits":1,"hits":[{"id":1}]}`, string(body))

	last := stub.last.Load().(string)
	assert.Contains(t, last, "/api/?")
	assert.Contains(t, last, "key=test-key")
	assert.Contains(t, last, "q=Mountains")
	assert.Contains(t, last, "per_page=20")
	assert.Contains(t, last, "safesearch=true")
	assert.Contains(t, last, "category=all")

	assert.True(t, mr.Exists("pixabay:photo:mountains"))
	ttl := mr.TTL("pixabay:photo:mountains")
	assert.Greater(t, ttl.Seconds(), 0.0)

	body, err = svc.Search(context.Background(), "mountains", "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalHits":1,"hits":[{"id":1}]}`, string(body))
	assert.Equal(t, int32(1), stub.hits.Load())
}

func TestMediaService_SearchVideos(t *testing.T) {
	stub := newPixabayStub(t, http.StatusOK, `{"hits":[]}`)
	svc := NewMediaService(mediaConfig(stub.server.URL), stub.server.Client(), nil, nil)

	_, err := svc.Search(context.Background(), "ocean", "video")
	require.NoError(t, err)
	assert.Contains(t, stub.last.Load().(string), "/api/videos/?")

	_, err = svc.Search(context.Background(), "ocean", "video")
	require.NoError(t, err)
	assert.Equal(t, int32(2), stub.hits.Load(), "no cache configured")
}

func TestMediaService_SearchRequiresQuery(t *testing.T) {
	stub := newPixabayStub(t, http.StatusOK, `{}`)
	svc := NewMediaService(mediaConfig(stub.server.URL), stub.server.Client(), nil, nil)

	_, err := svc.Search(context.Background(), "   ", "photo")
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Equal(t, "Query parameter required", domainErr.Message)
	assert.Zero(t, stub.hits.Load())
}

func TestMediaService_UpstreamFailure(t *testing.T) {
	stub := newPixabayStub(t, http.StatusTooManyRequests, `{"error":"rate limited"}`)
	cache, mr := newCache(t)
	svc := NewMediaService(mediaConfig(stub.server.URL), stub.server.Client(), cache, nil)

	_, err := svc.Search(context.Background(), "cats", "photo")
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	assert.Equal(t, "Failed to fetch from Pixabay", domainErr.Message)
	assert.False(t, mr.Exists("pixabay:photo:cats"), "failures are not cached")
}

func TestMediaService_CacheOutageFallsBackToUpstream(t *testing.T) {
	stub := newPixabayStub(t, http.StatusOK, `{"hits":[]}`)
	cache, mr := newCache(t)
	mr.Close()
	svc := NewMediaService(mediaConfig(stub.server.URL), stub.server.Client(), cache, nil)

	_, err := svc.Search(context.Background(), "trees", "photo")
	require.NoError(t, err)
	assert.Equal(t, int32(1), stub.hits.Load())
}
