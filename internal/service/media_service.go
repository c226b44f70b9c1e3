package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

const (
	mediaPerPage      = 20
	maxUpstreamBody   = 4 << 20
	mediaCachePrefix  = "pixabay:"
	mediaSearchPhoto  = "photo"
	mediaSearchVideo  = "video"
	errUpstreamFailed = "Failed to fetch from Pixabay"
)

// MediaService proxies image and video searches to Pixabay, caching responses in Redis.
type MediaService struct {
	cfg    config.PixabayConfig
	client *http.Client
	cache  *redis.Client
	logger *zap.Logger
}

// NewMediaService builds the service. cache may be nil to disable caching.
func NewMediaService(cfg config.PixabayConfig, client *http.Client, cache *redis.Client, logger *zap.Logger) *MediaService {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaService{cfg: cfg, client: client, cache: cache, logger: logger}
}

// Search returns the raw upstream JSON for the query. mediaType "video"
// searches videos; anything else searches photos.
func (s *MediaService) Search(ctx context.Context, query, mediaType string) ([]byte, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewBadRequest("Query parameter required")
	}
	if mediaType != mediaSearchVideo {
		mediaType = mediaSearchPhoto
	}

	key := cacheKey(mediaType, query)
	if body, ok := s.cached(ctx, key); ok {
		return body, nil
	}

	body, err := s.fetch(ctx, query, mediaType)
	if err != nil {
		s.logger.Warn("pixabay search failed", zap.String("type", mediaType), zap.Error(err))
		return nil, apperrors.NewDomainError("UPSTREAM_ERROR", errUpstreamFailed, http.StatusInternalServerError)
	}

	s.store(ctx, key, body)
	return body, nil
}

func (s *MediaService) fetch(ctx context.Context, query, mediaType string) ([]byte, error) {
	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/"
	if mediaType == mediaSearchVideo {
		endpoint += "videos/"
	}

	params := url.Values{}
	params.Set("key", s.cfg.APIKey)
	params.Set("q", query)
	params.Set("per_page", strconv.Itoa(mediaPerPage))
	params.Set("safesearch", "true")
	params.Set("category", "all")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (s *MediaService) cached(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil || s.cfg.CacheTTL() == 0 {
		return nil, false
	}
	body, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("media cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return body, true
}

func (s *MediaService) store(ctx context.Context, key string, body []byte) {
	ttl := s.cfg.CacheTTL()
	if s.cache == nil || ttl == 0 {
		return
	}
	if err := s.cache.Set(ctx, key, body, ttl).Err(); err != nil {
		s.logger.Warn("media cache write failed", zap.Error(err))
	}
}

func cacheKey(mediaType, query string) string {
	return mediaCachePrefix + mediaType + ":" + url.QueryEscape(strings.ToLower(query))
}
