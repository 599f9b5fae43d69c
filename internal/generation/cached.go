package generation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"go.uber.org/zap"
)

// ImageCache stores generated illustrations by key.
type ImageCache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// CachedProvider memoises GenerateImage results. Scene prompts are fixed, so every visit of a
// scene after the first reuses the stored illustration. Cache failures never fail the call.
type CachedProvider struct {
	Provider
	cache  ImageCache
	logger *zap.Logger
}

var _ Provider = (*CachedProvider)(nil)

// WithImageCache wraps p so that images are looked up in cache before generation.
func WithImageCache(p Provider, cache ImageCache, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{Provider: p, cache: cache, logger: logger.Named("image_cache")}
}

// ImageCacheKey derives the cache key of a prompt for a provider.
func ImageCacheKey(provider, prompt string) string {
	sum := sha256.Sum256([]byte(provider + "\x00" + prompt))
	return "image:" + provider + ":" + hex.EncodeToString(sum[:])
}

// GenerateImage implements Provider.
func (c *CachedProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	key := ImageCacheKey(c.Provider.Name(), prompt)
	if cached, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("Image cache lookup failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		imageCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	imageCacheTotal.WithLabelValues("miss").Inc()

	img, err := c.Provider.GenerateImage(ctx, prompt)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, img); err != nil {
		c.logger.Warn("Failed to store image in cache", zap.String("key", key), zap.Error(err))
	}
	return img, nil
}
