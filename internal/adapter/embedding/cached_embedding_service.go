package embedding

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"time"

	"dailydose/internal/cache"
	"dailydose/internal/domain"

	"golang.org/x/sync/singleflight"
)

const defaultEmbeddingTTL = 168 * time.Hour

// CachedEmbeddingService decorates a domain.EmbeddingService with a cache and
// collapses concurrent requests for the same text into one upstream call.
type CachedEmbeddingService struct {
	inner   domain.EmbeddingService
	cache   domain.Cache
	ttl     time.Duration
	sfGroup singleflight.Group
}

// NewCachedEmbeddingService wraps an embedding service with caching.
func NewCachedEmbeddingService(inner domain.EmbeddingService, cacheClient domain.Cache, ttl time.Duration) (*CachedEmbeddingService, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner embedding service cannot be nil")
	}
	if cacheClient == nil {
		return nil, fmt.Errorf("cache instance cannot be nil for CachedEmbeddingService")
	}
	if ttl <= 0 {
		ttl = defaultEmbeddingTTL
	}
	return &CachedEmbeddingService{
		inner: inner,
		cache: cacheClient,
		ttl:   ttl,
	}, nil
}

// Generate returns a cached embedding when available, otherwise generates and
// caches one. Cache decode failures fall through to generation.
func (s *CachedEmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty for embedding")
	}

	textHash := hashString(text)
	cacheKey := cache.GenerateCacheKey("embedding", "text", textHash)

	cachedDataString, err := s.cache.Get(ctx, cacheKey)
	if err == nil {
		var embedding []float32
		decoder := gob.NewDecoder(bytes.NewReader([]byte(cachedDataString)))
		if errDecode := decoder.Decode(&embedding); errDecode == nil {
			return embedding, nil
		}
	}

	res, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		embeddingResult, fetchErr := s.inner.Generate(ctx, text)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if embeddingResult == nil {
			return nil, fmt.Errorf("received nil embedding without error")
		}

		var buffer bytes.Buffer
		encoder := gob.NewEncoder(&buffer)
		if errEncode := encoder.Encode(embeddingResult); errEncode != nil {
			return embeddingResult, nil
		}
		// Caching is best effort; the embedding is still usable on failure.
		_ = s.cache.Set(ctx, cacheKey, buffer.String(), s.ttl)
		return embeddingResult, nil
	})
	if err != nil {
		return nil, err
	}

	if embedding, ok := res.([]float32); ok {
		return embedding, nil
	}
	return nil, fmt.Errorf("unexpected type from singleflight.Do for embedding: %T", res)
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

var _ domain.EmbeddingService = (*CachedEmbeddingService)(nil)
