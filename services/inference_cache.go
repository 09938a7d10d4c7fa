package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"notetasks/utils"

	"github.com/redis/go-redis/v9"
)

// CachedClassifier remembers successful classifications in Redis, keyed by
// a hash of the text. Cache failures never fail a classification.
type CachedClassifier struct {
	next   Classifier
	client *redis.Client
	ttl    time.Duration
}

func NewCachedClassifier(next Classifier, client *redis.Client, ttl time.Duration) *CachedClassifier {
	return &CachedClassifier{next: next, client: client, ttl: ttl}
}

// NewRedisClient parses the URL and checks the connection
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (c *CachedClassifier) Classify(ctx context.Context, text string) (*InferenceResult, error) {
	key := CacheKey(text)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached InferenceResult
		if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
			utils.TrackInference("cache_hit")
			return &cached, nil
		} else {
			log.Printf("Discarding unreadable inference cache entry %s: %v", key, jsonErr)
		}
	case !errors.Is(err, redis.Nil):
		log.Printf("Inference cache lookup failed: %v", err)
	}

	result, err := c.next.Classify(ctx, text)
	if err != nil {
		return nil, err
	}

	if result == nil || strings.TrimSpace(result.Subject) == "" {
		return result, nil
	}
	if data, err := json.Marshal(result); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Printf("Inference cache store failed: %v", err)
		}
	}
	return result, nil
}

func CacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "inference:" + hex.EncodeToString(sum[:])
}
