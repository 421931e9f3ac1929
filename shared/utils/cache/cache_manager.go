package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"cloudlens-backend/shared/config"
	"cloudlens-backend/shared/database/models/document"
)

// CacheManager caches document metadata lookups in Redis. Extracted text is
// never cached here; it can be large and is read straight from the store.
type CacheManager struct {
	client *redis.Client
	ctx    context.Context
}

var (
	globalCacheManager *CacheManager
	DocumentTTL        = 15 * time.Minute
)

// InitCacheManager initializes the global cache manager
func InitCacheManager() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalCacheManager = &CacheManager{
		client: client,
		ctx:    ctx,
	}

	log.Printf("✅ Redis Cache Manager initialized successfully - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// GetCacheManager returns the global cache manager instance, or nil when
// Redis is unavailable. Callers treat nil as a cache miss on every lookup.
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		if err := InitCacheManager(); err != nil {
			log.Printf("Warning: cache manager unavailable: %v", err)
			return nil
		}
	}
	return globalCacheManager
}

// DocumentKey generates a cache key for a document id
func DocumentKey(id string) string {
	return fmt.Sprintf("doc:%s", id)
}

// SetDocument caches a document's metadata
func (cm *CacheManager) SetDocument(doc *document.Document) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	// Strip the text blob before caching
	clone := *doc
	clone.Text = nil

	jsonData, err := json.Marshal(&clone)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %v", err)
	}

	key := DocumentKey(doc.ID.String())
	if err := cm.client.Set(cm.ctx, key, jsonData, DocumentTTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %v", err)
	}

	return nil
}

// GetDocument retrieves a cached document's metadata
func (cm *CacheManager) GetDocument(id string) (*document.Document, bool) {
	if cm == nil || cm.client == nil {
		return nil, false
	}

	key := DocumentKey(id)
	result, err := cm.client.Get(cm.ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("❌ Cache error: %v", err)
		}
		return nil, false
	}

	var doc document.Document
	if err := json.Unmarshal([]byte(result), &doc); err != nil {
		log.Printf("❌ Failed to unmarshal cache data: %v", err)
		return nil, false
	}

	return &doc, true
}

// InvalidateDocument removes a document from the cache after a mutation
func (cm *CacheManager) InvalidateDocument(id string) error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	key := DocumentKey(id)
	if err := cm.client.Del(cm.ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %v", key, err)
	}

	return nil
}

// TestConnection tests the Redis connection
func (cm *CacheManager) TestConnection() error {
	if cm == nil || cm.client == nil {
		return fmt.Errorf("cache manager not initialized")
	}

	testKey := "test:connection"
	testValue := "connection_test_ok"

	if err := cm.client.Set(cm.ctx, testKey, testValue, time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set test value: %v", err)
	}

	result, err := cm.client.Get(cm.ctx, testKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get test value: %v", err)
	}

	if result != testValue {
		return fmt.Errorf("test value mismatch: expected %s, got %s", testValue, result)
	}

	if err := cm.client.Del(cm.ctx, testKey).Err(); err != nil {
		return fmt.Errorf("failed to delete test value: %v", err)
	}

	log.Println("✅ Redis connection test passed")
	return nil
}

// Close closes the cache manager connection
func (cm *CacheManager) Close() error {
	if cm != nil && cm.client != nil {
		return cm.client.Close()
	}
	return nil
}
