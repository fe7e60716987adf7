package fetch

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/seoscore/internal/contract"
)

// currentCacheVersion defines the version of the cached page schema
const currentCacheVersion = 1

// cachedPage is the serialized form of a fetched page.
type cachedPage struct {
	BaseURL     string `json:"base_url"`
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
	StatusCode  int    `json:"status_code"`
}

// checkCacheHit attempts to retrieve and validate a cached page
func (f *Fetcher) checkCacheHit(key string) *Page {
	if f.cache == nil || f.cacheTTL <= 0 {
		return nil
	}

	data, version, ts, err := f.cache.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > f.cacheTTL {
		return nil
	}

	var entry cachedPage
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}
	return &Page{
		BaseURL:     entry.BaseURL,
		Body:        entry.Body,
		ContentType: entry.ContentType,
		StatusCode:  entry.StatusCode,
		FromCache:   true,
	}
}

// store writes a fetched page to the cache
func (f *Fetcher) store(key string, page *Page) {
	if f.cache == nil || f.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(cachedPage{
		BaseURL:     page.BaseURL,
		Body:        page.Body,
		ContentType: page.ContentType,
		StatusCode:  page.StatusCode,
	})
	if err != nil {
		return
	}
	if err := f.cache.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Failed to cache page", err)
	}
}

// cacheKey creates a unique key for a page URL
func cacheKey(rawURL string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte("page:"+rawURL)))
}
