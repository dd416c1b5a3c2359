// Package cache provides a file-backed JSON cache for discovery
// results, keyed by domain and policy type, adapted from stormfinder's
// pkg/cache/cache.go.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/policytype"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Cache persists PolicyCandidate lookups to disk with a TTL.
type Cache struct {
	cacheDir string
	ttl      time.Duration
}

// Entry is the on-disk cache record for one (domain, policyType) pair.
type Entry struct {
	Domain     string                      `json:"domain"`
	PolicyType policytype.Type             `json:"policy_type"`
	Candidates []candidate.PolicyCandidate `json:"candidates"`
	Timestamp  time.Time                   `json:"timestamp"`
}

// New creates a Cache rooted at cacheDir, defaulting to
// ~/.policyscout/cache when cacheDir is empty.
func New(cacheDir string, ttl time.Duration) *Cache {
	if cacheDir == "" {
		home, _ := os.UserHomeDir()
		cacheDir = filepath.Join(home, ".policyscout", "cache")
	}
	os.MkdirAll(cacheDir, 0755)
	return &Cache{cacheDir: cacheDir, ttl: ttl}
}

// Get retrieves cached candidates for domain and policy type. Expired
// entries are removed and reported as a miss.
func (c *Cache) Get(domain string, pt policytype.Type) ([]candidate.PolicyCandidate, bool) {
	path := c.entryPath(domain, pt)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if time.Since(entry.Timestamp) > c.ttl {
		os.Remove(path)
		return nil, false
	}
	return entry.Candidates, true
}

// Set stores candidates for domain and policy type.
func (c *Cache) Set(domain string, pt policytype.Type, candidates []candidate.PolicyCandidate) error {
	entry := Entry{
		Domain:     domain,
		PolicyType: pt,
		Candidates: candidates,
		Timestamp:  time.Now(),
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.entryPath(domain, pt), data, 0644)
}

// Clear removes all cached entries.
func (c *Cache) Clear() error {
	return os.RemoveAll(c.cacheDir)
}

// ClearExpired removes entries older than the configured TTL.
func (c *Cache) ClearExpired() error {
	files, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return err
	}
	for _, file := range files {
		if filepath.Ext(file.Name()) != ".json" {
			continue
		}
		path := filepath.Join(c.cacheDir, file.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		if time.Since(entry.Timestamp) > c.ttl {
			os.Remove(path)
		}
	}
	return nil
}

// Stats summarizes the cache's current state.
type Stats struct {
	TotalEntries   int
	ExpiredEntries int
	CacheSizeMB    float64
	CacheDir       string
	TTLHours       float64
}

// GetStats computes aggregate statistics over the cache directory.
func (c *Cache) GetStats() (Stats, error) {
	files, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{CacheDir: c.cacheDir, TTLHours: c.ttl.Hours()}
	var totalSize int64
	for _, file := range files {
		if filepath.Ext(file.Name()) != ".json" {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		totalSize += info.Size()

		data, err := os.ReadFile(filepath.Join(c.cacheDir, file.Name()))
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		if time.Since(entry.Timestamp) > c.ttl {
			stats.ExpiredEntries++
		}
	}
	stats.TotalEntries = len(files)
	stats.CacheSizeMB = float64(totalSize) / (1024 * 1024)
	return stats, nil
}

func (c *Cache) entryPath(domain string, pt policytype.Type) string {
	key := fmt.Sprintf("%s:%s", domain, pt)
	hash := md5.Sum([]byte(key))
	return filepath.Join(c.cacheDir, hex.EncodeToString(hash[:])+".json")
}
