package utils

import (
	"strings"
	"sync"
	"time"
)

var (
	seenSuggestions = make(map[string]time.Time)
	mu              sync.RWMutex
)

// SuggestionKey builds the dedup key for an imported or discovered place
// from its natural key. Matching is case-insensitive on both parts.
func SuggestionKey(name, address string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(address))
}

// IsDuplicate checks if a suggestion key has been seen recently (within 5 minutes)
// Returns true if the suggestion is a duplicate and should be ignored
func IsDuplicate(key string) bool {
	if key == "" || key == "|" {
		return false
	}

	mu.RLock()
	timestamp, exists := seenSuggestions[key]
	mu.RUnlock()

	if exists && time.Since(timestamp) < 5*time.Minute {
		return true
	}

	mu.Lock()
	seenSuggestions[key] = time.Now()

	// Cleanup old entries if map gets too big
	if len(seenSuggestions) > 10000 {
		for k, v := range seenSuggestions {
			if time.Since(v) > 10*time.Minute {
				delete(seenSuggestions, k)
			}
		}
	}
	mu.Unlock()

	return false
}
