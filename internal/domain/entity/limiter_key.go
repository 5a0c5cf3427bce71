package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// KeyType represents the type of limiter key
type KeyType string

const (
	// KeyTypeAPIKey represents a Shodan API key dispatch lane
	KeyTypeAPIKey KeyType = "apikey"
)

// LimiterKey is a value object that identifies one dispatch lane.
// The raw API key never leaves the process: Value holds a digest of it.
type LimiterKey struct {
	Type  KeyType // The type of key
	Value string  // Hex digest of the key material
}

// NewAPIKey creates a limiter key for a Shodan API key
func NewAPIKey(apiKey string) LimiterKey {
	if apiKey == "" {
		return LimiterKey{Type: KeyTypeAPIKey}
	}
	sum := sha256.Sum256([]byte(apiKey))
	return LimiterKey{Type: KeyTypeAPIKey, Value: hex.EncodeToString(sum[:16])}
}

// String returns the string representation for use as Redis key
func (k LimiterKey) String() string {
	return fmt.Sprintf("shodan_dispatch:%s:%s", k.Type, k.Value)
}

// IsValid validates the value object
func (k LimiterKey) IsValid() bool {
	return k.Type != "" && k.Value != ""
}
