package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Use full SHA-256 hash (64 hex chars / 256 bits) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// ClassesKey returns the cache key for one backend hierarchy response. The
// token is part of the key so users never see each other's results.
func ClassesKey(baseURL, token, file string) string {
	return hashKey("classes", baseURL, token, file)
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactKey returns the cache key for a rendered artifact of a graph.
func ArtifactKey(graphHash, format string, opts ...any) string {
	return hashKey("artifact", append([]any{graphHash, format}, opts...)...)
}
