package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey derives a cache key of the form "prefix:hex" from the given
// parts. Parts are JSON-marshaled before hashing so structured values
// (option structs, flag sets) key deterministically.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	// Full 256-bit digest; schema and config hashes must never collide.
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the hex SHA-256 digest of data. It is the content hash used
// for schemas: two identical api.json payloads share every downstream
// cache entry.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
