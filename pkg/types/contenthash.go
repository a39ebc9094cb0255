package types

import (
	"crypto/sha1"
	"database/sql/driver"
	"encoding/hex"
	"fmt"
)

// ContentHash is a SHA-1 content hash with hex encoding and
// database/sql Valuer/Scanner support. pkg/store does not use it: run
// records are stored under the needle set's structural-ID string.
type ContentHash [20]byte

// HashNeedleSet hashes a NeedleSet's structural ID into a ContentHash.
func HashNeedleSet(id string) ContentHash {
	h := sha1.Sum([]byte(id))
	return ContentHash(h)
}

// Hex returns the 40-character hex encoding.
func (c ContentHash) Hex() string {
	return hex.EncodeToString(c[:])
}

func (c ContentHash) String() string { return c.Hex() }

// ParseContentHash parses a 40-character hex string.
func ParseContentHash(s string) (ContentHash, error) {
	if len(s) != 40 {
		return ContentHash{}, fmt.Errorf("invalid content hash length: expected 40, got %d", len(s))
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return ContentHash{}, fmt.Errorf("invalid hex string: %w", err)
	}
	var c ContentHash
	copy(c[:], decoded)
	return c, nil
}

// Value implements driver.Valuer for SQL serialization.
func (c ContentHash) Value() (driver.Value, error) {
	return c.Hex(), nil
}

// Scan implements sql.Scanner for SQL deserialization.
func (c *ContentHash) Scan(value interface{}) error {
	if value == nil {
		return fmt.Errorf("cannot scan nil into ContentHash")
	}
	var hexStr string
	switch v := value.(type) {
	case string:
		hexStr = v
	case []byte:
		hexStr = string(v)
	default:
		return fmt.Errorf("cannot scan type %T into ContentHash", value)
	}
	parsed, err := ParseContentHash(hexStr)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
