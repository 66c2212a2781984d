// Package signature provides helper functions for handling the blockchain
// hashing needs.
package signature

import (
	"bytes"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/minio/sha256-simd"
)

// ZeroHash represents the previous hash recorded in the genesis block.
const ZeroHash string = "0"

// =============================================================================

// Hash returns a unique string for the value. The value is serialized as
// JSON with every object's keys in sorted order so the same logical content
// always produces the same hash, regardless of how it was constructed.
func Hash(value any) string {
	data, err := Canonical(value)
	if err != nil {
		return ZeroHash
	}

	return Sum(data)
}

// Sum returns the lowercase hex encoded SHA-256 digest of the data.
func Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// Canonical produces the sorted key JSON serialization of the value.
func Canonical(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	// Round trip through a generic value. The encoder writes map keys in
	// sorted order and json.Number keeps integers exactly as they were.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}

	return json.Marshal(generic)
}
