package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, enough to tell scalers apart in logs
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// ScalerFingerprint identifies a set of fitted scaler parameters
type ScalerFingerprint Hash

func (h ScalerFingerprint) String() string { return Hash(h).String() }

// ComputeScalerFingerprint hashes the scaler kind and its per-feature parameter vectors in order
func ComputeScalerFingerprint(kind string, params ...[]float64) ScalerFingerprint {
	var data strings.Builder
	data.WriteString(kind)
	for _, vec := range params {
		data.WriteByte('|')
		for i, v := range vec {
			if i > 0 {
				data.WriteByte(',')
			}
			data.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	return ScalerFingerprint(NewHash([]byte(data.String())))
}
