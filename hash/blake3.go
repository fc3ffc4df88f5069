// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package hash computes cryptographic digests of encoded container state.
package hash

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/zeebo/blake3"
)

// Blake3Hasher is a goroutine safe way to obtain a blake3 hash of a sequence
// of byte slices.
type Blake3Hasher struct {
	hasher   *blake3.Hasher
	hasherMu sync.Mutex
}

// NewBlake3Hasher returns a new Blake3Hasher.
func NewBlake3Hasher() *Blake3Hasher {
	return &Blake3Hasher{
		hasher: blake3.New(),
	}
}

// CryptoHash fills buffer with the hash of parts and returns it. The length
// of buffer decides the length of the hash. Each part is length prefixed, so
// ["ab", "c"] and ["a", "bc"] hash differently.
func (w *Blake3Hasher) CryptoHash(buffer []byte, parts ...[]byte) []byte {
	w.hasherMu.Lock()
	defer w.hasherMu.Unlock()
	w.hasher.Reset()
	writeParts(w.hasher, parts)
	// Digest.Read always fills the entire buffer and never errors.
	_, _ = w.hasher.Digest().Read(buffer)
	return buffer
}

func writeParts(h *blake3.Hasher, parts [][]byte) {
	var n [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(n[:], uint64(len(p)))
		// Write never returns an error.
		_, _ = h.Write(n[:])
		_, _ = h.Write(p)
	}
}

var sum16 = NewBlake3Hasher()

// Blake3sum16 returns a 16 byte hash of parts as a hexadecimal string. Calls
// share one hasher.
func Blake3sum16(parts ...[]byte) string {
	var buf [16]byte
	return fmt.Sprintf("%x", sum16.CryptoHash(buf[:], parts...))
}
