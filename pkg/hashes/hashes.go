// Copyright 2025 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hashes provides the base hash functions a Merkle tree can be built
// with, addressed by name.
package hashes

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"sort"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

const (
	SHA3256    = "sha3-256"
	Keccak256  = "keccak256"
	Blake2b256 = "blake2b-256"
	Blake3     = "blake3"
	SHA256     = "sha256"

	// Default is the base hash used when none is configured. It matches the
	// FIPS 202 SHA3-256 used to produce the leaves of existing airdrop trees.
	Default = SHA3256
)

var registry = map[string]func() hash.Hash{
	SHA3256:    sha3.New256,
	Keccak256:  sha3.NewLegacyKeccak256,
	Blake2b256: newBlake2b256,
	Blake3:     func() hash.Hash { return blake3.New() },
	SHA256:     sha256.New,
}

// ByName returns the hash.Hash constructor registered under name.
func ByName(name string) (func() hash.Hash, error) {
	if name == "" {
		name = Default
	}
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown hash %q, supported: %v", name, Names())
	}
	return f, nil
}

// Names returns the sorted names of all supported hashes.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func newBlake2b256() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// only a key longer than 64 bytes is rejected
		panic(err)
	}
	return h
}
