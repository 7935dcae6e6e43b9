// Copyright 2025 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reference is a simple reference implementation of the sorted pair
// Merkle root, optimized for code simplicity rather than speed.
package reference

import (
	"bytes"
	"errors"
	"hash"
)

// RefHasher computes the Merkle root of a list of leaves.
type RefHasher struct {
	hasher  hash.Hash // base hash func
	promote bool      // carry the last node of odd layers up instead of duplicating it
}

// NewRefHasher returns a new RefHasher duplicating the last node of odd layers.
func NewRefHasher(h hash.Hash) *RefHasher {
	return &RefHasher{hasher: h}
}

// NewPromotingRefHasher returns a new RefHasher carrying the last node of odd
// layers up to the next layer.
func NewPromotingRefHasher(h hash.Hash) *RefHasher {
	return &RefHasher{hasher: h, promote: true}
}

// Root returns the Merkle root of the records, hashing every record into a leaf
// first.
func (rh *RefHasher) Root(records [][]byte) ([]byte, error) {
	if len(records) == 0 {
		return nil, errors.New("no records")
	}
	var leaves [][]byte
	for _, r := range records {
		leaves = append(leaves, rh.sum(r))
	}
	return rh.root(leaves), nil
}

// root calls itself recursively on the parent layer until one node is left.
func (rh *RefHasher) root(layer [][]byte) []byte {
	if len(layer) == 1 {
		return layer[0]
	}
	var parents [][]byte
	for i := 0; i < len(layer); i += 2 {
		switch {
		case i+1 < len(layer):
			parents = append(parents, rh.pair(layer[i], layer[i+1]))
		case rh.promote:
			parents = append(parents, layer[i])
		default:
			parents = append(parents, rh.pair(layer[i], layer[i]))
		}
	}
	return rh.root(parents)
}

func (rh *RefHasher) pair(a, b []byte) []byte {
	if bytes.Compare(a, b) > 0 {
		a, b = b, a
	}
	return rh.sum(a, b)
}

func (rh *RefHasher) sum(data ...[]byte) []byte {
	rh.hasher.Reset()
	for _, d := range data {
		rh.hasher.Write(d)
	}
	return rh.hasher.Sum(nil)
}
