// Copyright 2025 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merkle

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// minPairsPerWorker is the smallest number of pairs handed to a goroutine
// when a layer is hashed in parallel.
const minPairsPerWorker = 64

// Tree is a built Merkle accumulator. It keeps all layers, the leaves at
// index 0 and the root as the single digest of the last layer.
type Tree struct {
	conf   *Conf
	layers [][][]byte
	index  map[string]int // leaf digest to its first position
}

// Build hashes the records into leaves and builds the tree over them.
// Records are not retained.
func (c *Conf) Build(records [][]byte) (*Tree, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	leaves := make([][]byte, len(records))
	h := c.hasher()
	for i, r := range records {
		leaves[i] = doHash(h, r)
	}
	return c.build(leaves), nil
}

// BuildFromLeaves builds the tree over precomputed leaf digests. Each leaf
// must have the digest size of the base hasher.
func (c *Conf) BuildFromLeaves(leaves [][]byte) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyInput
	}
	cp := make([][]byte, len(leaves))
	for i, l := range leaves {
		if len(l) != c.size {
			return nil, fmt.Errorf("leaf %d has %d bytes, want %d: %w", i, len(l), c.size, ErrInvalidDigest)
		}
		cp[i] = append([]byte(nil), l...)
	}
	return c.build(cp), nil
}

func (c *Conf) build(leaves [][]byte) *Tree {
	t := &Tree{
		conf:   c,
		layers: [][][]byte{leaves},
		index:  make(map[string]int, len(leaves)),
	}
	for i := len(leaves) - 1; i >= 0; i-- {
		t.index[string(leaves[i])] = i
	}
	for level := leaves; len(level) > 1; {
		level = c.nextLayer(level)
		t.layers = append(t.layers, level)
	}
	return t
}

// nextLayer hashes adjacent pairs of the layer into the parent layer.
func (c *Conf) nextLayer(level [][]byte) [][]byte {
	pairs := len(level) / 2
	next := make([][]byte, (len(level)+1)/2)

	workers := c.workers
	if limit := pairs / minPairsPerWorker; workers > limit {
		workers = limit
	}
	if workers < 2 {
		c.hashPairs(level, next, 0, pairs)
	} else {
		var eg errgroup.Group
		chunk := (pairs + workers - 1) / workers
		for start := 0; start < pairs; start += chunk {
			start, end := start, start+chunk
			if end > pairs {
				end = pairs
			}
			eg.Go(func() error {
				c.hashPairs(level, next, start, end)
				return nil
			})
		}
		_ = eg.Wait()
	}

	if len(level)%2 == 1 {
		last := level[len(level)-1]
		switch c.policy {
		case OddPromote:
			next[pairs] = last
		default:
			next[pairs] = hashPair(c.hasher(), last, last)
		}
	}
	return next
}

// hashPairs writes the parents of the pairs [start, end) of level into next.
func (c *Conf) hashPairs(level, next [][]byte, start, end int) {
	h := c.hasher()
	for i := start; i < end; i++ {
		next[i] = hashPair(h, level[2*i], level[2*i+1])
	}
}

// Root returns a copy of the root digest. For a single leaf tree the root is
// the leaf itself.
func (t *Tree) Root() []byte {
	return clone(t.layers[len(t.layers)-1][0])
}

// Len returns the number of leaves.
func (t *Tree) Len() int {
	return len(t.layers[0])
}

// Depth returns the number of hashing rounds between the leaves and the root,
// ceil(log2(Len())).
func (t *Tree) Depth() int {
	return len(t.layers) - 1
}

// Leaves returns a copy of the leaf digests in input order.
func (t *Tree) Leaves() [][]byte {
	return cloneAll(t.layers[0])
}

// Layers returns a copy of all layers, leaves first.
func (t *Tree) Layers() [][][]byte {
	ls := make([][][]byte, len(t.layers))
	for i, l := range t.layers {
		ls[i] = cloneAll(l)
	}
	return ls
}

// Conf returns the configuration the tree was built with.
func (t *Tree) Conf() *Conf {
	return t.conf
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}

func cloneAll(bs [][]byte) [][]byte {
	out := make([][]byte, len(bs))
	for i, b := range bs {
		out[i] = clone(b)
	}
	return out
}
