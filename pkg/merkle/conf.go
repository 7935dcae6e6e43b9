// Copyright 2025 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merkle

import (
	"bytes"
	"fmt"
	"hash"
)

// BaseHasherFunc is a hash.Hash constructor function used for both the leaves
// and the inner nodes of the tree, e.g. sha3.New256.
type BaseHasherFunc func() hash.Hash

// OddPolicy determines how the last digest of an odd length layer is paired.
type OddPolicy int

const (
	// OddDuplicate pairs the last digest of an odd layer with itself.
	OddDuplicate OddPolicy = iota
	// OddPromote carries the last digest of an odd layer up unchanged.
	OddPromote
)

// String implements fmt.Stringer.
func (p OddPolicy) String() string {
	switch p {
	case OddDuplicate:
		return "duplicate"
	case OddPromote:
		return "promote"
	default:
		return fmt.Sprintf("OddPolicy(%d)", int(p))
	}
}

// ParseOddPolicy returns the policy named by s.
func ParseOddPolicy(s string) (OddPolicy, error) {
	switch s {
	case "", "duplicate":
		return OddDuplicate, nil
	case "promote":
		return OddPromote, nil
	default:
		return 0, fmt.Errorf("unknown odd policy %q", s)
	}
}

// Conf holds the parameters shared by tree construction and verification.
// A Conf is safe for concurrent use.
type Conf struct {
	hasher  BaseHasherFunc // base hasher used for leaves and pairs
	size    int            // digest size of the base hasher
	policy  OddPolicy      // pairing of the last digest of odd layers
	workers int            // number of goroutines hashing a layer, 1 is sequential
}

// Option configures a Conf.
type Option func(*Conf)

// WithOddPolicy sets the policy for odd length layers. The default is
// OddDuplicate.
func WithOddPolicy(p OddPolicy) Option {
	return func(c *Conf) {
		c.policy = p
	}
}

// WithWorkers sets the number of goroutines used to hash the pairs of a
// layer. Values below 2 build sequentially. The resulting tree does not
// depend on the number of workers.
func WithWorkers(n int) Option {
	return func(c *Conf) {
		if n < 1 {
			n = 1
		}
		c.workers = n
	}
}

// NewConf creates a configuration over the given base hasher.
func NewConf(hasher BaseHasherFunc, opts ...Option) *Conf {
	c := &Conf{
		hasher:  hasher,
		size:    hasher().Size(),
		policy:  OddDuplicate,
		workers: 1,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Size returns the digest size of the base hasher.
func (c *Conf) Size() int { return c.size }

// OddPolicy returns the odd layer policy of the configuration.
func (c *Conf) OddPolicy() OddPolicy { return c.policy }

// LeafHash returns the leaf digest of the record.
func (c *Conf) LeafHash(record []byte) []byte {
	return LeafHash(c.hasher, record)
}

// LeafHash returns the digest of the record using a fresh base hasher.
// An empty record is valid input.
func LeafHash(hasher BaseHasherFunc, record []byte) []byte {
	return doHash(hasher(), record)
}

// sortPair returns the two digests in byte order.
func sortPair(a, b []byte) (lo, hi []byte) {
	if bytes.Compare(a, b) <= 0 {
		return a, b
	}
	return b, a
}

// hashPair computes the parent digest of two siblings regardless of their
// position.
func hashPair(h hash.Hash, a, b []byte) []byte {
	lo, hi := sortPair(a, b)
	return doHash(h, lo, hi)
}

// doHash calculates the hash of the data using hash.Hash.
func doHash(h hash.Hash, data ...[]byte) []byte {
	h.Reset()
	for _, v := range data {
		// hash.Hash never returns an error on Write
		_, _ = h.Write(v)
	}
	return h.Sum(nil)
}
