// Copyright 2025 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merkle

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Proof represents the inclusion proof of a leaf.
type Proof struct {
	Index    int      // position of the leaf in the input
	Leaf     []byte   // the proven leaf digest
	Siblings [][]byte // sibling digests from the leaf layer up to the root
}

// Hex returns the siblings as 0x prefixed hexadecimal strings.
func (p Proof) Hex() []string {
	out := make([]string, len(p.Siblings))
	for i, s := range p.Siblings {
		out[i] = "0x" + hex.EncodeToString(s)
	}
	return out
}

// Proof returns the inclusion proof of the leaf digest. If the digest occurs
// more than once the proof of its first occurrence is returned.
func (t *Tree) Proof(leaf []byte) (Proof, error) {
	i, ok := t.index[string(leaf)]
	if !ok {
		return Proof{}, fmt.Errorf("leaf %x: %w", leaf, ErrNotFound)
	}
	return t.ProofAt(i)
}

// ProofAt returns the inclusion proof of the i-th leaf.
func (t *Tree) ProofAt(i int) (Proof, error) {
	if i < 0 || i >= t.Len() {
		return Proof{}, fmt.Errorf("index %d of %d leaves: %w", i, t.Len(), ErrNotFound)
	}
	p := Proof{
		Index:    i,
		Leaf:     clone(t.layers[0][i]),
		Siblings: make([][]byte, 0, t.Depth()),
	}
	for _, level := range t.layers[:len(t.layers)-1] {
		if sister, ok := t.sister(level, i); ok {
			p.Siblings = append(p.Siblings, clone(sister))
		}
		i /= 2
	}
	return p, nil
}

// sister returns the partner of the i-th node of the layer. The last node of
// an odd layer is its own partner under OddDuplicate and has none under
// OddPromote.
func (t *Tree) sister(level [][]byte, i int) ([]byte, bool) {
	if j := i ^ 1; j < len(level) {
		return level[j], true
	}
	if t.conf.policy == OddPromote {
		return nil, false
	}
	return level[i], true
}

// RootFromProof folds the leaf with each sibling in order and returns the
// resulting root. The leaf and every sibling must have the digest size of the
// base hasher.
func (c *Conf) RootFromProof(leaf []byte, siblings [][]byte) ([]byte, error) {
	if len(leaf) != c.size {
		return nil, fmt.Errorf("leaf has %d bytes, want %d: %w", len(leaf), c.size, ErrInvalidProofFormat)
	}
	for i, s := range siblings {
		if len(s) != c.size {
			return nil, fmt.Errorf("sibling %d has %d bytes, want %d: %w", i, len(s), c.size, ErrInvalidProofFormat)
		}
	}
	h := c.hasher()
	root := clone(leaf)
	for _, s := range siblings {
		root = hashPair(h, root, s)
	}
	return root, nil
}

// Verify reports whether the siblings prove the inclusion of leaf under root.
// A proof that does not verify yields false and a nil error; an error is only
// returned for malformed input.
func (c *Conf) Verify(leaf []byte, siblings [][]byte, root []byte) (bool, error) {
	if len(root) != c.size {
		return false, fmt.Errorf("root has %d bytes, want %d: %w", len(root), c.size, ErrInvalidProofFormat)
	}
	got, err := c.RootFromProof(leaf, siblings)
	if err != nil {
		return false, err
	}
	return bytes.Equal(got, root), nil
}
