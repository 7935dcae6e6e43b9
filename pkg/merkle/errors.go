// Copyright 2025 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merkle

import (
	"errors"
)

var (
	// ErrEmptyInput is returned when a tree is built from zero records.
	ErrEmptyInput = errors.New("merkle: no records to build tree from")
	// ErrNotFound is returned when a proof is requested for a leaf or index
	// that is not part of the tree.
	ErrNotFound = errors.New("merkle: leaf not found")
	// ErrInvalidProofFormat is returned when a leaf, sibling or root passed
	// for verification does not have the digest size of the base hash.
	ErrInvalidProofFormat = errors.New("merkle: invalid proof format")
	// ErrInvalidDigest is returned when a precomputed leaf does not have the
	// digest size of the base hash.
	ErrInvalidDigest = errors.New("merkle: invalid digest length")
)
