// Copyright 2025 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package merkle implements a binary Merkle accumulator over a fixed set of
// records together with inclusion proofs against its root.
//
// Every record is hashed with the base hash function into a leaf. Leaves form
// the first layer of the tree and each following layer is derived by hashing
// adjacent pairs of the previous one until a single digest, the root, remains.
// The two digests of a pair are sorted into byte order before they are
// concatenated and hashed, so a proof only needs to carry the sibling digests
// on the path to the root and never their left or right position.
//
// Layers of odd length are completed according to the OddPolicy of the Conf:
// OddDuplicate pairs the last digest with itself, OddPromote carries it up to
// the next layer unchanged.
//
// A Tree is immutable once built and may be shared between goroutines.
// Verification does not need the Tree: the root, the leaf and the proof
// siblings are sufficient.
package merkle
