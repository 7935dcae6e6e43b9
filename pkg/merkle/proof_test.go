// Copyright 2025 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merkle_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"

	"github.com/airdrop-tools/merkledrop/pkg/allocation"
	"github.com/airdrop-tools/merkledrop/pkg/merkle"
)

const (
	addressAlice = "0x94fbcf49867fd909e6b2ecf2802c4b2bba7c9b2d50a13abbb75dbae0216db82a"
	addressBob   = "0xb4536519beaef9d9207af2b5f83ae35d4ac76cc288ab9004b39254b354149d27"
)

func encode(address string, amount uint64) []byte {
	return allocation.Allocation{Address: allocation.MustParseAddress(address), Amount: amount}.Encode()
}

func verify(t *testing.T, c *merkle.Conf, leaf []byte, siblings [][]byte, root []byte) bool {
	t.Helper()

	ok, err := c.Verify(leaf, siblings, root)
	if err != nil {
		t.Fatal(err)
	}
	return ok
}

// TestAirdropScenario builds a tree over two encoded allocations and checks
// the proofs of both and the rejection of a neighbouring allocation.
func TestAirdropScenario(t *testing.T) {
	t.Parallel()

	c := merkle.NewConf(sha3.New256)
	r1 := encode(addressAlice, 55)
	r2 := encode(addressBob, 27)
	tree := build(t, c, [][]byte{r1, r2})

	l1, l2 := sha3hash(r1), sha3hash(r2)
	root := pairHash(l1, l2)
	if !bytes.Equal(tree.Root(), root) {
		t.Fatalf("got root %x, want %x", tree.Root(), root)
	}

	p1, err := tree.Proof(l1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]byte{l2}, p1.Siblings); diff != "" {
		t.Fatalf("proof mismatch (-want +got):\n%s", diff)
	}
	if !verify(t, c, l1, p1.Siblings, root) {
		t.Fatal("proof of first allocation does not verify")
	}

	p2, err := tree.Proof(l2)
	if err != nil {
		t.Fatal(err)
	}
	if p2.Index != 1 {
		t.Fatalf("got index %d, want 1", p2.Index)
	}
	if !verify(t, c, l2, p2.Siblings, root) {
		t.Fatal("proof of second allocation does not verify")
	}

	l3 := sha3hash(encode(addressBob, 28))
	if verify(t, c, l3, p2.Siblings, root) {
		t.Fatal("neighbouring allocation verifies")
	}
	if _, err := tree.Proof(l3); !errors.Is(err, merkle.ErrNotFound) {
		t.Fatalf("got error %v, want %v", err, merkle.ErrNotFound)
	}
}

func TestInclusionProofs(t *testing.T) {
	t.Parallel()

	for _, count := range testRecordCounts {
		count := count
		t.Run(fmt.Sprintf("records_%d", count), func(t *testing.T) {
			t.Parallel()

			records := randomRecords(t, count, count)
			for _, policy := range testPolicies {
				c := merkle.NewConf(sha3.New256, merkle.WithOddPolicy(policy))
				tree := build(t, c, records)
				root := tree.Root()

				for i, rec := range records {
					leaf := c.LeafHash(rec)
					p, err := tree.Proof(leaf)
					if err != nil {
						t.Fatal(err)
					}
					if p.Index != i || !bytes.Equal(p.Leaf, leaf) {
						t.Fatalf("%s: got proof for %d %x, want %d %x", policy, p.Index, p.Leaf, i, leaf)
					}
					if policy == merkle.OddDuplicate && len(p.Siblings) != tree.Depth() {
						t.Fatalf("%s: got %d siblings, want %d", policy, len(p.Siblings), tree.Depth())
					}
					if len(p.Siblings) > tree.Depth() {
						t.Fatalf("%s: got %d siblings, more than depth %d", policy, len(p.Siblings), tree.Depth())
					}
					if !verify(t, c, leaf, p.Siblings, root) {
						t.Fatalf("%s: proof of record %d does not verify", policy, i)
					}
					got, err := c.RootFromProof(leaf, p.Siblings)
					if err != nil {
						t.Fatal(err)
					}
					if !bytes.Equal(got, root) {
						t.Fatalf("%s: got root %x from proof, want %x", policy, got, root)
					}
				}
			}
		})
	}
}

func TestProofRejections(t *testing.T) {
	t.Parallel()

	c := merkle.NewConf(sha3.New256)
	records := randomRecords(t, 7, 11)
	tree := build(t, c, records)
	root := tree.Root()

	p, err := tree.ProofAt(6)
	if err != nil {
		t.Fatal(err)
	}
	other, err := tree.ProofAt(7)
	if err != nil {
		t.Fatal(err)
	}
	otherTree := build(t, c, randomRecords(t, 8, 11))

	for _, tc := range []struct {
		name     string
		leaf     []byte
		siblings [][]byte
		root     []byte
	}{
		{"other leaf", other.Leaf, p.Siblings, root},
		{"foreign leaf", sha3hash([]byte("not a member")), p.Siblings, root},
		{"truncated", p.Leaf, p.Siblings[:len(p.Siblings)-1], root},
		{"extended", p.Leaf, append(append([][]byte{}, p.Siblings...), p.Siblings[0]), root},
		{"empty", p.Leaf, nil, root},
		{"reordered", p.Leaf, [][]byte{p.Siblings[1], p.Siblings[0], p.Siblings[2], p.Siblings[3]}, root},
		{"wrong root", p.Leaf, p.Siblings, otherTree.Root()},
		{"leaf as root", p.Leaf, p.Siblings, p.Leaf},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if verify(t, c, tc.leaf, tc.siblings, tc.root) {
				t.Fatal("invalid proof verifies")
			}
		})
	}
}

// TestTamper flips every single byte of the siblings, the leaf and the root
// and checks that verification fails.
func TestTamper(t *testing.T) {
	t.Parallel()

	c := merkle.NewConf(sha3.New256)
	tree := build(t, c, randomRecords(t, 9, 13))
	root := tree.Root()
	p, err := tree.ProofAt(12)
	if err != nil {
		t.Fatal(err)
	}
	if !verify(t, c, p.Leaf, p.Siblings, root) {
		t.Fatal("untampered proof does not verify")
	}

	flip := func(b []byte, i int) []byte {
		out := append([]byte(nil), b...)
		out[i] ^= 0x01
		return out
	}

	for s := range p.Siblings {
		for i := 0; i < c.Size(); i++ {
			siblings := append([][]byte(nil), p.Siblings...)
			siblings[s] = flip(siblings[s], i)
			if verify(t, c, p.Leaf, siblings, root) {
				t.Fatalf("sibling %d with byte %d flipped verifies", s, i)
			}
		}
	}
	for i := 0; i < c.Size(); i++ {
		if verify(t, c, flip(p.Leaf, i), p.Siblings, root) {
			t.Fatalf("leaf with byte %d flipped verifies", i)
		}
		if verify(t, c, p.Leaf, p.Siblings, flip(root, i)) {
			t.Fatalf("root with byte %d flipped verifies", i)
		}
	}
}

func TestInvalidProofFormat(t *testing.T) {
	t.Parallel()

	c := merkle.NewConf(sha3.New256)
	tree := build(t, c, randomRecords(t, 10, 4))
	root := tree.Root()
	p, err := tree.ProofAt(0)
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		name     string
		leaf     []byte
		siblings [][]byte
		root     []byte
	}{
		{"short leaf", p.Leaf[:31], p.Siblings, root},
		{"long leaf", append(append([]byte{}, p.Leaf...), 0), p.Siblings, root},
		{"short sibling", p.Leaf, [][]byte{p.Siblings[0], p.Siblings[1][:16]}, root},
		{"nil sibling", p.Leaf, [][]byte{nil, p.Siblings[1]}, root},
		{"short root", p.Leaf, p.Siblings, root[:31]},
		{"prefix root", p.Leaf, p.Siblings, root[:8]},
		{"empty root", p.Leaf, p.Siblings, nil},
	} {
		ok, err := c.Verify(tc.leaf, tc.siblings, tc.root)
		if !errors.Is(err, merkle.ErrInvalidProofFormat) {
			t.Fatalf("%s: got error %v, want %v", tc.name, err, merkle.ErrInvalidProofFormat)
		}
		if ok {
			t.Fatalf("%s: malformed proof verifies", tc.name)
		}
	}
}

func TestProofNotFound(t *testing.T) {
	t.Parallel()

	tree := build(t, merkle.NewConf(sha3.New256), randomRecords(t, 11, 5))

	for _, i := range []int{-1, 5, 100} {
		if _, err := tree.ProofAt(i); !errors.Is(err, merkle.ErrNotFound) {
			t.Fatalf("index %d: got error %v, want %v", i, err, merkle.ErrNotFound)
		}
	}
	if _, err := tree.Proof(sha3hash([]byte("absent"))); !errors.Is(err, merkle.ErrNotFound) {
		t.Fatalf("got error %v, want %v", err, merkle.ErrNotFound)
	}
}

func TestDuplicateRecords(t *testing.T) {
	t.Parallel()

	c := merkle.NewConf(sha3.New256)
	dup := []byte("twice")
	tree := build(t, c, [][]byte{[]byte("x"), dup, []byte("y"), dup})

	p, err := tree.Proof(c.LeafHash(dup))
	if err != nil {
		t.Fatal(err)
	}
	if p.Index != 1 {
		t.Fatalf("got index %d, want first occurrence 1", p.Index)
	}
	last, err := tree.ProofAt(3)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range [][][]byte{p.Siblings, last.Siblings} {
		if !verify(t, c, p.Leaf, s, tree.Root()) {
			t.Fatal("proof of duplicate record does not verify")
		}
	}
}

func TestProofHex(t *testing.T) {
	t.Parallel()

	p := merkle.Proof{Siblings: [][]byte{{0x01, 0xab}, {}}}
	if diff := cmp.Diff([]string{"0x01ab", "0x"}, p.Hex()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

// TestConcurrentUse proves and verifies every leaf of a shared tree from many
// goroutines.
func TestConcurrentUse(t *testing.T) {
	t.Parallel()

	c := merkle.NewConf(sha3.New256, merkle.WithWorkers(4))
	records := randomRecords(t, 12, 300)
	tree := build(t, c, records)
	root := tree.Root()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	eg, ectx := errgroup.WithContext(ctx)
	for i := range records {
		i := i
		eg.Go(func() error {
			select {
			case <-ectx.Done():
				return ectx.Err()
			default:
			}
			p, err := tree.ProofAt(i)
			if err != nil {
				return err
			}
			ok, err := c.Verify(p.Leaf, p.Siblings, root)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("proof %d does not verify", i)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}
}
