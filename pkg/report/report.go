// Copyright 2025 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report renders a built airdrop tree, its root and the proofs of all
// allocations, in a transport format.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v2"

	"github.com/airdrop-tools/merkledrop/pkg/allocation"
	"github.com/airdrop-tools/merkledrop/pkg/merkle"
)

const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatMsgpack = "msgpack"
	FormatCBOR    = "cbor"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Report is the root of an airdrop tree with the proofs of all claims.
type Report struct {
	Hash      string  `json:"hash" yaml:"hash" msgpack:"hash" cbor:"hash"`
	OddPolicy string  `json:"oddPolicy" yaml:"oddPolicy" msgpack:"oddPolicy" cbor:"oddPolicy"`
	Root      string  `json:"root" yaml:"root" msgpack:"root" cbor:"root"`
	Depth     int     `json:"depth" yaml:"depth" msgpack:"depth" cbor:"depth"`
	Claims    []Claim `json:"claims" yaml:"claims" msgpack:"claims" cbor:"claims"`
}

// Claim is a single allocation with its leaf and inclusion proof.
type Claim struct {
	Index   int      `json:"index" yaml:"index" msgpack:"index" cbor:"index"`
	Address string   `json:"address" yaml:"address" msgpack:"address" cbor:"address"`
	Amount  uint64   `json:"amount" yaml:"amount" msgpack:"amount" cbor:"amount"`
	Leaf    string   `json:"leaf" yaml:"leaf" msgpack:"leaf" cbor:"leaf"`
	Proof   []string `json:"proof" yaml:"proof" msgpack:"proof" cbor:"proof"`
}

// New creates the report of a tree built from the allocations in the same
// order.
func New(hashName string, tree *merkle.Tree, as []allocation.Allocation) (*Report, error) {
	if tree.Len() != len(as) {
		return nil, fmt.Errorf("tree has %d leaves, got %d allocations", tree.Len(), len(as))
	}
	r := &Report{
		Hash:      hashName,
		OddPolicy: tree.Conf().OddPolicy().String(),
		Root:      hexutil.Encode(tree.Root()),
		Depth:     tree.Depth(),
		Claims:    make([]Claim, len(as)),
	}
	for i, a := range as {
		p, err := tree.ProofAt(i)
		if err != nil {
			return nil, fmt.Errorf("proof of %s: %w", a.Address, err)
		}
		r.Claims[i] = Claim{
			Index:   i,
			Address: a.Address.String(),
			Amount:  a.Amount,
			Leaf:    hexutil.Encode(p.Leaf),
			Proof:   p.Hex(),
		}
	}
	return r, nil
}

// Claim returns the claim of the address.
func (r *Report) Claim(address allocation.Address) (Claim, bool) {
	s := address.String()
	for _, c := range r.Claims {
		if c.Address == s {
			return c, true
		}
	}
	return Claim{}, false
}

// Encode writes the report to w in the named format.
func (r *Report) Encode(w io.Writer, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		b, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(r)
	case FormatCBOR:
		return cbor.NewEncoder(w).Encode(r)
	default:
		return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

// Decode reads a report in the named format from rd.
func Decode(rd io.Reader, format string) (*Report, error) {
	r := new(Report)
	var err error
	switch format {
	case FormatJSON, "":
		err = json.NewDecoder(rd).Decode(r)
	case FormatYAML:
		var b []byte
		if b, err = io.ReadAll(rd); err == nil {
			err = yaml.Unmarshal(b, r)
		}
	case FormatMsgpack:
		err = msgpack.NewDecoder(rd).Decode(r)
	case FormatCBOR:
		err = cbor.NewDecoder(rd).Decode(r)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s report: %w", format, err)
	}
	return r, nil
}
