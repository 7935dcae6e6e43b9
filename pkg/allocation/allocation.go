// Copyright 2025 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package allocation holds airdrop allocations and their canonical record
// encoding, the BCS serialization of a 32 byte address followed by a u64
// amount.
package allocation

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/hashicorp/go-multierror"
)

const (
	// AddressLength is the length of an account address in bytes.
	AddressLength = 32
	// RecordLength is the length of an encoded allocation.
	RecordLength = AddressLength + 8
)

var (
	ErrInvalidAddress   = errors.New("invalid address")
	ErrDuplicateAddress = errors.New("duplicate address")
)

// Address is an account address.
type Address [AddressLength]byte

// ParseAddress parses a hexadecimal address with an optional 0x prefix.
// Short addresses are left padded with zeros, so "0x2" is a valid address.
func ParseAddress(s string) (a Address, err error) {
	h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if h == "" {
		return a, fmt.Errorf("%q: %w", s, ErrInvalidAddress)
	}
	if len(h)%2 == 1 {
		h = "0" + h
	}
	b, err := hexutil.Decode("0x" + h)
	if err != nil {
		return a, fmt.Errorf("%q: %v: %w", s, err, ErrInvalidAddress)
	}
	if len(b) > AddressLength {
		return a, fmt.Errorf("%q is longer than %d bytes: %w", s, AddressLength, ErrInvalidAddress)
	}
	copy(a[:], common.LeftPadBytes(b, AddressLength))
	return a, nil
}

// MustParseAddress is like ParseAddress but panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the 0x prefixed hexadecimal form of the address.
func (a Address) String() string {
	return hexutil.Encode(a[:])
}

// Allocation is the amount an address is entitled to.
type Allocation struct {
	Address Address
	Amount  uint64
}

// Encode returns the BCS encoding of the allocation: the address bytes
// followed by the little endian amount.
func (a Allocation) Encode() []byte {
	b := make([]byte, RecordLength)
	copy(b, a.Address[:])
	binary.LittleEndian.PutUint64(b[AddressLength:], a.Amount)
	return b
}

// Decode parses a record produced by Encode.
func Decode(b []byte) (a Allocation, err error) {
	if len(b) != RecordLength {
		return a, fmt.Errorf("record has %d bytes, want %d", len(b), RecordLength)
	}
	copy(a.Address[:], b)
	a.Amount = binary.LittleEndian.Uint64(b[AddressLength:])
	return a, nil
}

// Records encodes all allocations in order.
func Records(as []Allocation) [][]byte {
	rs := make([][]byte, len(as))
	for i, a := range as {
		rs[i] = a.Encode()
	}
	return rs
}

// Entry is the configuration form of an allocation.
type Entry struct {
	Address string `mapstructure:"address" json:"address" yaml:"address"`
	Amount  uint64 `mapstructure:"amount" json:"amount" yaml:"amount"`
}

// FromEntries parses the entries in order. Every invalid or repeated address
// is reported in the returned error.
func FromEntries(entries []Entry) ([]Allocation, error) {
	var mErr *multierror.Error
	as := make([]Allocation, 0, len(entries))
	seen := make(map[Address]int, len(entries))
	for i, e := range entries {
		addr, err := ParseAddress(e.Address)
		if err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		if j, ok := seen[addr]; ok {
			mErr = multierror.Append(mErr, fmt.Errorf("entry %d: %s already in entry %d: %w", i, addr, j, ErrDuplicateAddress))
			continue
		}
		seen[addr] = i
		as = append(as, Allocation{Address: addr, Amount: e.Amount})
	}
	if err := mErr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return as, nil
}
