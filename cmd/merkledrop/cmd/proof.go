// Copyright 2025 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/airdrop-tools/merkledrop/pkg/allocation"
)

var errNoAllocation = errors.New("no allocation for address")

func (c *command) initProofCmd() {
	const optionNameAddress = "address"

	cmd := &cobra.Command{
		Use:     "proof",
		Short:   "Print the leaf and the inclusion proof of an address. The 1st line is the leaf",
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			address, err := allocation.ParseAddress(c.config.GetString(optionNameAddress))
			if err != nil {
				return err
			}
			logger, err := c.logger(cmd)
			if err != nil {
				return err
			}
			a, err := c.buildAirdrop(logger)
			if err != nil {
				return err
			}

			index := -1
			for i, al := range a.allocations {
				if al.Address == address {
					index = i
					break
				}
			}
			if index < 0 {
				return fmt.Errorf("%s: %w", address, errNoAllocation)
			}

			p, err := a.tree.ProofAt(index)
			if err != nil {
				return err
			}
			logger.WithField("address", address.String()).Debugf("proof of %d siblings", len(p.Siblings))

			fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(p.Leaf))
			for _, s := range p.Hex() {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}

	cmd.Flags().String(optionNameAddress, "", "address to prove the allocation of")

	c.root.AddCommand(cmd)
}
