// Copyright 2025 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

func (c *command) initRootCmd() {
	cmd := &cobra.Command{
		Use:     "root",
		Short:   "Print the Merkle root of the configured allocations",
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			logger, err := c.logger(cmd)
			if err != nil {
				return err
			}
			a, err := c.buildAirdrop(logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(a.tree.Root()))
			return nil
		},
	}

	c.root.AddCommand(cmd)
}
