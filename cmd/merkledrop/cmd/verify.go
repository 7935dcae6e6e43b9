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

var errProofInvalid = errors.New("proof does not verify")

func (c *command) initVerifyCmd() {
	const (
		optionNameRoot    = "root"
		optionNameLeaf    = "leaf"
		optionNameAddress = "address"
		optionNameAmount  = "amount"
		optionNameProof   = "proof"
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify an inclusion proof against a root",
		Long: `Verify an inclusion proof against a root.

The leaf is given either directly with --leaf or as the allocation it is the
hash of with --address and --amount. The configured allocations are not used.`,
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			conf, _, err := c.merkleConf()
			if err != nil {
				return err
			}

			root, err := hexutil.Decode(c.config.GetString(optionNameRoot))
			if err != nil {
				return fmt.Errorf("root: %w", err)
			}

			var leaf []byte
			switch l, addr := c.config.GetString(optionNameLeaf), c.config.GetString(optionNameAddress); {
			case l != "" && addr != "":
				return fmt.Errorf("only one of --%s and --%s may be set", optionNameLeaf, optionNameAddress)
			case l != "":
				if leaf, err = hexutil.Decode(l); err != nil {
					return fmt.Errorf("leaf: %w", err)
				}
			case addr != "":
				address, err := allocation.ParseAddress(addr)
				if err != nil {
					return err
				}
				leaf = conf.LeafHash(allocation.Allocation{Address: address, Amount: c.config.GetUint64(optionNameAmount)}.Encode())
			default:
				return fmt.Errorf("one of --%s and --%s is required", optionNameLeaf, optionNameAddress)
			}

			proof := c.config.GetStringSlice(optionNameProof)
			siblings := make([][]byte, len(proof))
			for i, s := range proof {
				if siblings[i], err = hexutil.Decode(s); err != nil {
					return fmt.Errorf("proof entry %d: %w", i, err)
				}
			}

			ok, err := conf.Verify(leaf, siblings, root)
			if err != nil {
				return err
			}
			if !ok {
				return errProofInvalid
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}

	cmd.Flags().String(optionNameRoot, "", "expected root")
	cmd.Flags().String(optionNameLeaf, "", "leaf digest")
	cmd.Flags().String(optionNameAddress, "", "address of the allocation")
	cmd.Flags().Uint64(optionNameAmount, 0, "amount of the allocation")
	cmd.Flags().StringSlice(optionNameProof, nil, "proof siblings from the leaf up, comma separated or repeated")

	c.root.AddCommand(cmd)
}
