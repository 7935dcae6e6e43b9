// Copyright 2025 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airdrop-tools/merkledrop/pkg/report"
)

func (c *command) initReportCmd() {
	const (
		optionNameFormat     = "format"
		optionNameOutputFile = "output-file"
	)

	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Write the root and the proofs of all allocations",
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
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
			r, err := report.New(a.hash, a.tree, a.allocations)
			if err != nil {
				return fmt.Errorf("new report: %w", err)
			}

			format := c.config.GetString(optionNameFormat)
			out := cmd.OutOrStdout()
			if name := c.config.GetString(optionNameOutputFile); name != "" {
				logger.WithField("file", name).Info("writing report")
				f, ferr := os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
				if ferr != nil {
					return fmt.Errorf("open output file: %w", ferr)
				}
				defer func() {
					if cerr := f.Close(); err == nil {
						err = cerr
					}
				}()
				out = f
			}
			if err := r.Encode(out, format); err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			logger.WithField("claims", len(r.Claims)).Debug("report written")
			return nil
		},
	}

	cmd.Flags().String(optionNameFormat, report.FormatJSON, "report format, one of json, yaml, msgpack, cbor")
	cmd.Flags().String(optionNameOutputFile, "", "output file, standard output if empty")

	c.root.AddCommand(cmd)
}
