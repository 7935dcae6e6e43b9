// Copyright 2025 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/airdrop-tools/merkledrop/pkg/allocation"
	"github.com/airdrop-tools/merkledrop/pkg/hashes"
	"github.com/airdrop-tools/merkledrop/pkg/logging"
	"github.com/airdrop-tools/merkledrop/pkg/merkle"
)

const (
	optionNameHash        = "hash"
	optionNameOddPolicy   = "odd-policy"
	optionNameWorkers     = "workers"
	optionNameVerbosity   = "verbosity"
	optionNameAllocations = "allocations"
)

func init() {
	cobra.EnableCommandSorting = false
}

type command struct {
	root    *cobra.Command
	config  *viper.Viper
	cfgFile string
	homeDir string
}

type option func(*command)

func newCommand(opts ...option) (c *command, err error) {
	c = &command{
		root: &cobra.Command{
			Use:           "merkledrop",
			Short:         "Merkle tree roots and inclusion proofs for airdrop allocations",
			SilenceErrors: true,
			SilenceUsage:  true,
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				return c.initConfig()
			},
		},
	}

	for _, o := range opts {
		o(c)
	}

	// Find home directory.
	if err := c.setHomeDir(); err != nil {
		return nil, err
	}

	c.initGlobalFlags()

	c.initRootCmd()
	c.initProofCmd()
	c.initVerifyCmd()
	c.initReportCmd()
	c.initVersionCmd()

	return c, nil
}

func (c *command) Execute() (err error) {
	return c.root.Execute()
}

// Execute parses command line arguments and runs appropriate functions.
func Execute() (err error) {
	c, err := newCommand()
	if err != nil {
		return err
	}
	return c.Execute()
}

func (c *command) initGlobalFlags() {
	globalFlags := c.root.PersistentFlags()
	globalFlags.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.merkledrop.yaml)")
	globalFlags.String(optionNameHash, hashes.Default, fmt.Sprintf("base hash function, one of %s", strings.Join(hashes.Names(), ", ")))
	globalFlags.String(optionNameOddPolicy, merkle.OddDuplicate.String(), "pairing of the last node of odd layers, duplicate or promote")
	globalFlags.Int(optionNameWorkers, 1, "number of goroutines hashing a tree layer")
	globalFlags.String(optionNameVerbosity, "info", "log verbosity level 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace")
}

func (c *command) initConfig() (err error) {
	config := viper.New()
	configName := ".merkledrop"
	if c.cfgFile != "" {
		// Use config file from the flag.
		config.SetConfigFile(c.cfgFile)
	} else {
		// Search config in home directory with name ".merkledrop" (without extension).
		config.AddConfigPath(c.homeDir)
		config.SetConfigName(configName)
	}

	// Environment
	config.SetEnvPrefix("merkledrop")
	config.AutomaticEnv() // read in environment variables that match
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if c.homeDir != "" && c.cfgFile == "" {
		c.cfgFile = filepath.Join(c.homeDir, configName+".yaml")
	}

	// If a config file is found, read it in.
	if err := config.ReadInConfig(); err != nil {
		var e viper.ConfigFileNotFoundError
		if !errors.As(err, &e) {
			return err
		}
	}
	c.config = config
	return nil
}

func (c *command) setHomeDir() (err error) {
	if c.homeDir != "" {
		return
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	c.homeDir = dir
	return nil
}

// bindFlags is used as PreRunE of every subcommand so that flags take
// precedence over the config file and the environment.
func (c *command) bindFlags(cmd *cobra.Command, args []string) error {
	return c.config.BindPFlags(cmd.Flags())
}

func newLogger(cmd *cobra.Command, verbosity string) (logging.Logger, error) {
	level, ok, err := logging.ParseVerbosity(verbosity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return logging.New(ioutil.Discard, 0), nil
	}
	return logging.New(cmd.ErrOrStderr(), level), nil
}

// merkleConf creates the tree configuration from the hash, odd-policy and
// workers options.
func (c *command) merkleConf() (*merkle.Conf, string, error) {
	name := c.config.GetString(optionNameHash)
	hasher, err := hashes.ByName(name)
	if err != nil {
		return nil, "", err
	}
	policy, err := merkle.ParseOddPolicy(c.config.GetString(optionNameOddPolicy))
	if err != nil {
		return nil, "", err
	}
	if name == "" {
		name = hashes.Default
	}
	return merkle.NewConf(hasher, merkle.WithOddPolicy(policy), merkle.WithWorkers(c.config.GetInt(optionNameWorkers))), name, nil
}

// airdrop holds a tree built over the configured allocations.
type airdrop struct {
	hash        string
	conf        *merkle.Conf
	tree        *merkle.Tree
	allocations []allocation.Allocation
}

func (c *command) buildAirdrop(logger logging.Logger) (*airdrop, error) {
	conf, name, err := c.merkleConf()
	if err != nil {
		return nil, err
	}

	var entries []allocation.Entry
	if err := c.config.UnmarshalKey(optionNameAllocations, &entries); err != nil {
		return nil, fmt.Errorf("read allocations: %w", err)
	}
	as, err := allocation.FromEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("parse allocations: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"allocations": len(as),
		"hash":        name,
		"odd_policy":  conf.OddPolicy(),
	}).Debug("building tree")

	tree, err := conf.Build(allocation.Records(as))
	if err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"leaves": tree.Len(),
		"depth":  tree.Depth(),
	}).Info("tree built")

	return &airdrop{
		hash:        name,
		conf:        conf,
		tree:        tree,
		allocations: as,
	}, nil
}

func (c *command) logger(cmd *cobra.Command) (logging.Logger, error) {
	return newLogger(cmd, c.config.GetString(optionNameVerbosity))
}
