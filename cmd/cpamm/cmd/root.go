// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"

	"github.com/ava-labs/cpamm/config"
	"github.com/ava-labs/cpamm/consts"
)

const defaultEndpoint = "http://127.0.0.1:9650"

type rootOptions struct {
	configFile string
	logLevel   string
	endpoint   string
}

func NewRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:   consts.Name,
		Short: "Constant-product liquidity pools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.PersistentFlags().StringVar(&o.configFile, "config", "", "path to the JSON node config")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "override the configured log level")
	cmd.PersistentFlags().StringVar(&o.endpoint, "endpoint", defaultEndpoint, "node to send requests to")

	cmd.AddCommand(
		newServeCmd(o),
		newSimulateCmd(o),
		newPoolCmd(o),
		newTokenCmd(o),
	)
	return cmd
}

// loadConfig reads the node config. A missing --config uses the defaults.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var b []byte
	if len(o.configFile) > 0 {
		var err error
		b, err = os.ReadFile(o.configFile)
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.New(b)
	if err != nil {
		return nil, err
	}
	if len(o.logLevel) > 0 {
		level, err := logging.ToLevel(o.logLevel)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
		cfg.LogDisplayLevel = level
	}
	return cfg, nil
}
