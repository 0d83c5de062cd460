// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ava-labs/cpamm/api/jsonrpc"
	"github.com/ava-labs/cpamm/utils"
)

func newTokenCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage tokens of a running node",
	}
	cmd.AddCommand(
		newCreateTokenCmd(o),
		&cobra.Command{
			Use:   "balance [token] [account]",
			Short: "Show the balance of an account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				addrs, err := parseAddresses(args...)
				if err != nil {
					return err
				}
				cli := jsonrpc.NewJSONRPCClient(o.endpoint)
				info, err := cli.Token(cmd.Context(), addrs[0])
				if err != nil {
					return err
				}
				bal, err := cli.Balance(cmd.Context(), addrs[0], addrs[1])
				if err != nil {
					return err
				}
				utils.Outf("{{yellow}}balance:{{/}} %s %s\n", utils.FormatBalance(bal, info.Decimals), info.Symbol)
				return nil
			},
		},
		newAmountCmd(o, "mint [actor] [token] [to]", "Mint --amount as the token owner", func(cmd *cobra.Command, cli *jsonrpc.JSONRPCClient, args []string, amount uint64) error {
			addrs, err := parseAddresses(args...)
			if err != nil {
				return err
			}
			return cli.Mint(cmd.Context(), addrs[0], addrs[1], addrs[2], amount)
		}),
		newAmountCmd(o, "transfer [token] [from] [to]", "Transfer --amount", func(cmd *cobra.Command, cli *jsonrpc.JSONRPCClient, args []string, amount uint64) error {
			addrs, err := parseAddresses(args...)
			if err != nil {
				return err
			}
			return cli.Transfer(cmd.Context(), addrs[0], addrs[1], addrs[2], amount)
		}),
		newAmountCmd(o, "approve [token] [owner] [spender]", "Allow spender to move --amount", func(cmd *cobra.Command, cli *jsonrpc.JSONRPCClient, args []string, amount uint64) error {
			addrs, err := parseAddresses(args...)
			if err != nil {
				return err
			}
			return cli.Approve(cmd.Context(), addrs[0], addrs[1], addrs[2], amount)
		}),
	)
	return cmd
}

func newCreateTokenCmd(o *rootOptions) *cobra.Command {
	var (
		decimals uint8
		metadata string
	)
	cmd := &cobra.Command{
		Use:   "create [owner] [name] [symbol]",
		Short: "Create a token with zero supply",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			token, err := jsonrpc.NewJSONRPCClient(o.endpoint).CreateToken(cmd.Context(), owner, args[1], args[2], decimals, metadata)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}created token:{{/}} %s\n", token)
			return nil
		},
	}
	cmd.Flags().Uint8Var(&decimals, "decimals", 9, "number of decimals")
	cmd.Flags().StringVar(&metadata, "metadata", "", "token metadata")
	return cmd
}

// newAmountCmd builds a command taking three address arguments and an
// --amount flag.
func newAmountCmd(
	o *rootOptions,
	use string,
	short string,
	f func(*cobra.Command, *jsonrpc.JSONRPCClient, []string, uint64) error,
) *cobra.Command {
	var amount uint64
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f(cmd, jsonrpc.NewJSONRPCClient(o.endpoint), args, amount); err != nil {
				return err
			}
			utils.Outf("{{green}}ok{{/}}\n")
			return nil
		},
	}
	cmd.Flags().Uint64Var(&amount, "amount", 0, "amount in base units")
	return cmd
}
