// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/ava-labs/cpamm/api/jsonrpc"
	"github.com/ava-labs/cpamm/api/ws"
	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/utils"
	"github.com/ava-labs/cpamm/vm"
)

func parseAddress(s string) (codec.Address, error) {
	var addr codec.Address
	return addr, addr.UnmarshalText([]byte(s))
}

func parseAddresses(args ...string) ([]codec.Address, error) {
	addrs := make([]codec.Address, 0, len(args))
	for _, arg := range args {
		addr, err := parseAddress(arg)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

func printPool(info *vm.PoolInfo) {
	utils.Outf("{{cyan}}pool:{{/}} %s\n", codec.MustAddressBech32(consts.HRP, info.Address))
	utils.Outf("  tokenA=%s reserveA=%d\n", info.TokenA, info.ReserveA)
	utils.Outf("  tokenB=%s reserveB=%d\n", info.TokenB, info.ReserveB)
	utils.Outf("  claimToken=%s totalClaims=%d\n", info.ClaimToken, info.TotalClaims)
}

func newPoolCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Query and trade against pools of a running node",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all pools",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				pools, err := jsonrpc.NewJSONRPCClient(o.endpoint).Pools(cmd.Context())
				if err != nil {
					return err
				}
				for _, info := range pools {
					printPool(info)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "info [pool]",
			Short: "Show the reserves of a pool",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				addr, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				info, err := jsonrpc.NewJSONRPCClient(o.endpoint).Pool(cmd.Context(), addr)
				if err != nil {
					return err
				}
				printPool(info)
				return nil
			},
		},
		&cobra.Command{
			Use:   "create [tokenA] [tokenB]",
			Short: "Create an empty pool",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				addrs, err := parseAddresses(args...)
				if err != nil {
					return err
				}
				addr, err := jsonrpc.NewJSONRPCClient(o.endpoint).CreatePool(cmd.Context(), addrs[0], addrs[1])
				if err != nil {
					return err
				}
				utils.Outf("{{green}}created pool:{{/}} %s\n", addr)
				return nil
			},
		},
		newSwapCmd(o),
		newAddLiquidityCmd(o),
		newRemoveLiquidityCmd(o),
		newWatchCmd(o),
	)
	return cmd
}

func newSwapCmd(o *rootOptions) *cobra.Command {
	var amount uint64
	cmd := &cobra.Command{
		Use:   "swap [pool] [caller] [tokenIn] [tokenOut]",
		Short: "Sell --amount of tokenIn for tokenOut",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			addrs, err := parseAddresses(args...)
			if err != nil {
				return err
			}
			out, err := jsonrpc.NewJSONRPCClient(o.endpoint).Swap(cmd.Context(), addrs[0], addrs[1], addrs[2], addrs[3], amount)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}swapped:{{/}} in=%d out=%d\n", amount, out)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&amount, "amount", 0, "amount of tokenIn to sell")
	return cmd
}

func newAddLiquidityCmd(o *rootOptions) *cobra.Command {
	var amountA, amountB uint64
	cmd := &cobra.Command{
		Use:   "add [pool] [caller]",
		Short: "Deposit at most --amount-a and --amount-b",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addrs, err := parseAddresses(args...)
			if err != nil {
				return err
			}
			r, err := jsonrpc.NewJSONRPCClient(o.endpoint).AddLiquidity(cmd.Context(), addrs[0], addrs[1], amountA, amountB)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}added liquidity:{{/}} amountA=%d amountB=%d liquidity=%d\n", r.AmountA, r.AmountB, r.Liquidity)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&amountA, "amount-a", 0, "maximum amount of token A to deposit")
	cmd.Flags().Uint64Var(&amountB, "amount-b", 0, "maximum amount of token B to deposit")
	return cmd
}

func newRemoveLiquidityCmd(o *rootOptions) *cobra.Command {
	var liquidity uint64
	cmd := &cobra.Command{
		Use:   "remove [pool] [caller]",
		Short: "Redeem --liquidity claims",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addrs, err := parseAddresses(args...)
			if err != nil {
				return err
			}
			r, err := jsonrpc.NewJSONRPCClient(o.endpoint).RemoveLiquidity(cmd.Context(), addrs[0], addrs[1], liquidity)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}removed liquidity:{{/}} amountA=%d amountB=%d\n", r.AmountA, r.AmountB)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&liquidity, "liquidity", 0, "claims to redeem")
	return cmd
}

func newWatchCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print pool events as they happen",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cli, err := ws.NewWebSocketClient(o.endpoint)
			if err != nil {
				return err
			}
			defer cli.Close()
			for {
				msg, err := cli.Listen()
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				utils.Outf("{{yellow}}%s{{/}} pool=%s %s\n", msg.Type, msg.Pool, msg.Event)
			}
		},
	}
}
