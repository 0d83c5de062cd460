// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/cpamm/api"
	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/vm"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, args interface{}, reply interface{}) error {
	return cli.requester.SendRequest(ctx, api.Name+"."+method, args, reply)
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.send(ctx, "ping", nil, resp)
	return resp.Success, err
}

func (cli *JSONRPCClient) CreateToken(
	ctx context.Context,
	owner codec.Address,
	name string,
	symbol string,
	decimals uint8,
	metadata string,
) (codec.Address, error) {
	resp := new(AddressReply)
	err := cli.send(ctx, "createToken", &CreateTokenArgs{
		Owner:    owner,
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
		Metadata: metadata,
	}, resp)
	return resp.Address, err
}

func (cli *JSONRPCClient) Mint(ctx context.Context, actor codec.Address, token codec.Address, to codec.Address, amount uint64) error {
	return cli.send(ctx, "mint", &MintArgs{
		Actor:  actor,
		Token:  token,
		To:     to,
		Amount: amount,
	}, &struct{}{})
}

func (cli *JSONRPCClient) Transfer(ctx context.Context, token codec.Address, from codec.Address, to codec.Address, amount uint64) error {
	return cli.send(ctx, "transfer", &TransferArgs{
		Token:  token,
		From:   from,
		To:     to,
		Amount: amount,
	}, &struct{}{})
}

func (cli *JSONRPCClient) Approve(ctx context.Context, token codec.Address, owner codec.Address, spender codec.Address, amount uint64) error {
	return cli.send(ctx, "approve", &ApproveArgs{
		Token:   token,
		Owner:   owner,
		Spender: spender,
		Amount:  amount,
	}, &struct{}{})
}

func (cli *JSONRPCClient) Token(ctx context.Context, token codec.Address) (*TokenReply, error) {
	resp := new(TokenReply)
	if err := cli.send(ctx, "token", &TokenArgs{Token: token}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) Balance(ctx context.Context, token codec.Address, account codec.Address) (uint64, error) {
	resp := new(AmountReply)
	err := cli.send(ctx, "balance", &BalanceArgs{Token: token, Account: account}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) Allowance(ctx context.Context, token codec.Address, owner codec.Address, spender codec.Address) (uint64, error) {
	resp := new(AmountReply)
	err := cli.send(ctx, "allowance", &AllowanceArgs{
		Token:   token,
		Owner:   owner,
		Spender: spender,
	}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) CreatePool(ctx context.Context, tokenA codec.Address, tokenB codec.Address) (codec.Address, error) {
	resp := new(AddressReply)
	err := cli.send(ctx, "createPool", &CreatePoolArgs{TokenA: tokenA, TokenB: tokenB}, resp)
	return resp.Address, err
}

func (cli *JSONRPCClient) Pool(ctx context.Context, pool codec.Address) (*vm.PoolInfo, error) {
	resp := new(PoolReply)
	if err := cli.send(ctx, "pool", &PoolArgs{Pool: pool}, resp); err != nil {
		return nil, err
	}
	return resp.Pool, nil
}

func (cli *JSONRPCClient) Pools(ctx context.Context) ([]*vm.PoolInfo, error) {
	resp := new(PoolsReply)
	err := cli.send(ctx, "pools", nil, resp)
	return resp.Pools, err
}

func (cli *JSONRPCClient) Swap(
	ctx context.Context,
	pool codec.Address,
	caller codec.Address,
	tokenIn codec.Address,
	tokenOut codec.Address,
	amountIn uint64,
) (uint64, error) {
	resp := new(SwapReply)
	err := cli.send(ctx, "swap", &SwapArgs{
		Pool:     pool,
		Caller:   caller,
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		AmountIn: amountIn,
	}, resp)
	return resp.AmountOut, err
}

func (cli *JSONRPCClient) AddLiquidity(
	ctx context.Context,
	pool codec.Address,
	caller codec.Address,
	amountAIn uint64,
	amountBIn uint64,
) (*LiquidityReply, error) {
	resp := new(LiquidityReply)
	if err := cli.send(ctx, "addLiquidity", &AddLiquidityArgs{
		Pool:      pool,
		Caller:    caller,
		AmountAIn: amountAIn,
		AmountBIn: amountBIn,
	}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) RemoveLiquidity(
	ctx context.Context,
	pool codec.Address,
	caller codec.Address,
	liquidity uint64,
) (*LiquidityReply, error) {
	resp := new(LiquidityReply)
	if err := cli.send(ctx, "removeLiquidity", &RemoveLiquidityArgs{
		Pool:      pool,
		Caller:    caller,
		Liquidity: liquidity,
	}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
