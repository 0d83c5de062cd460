// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"net/http"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/cpamm/api"
	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/storage"
	"github.com/ava-labs/cpamm/vm"
)

const Endpoint = "/ext/cpamm"

var _ Controller = (*vm.VM)(nil)

// Controller is the node state served over JSON-RPC.
type Controller interface {
	CreateToken(ctx context.Context, owner codec.Address, name string, symbol string, decimals uint8, metadata string) (codec.Address, error)
	Mint(ctx context.Context, actor codec.Address, token codec.Address, to codec.Address, amount uint64) error
	Transfer(ctx context.Context, token codec.Address, from codec.Address, to codec.Address, amount uint64) error
	Approve(ctx context.Context, token codec.Address, owner codec.Address, spender codec.Address, amount uint64) error
	Token(ctx context.Context, token codec.Address) (*storage.TokenInfo, error)
	Balance(ctx context.Context, token codec.Address, account codec.Address) (uint64, error)
	Allowance(ctx context.Context, token codec.Address, owner codec.Address, spender codec.Address) (uint64, error)

	CreatePool(ctx context.Context, tokenA codec.Address, tokenB codec.Address) (codec.Address, error)
	Pool(ctx context.Context, addr codec.Address) (*vm.PoolInfo, error)
	Pools(ctx context.Context) ([]*vm.PoolInfo, error)
	Swap(ctx context.Context, pool codec.Address, caller codec.Address, tokenIn codec.Address, tokenOut codec.Address, amountIn uint64) (uint64, error)
	AddLiquidity(ctx context.Context, pool codec.Address, caller codec.Address, amountAIn uint64, amountBIn uint64) (uint64, uint64, uint64, error)
	RemoveLiquidity(ctx context.Context, pool codec.Address, caller codec.Address, liquidity uint64) (uint64, uint64, error)
}

func NewJSONRPCHandler(log logging.Logger, c Controller) (api.Handler, error) {
	handler, err := api.NewJSONRPCHandler(api.Name, NewJSONRPCServer(log, c))
	if err != nil {
		return api.Handler{}, err
	}
	return api.Handler{
		Path:    Endpoint,
		Handler: handler,
	}, nil
}

type JSONRPCServer struct {
	log logging.Logger
	c   Controller
}

func NewJSONRPCServer(log logging.Logger, c Controller) *JSONRPCServer {
	return &JSONRPCServer{log: log, c: c}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	j.log.Info("ping")
	reply.Success = true
	return nil
}

type CreateTokenArgs struct {
	Owner    codec.Address `json:"owner"`
	Name     string        `json:"name"`
	Symbol   string        `json:"symbol"`
	Decimals uint8         `json:"decimals"`
	Metadata string        `json:"metadata"`
}

type AddressReply struct {
	Address codec.Address `json:"address"`
}

func (j *JSONRPCServer) CreateToken(req *http.Request, args *CreateTokenArgs, reply *AddressReply) (err error) {
	reply.Address, err = j.c.CreateToken(req.Context(), args.Owner, args.Name, args.Symbol, args.Decimals, args.Metadata)
	return err
}

type MintArgs struct {
	Actor  codec.Address `json:"actor"`
	Token  codec.Address `json:"token"`
	To     codec.Address `json:"to"`
	Amount uint64        `json:"amount"`
}

func (j *JSONRPCServer) Mint(req *http.Request, args *MintArgs, _ *struct{}) error {
	return j.c.Mint(req.Context(), args.Actor, args.Token, args.To, args.Amount)
}

type TransferArgs struct {
	Token  codec.Address `json:"token"`
	From   codec.Address `json:"from"`
	To     codec.Address `json:"to"`
	Amount uint64        `json:"amount"`
}

func (j *JSONRPCServer) Transfer(req *http.Request, args *TransferArgs, _ *struct{}) error {
	return j.c.Transfer(req.Context(), args.Token, args.From, args.To, args.Amount)
}

type ApproveArgs struct {
	Token   codec.Address `json:"token"`
	Owner   codec.Address `json:"owner"`
	Spender codec.Address `json:"spender"`
	Amount  uint64        `json:"amount"`
}

func (j *JSONRPCServer) Approve(req *http.Request, args *ApproveArgs, _ *struct{}) error {
	return j.c.Approve(req.Context(), args.Token, args.Owner, args.Spender, args.Amount)
}

type TokenArgs struct {
	Token codec.Address `json:"token"`
}

type TokenReply struct {
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Decimals    uint8         `json:"decimals"`
	Metadata    string        `json:"metadata"`
	TotalSupply uint64        `json:"totalSupply"`
	Owner       codec.Address `json:"owner"`
}

func (j *JSONRPCServer) Token(req *http.Request, args *TokenArgs, reply *TokenReply) error {
	info, err := j.c.Token(req.Context(), args.Token)
	if err != nil {
		return err
	}
	reply.Name = string(info.Name)
	reply.Symbol = string(info.Symbol)
	reply.Decimals = info.Decimals
	reply.Metadata = string(info.Metadata)
	reply.TotalSupply = info.TotalSupply
	reply.Owner = info.Owner
	return nil
}

type BalanceArgs struct {
	Token   codec.Address `json:"token"`
	Account codec.Address `json:"account"`
}

type AmountReply struct {
	Amount uint64 `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *AmountReply) (err error) {
	reply.Amount, err = j.c.Balance(req.Context(), args.Token, args.Account)
	return err
}

type AllowanceArgs struct {
	Token   codec.Address `json:"token"`
	Owner   codec.Address `json:"owner"`
	Spender codec.Address `json:"spender"`
}

func (j *JSONRPCServer) Allowance(req *http.Request, args *AllowanceArgs, reply *AmountReply) (err error) {
	reply.Amount, err = j.c.Allowance(req.Context(), args.Token, args.Owner, args.Spender)
	return err
}

type CreatePoolArgs struct {
	TokenA codec.Address `json:"tokenA"`
	TokenB codec.Address `json:"tokenB"`
}

func (j *JSONRPCServer) CreatePool(req *http.Request, args *CreatePoolArgs, reply *AddressReply) (err error) {
	reply.Address, err = j.c.CreatePool(req.Context(), args.TokenA, args.TokenB)
	return err
}

type PoolArgs struct {
	Pool codec.Address `json:"pool"`
}

type PoolReply struct {
	Pool *vm.PoolInfo `json:"pool"`
}

func (j *JSONRPCServer) Pool(req *http.Request, args *PoolArgs, reply *PoolReply) (err error) {
	reply.Pool, err = j.c.Pool(req.Context(), args.Pool)
	return err
}

type PoolsReply struct {
	Pools []*vm.PoolInfo `json:"pools"`
}

func (j *JSONRPCServer) Pools(req *http.Request, _ *struct{}, reply *PoolsReply) (err error) {
	reply.Pools, err = j.c.Pools(req.Context())
	return err
}

type SwapArgs struct {
	Pool     codec.Address `json:"pool"`
	Caller   codec.Address `json:"caller"`
	TokenIn  codec.Address `json:"tokenIn"`
	TokenOut codec.Address `json:"tokenOut"`
	AmountIn uint64        `json:"amountIn"`
}

type SwapReply struct {
	AmountOut uint64 `json:"amountOut"`
}

func (j *JSONRPCServer) Swap(req *http.Request, args *SwapArgs, reply *SwapReply) (err error) {
	reply.AmountOut, err = j.c.Swap(req.Context(), args.Pool, args.Caller, args.TokenIn, args.TokenOut, args.AmountIn)
	return err
}

type AddLiquidityArgs struct {
	Pool      codec.Address `json:"pool"`
	Caller    codec.Address `json:"caller"`
	AmountAIn uint64        `json:"amountAIn"`
	AmountBIn uint64        `json:"amountBIn"`
}

type LiquidityReply struct {
	AmountA   uint64 `json:"amountA"`
	AmountB   uint64 `json:"amountB"`
	Liquidity uint64 `json:"liquidity"`
}

func (j *JSONRPCServer) AddLiquidity(req *http.Request, args *AddLiquidityArgs, reply *LiquidityReply) (err error) {
	reply.AmountA, reply.AmountB, reply.Liquidity, err = j.c.AddLiquidity(req.Context(), args.Pool, args.Caller, args.AmountAIn, args.AmountBIn)
	return err
}

type RemoveLiquidityArgs struct {
	Pool      codec.Address `json:"pool"`
	Caller    codec.Address `json:"caller"`
	Liquidity uint64        `json:"liquidity"`
}

func (j *JSONRPCServer) RemoveLiquidity(req *http.Request, args *RemoveLiquidityArgs, reply *LiquidityReply) (err error) {
	reply.AmountA, reply.AmountB, err = j.c.RemoveLiquidity(req.Context(), args.Pool, args.Caller, args.Liquidity)
	if err != nil {
		return err
	}
	reply.Liquidity = args.Liquidity
	return nil
}
