// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/storage"
)

type Allocation struct {
	Address codec.Address `json:"address"`
	Balance uint64        `json:"balance"`

	// ApprovePools grants every genesis pool that trades this token an
	// unlimited allowance over the balance of [Address].
	ApprovePools bool `json:"approvePools"`
}

type Approval struct {
	Owner   codec.Address `json:"owner"`
	Spender codec.Address `json:"spender"`
	Amount  uint64        `json:"amount"`
}

type Token struct {
	Name     string        `json:"name"`
	Symbol   string        `json:"symbol"`
	Decimals uint8         `json:"decimals"`
	Metadata string        `json:"metadata"`
	Owner    codec.Address `json:"owner"`

	Allocations []*Allocation `json:"allocations"`
	Approvals   []*Approval   `json:"approvals"`
}

func (t *Token) Info() *storage.TokenInfo {
	return &storage.TokenInfo{
		Name:     []byte(t.Name),
		Symbol:   []byte(t.Symbol),
		Decimals: t.Decimals,
		Metadata: []byte(t.Metadata),
		Owner:    t.Owner,
	}
}

func (t *Token) Address() codec.Address {
	return storage.TokenAddress([]byte(t.Name), []byte(t.Symbol), t.Decimals, []byte(t.Metadata))
}

// Pool references genesis tokens by symbol.
type Pool struct {
	TokenA string `json:"tokenA"`
	TokenB string `json:"tokenB"`
}

type Genesis struct {
	Tokens []*Token `json:"tokens"`
	Pools  []*Pool  `json:"pools"`
}

// PoolPair is a genesis pool with its tokens resolved.
type PoolPair struct {
	TokenA codec.Address
	TokenB codec.Address
}

func Load(b []byte) (*Genesis, error) {
	g := &Genesis{}
	if len(b) == 0 {
		return g, nil
	}
	if err := json.Unmarshal(b, g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal genesis %s: %w", string(b), err)
	}
	if err := g.Verify(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Genesis) Verify() error {
	symbols := make(map[string]struct{}, len(g.Tokens))
	for _, t := range g.Tokens {
		if err := t.Info().Verify(); err != nil {
			return fmt.Errorf("%w: %s", err, t.Symbol)
		}
		if _, ok := symbols[t.Symbol]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateSymbol, t.Symbol)
		}
		symbols[t.Symbol] = struct{}{}
	}
	seen := make(map[codec.Address]struct{}, len(g.Pools))
	for _, p := range g.Pools {
		pair, err := g.resolve(p)
		if err != nil {
			return err
		}
		addr, err := storage.PoolAddress(pair.TokenA, pair.TokenB)
		if err != nil {
			return fmt.Errorf("%w: %s/%s", err, p.TokenA, p.TokenB)
		}
		if _, ok := seen[addr]; ok {
			return fmt.Errorf("%w: %s/%s", ErrDuplicatePool, p.TokenA, p.TokenB)
		}
		seen[addr] = struct{}{}
	}
	if len(g.Pools) > storage.MaxPools {
		return storage.ErrTooManyPools
	}
	return nil
}

func (g *Genesis) token(symbol string) (*Token, bool) {
	for _, t := range g.Tokens {
		if t.Symbol == symbol {
			return t, true
		}
	}
	return nil, false
}

func (g *Genesis) resolve(p *Pool) (*PoolPair, error) {
	a, ok := g.token(p.TokenA)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, p.TokenA)
	}
	b, ok := g.token(p.TokenB)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, p.TokenB)
	}
	return &PoolPair{TokenA: a.Address(), TokenB: b.Address()}, nil
}

// PoolPairs returns the genesis pools in declaration order.
func (g *Genesis) PoolPairs() ([]*PoolPair, error) {
	pairs := make([]*PoolPair, 0, len(g.Pools))
	for _, p := range g.Pools {
		pair, err := g.resolve(p)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// InitializeState creates every genesis token, mints its allocations and
// records its approvals. Pools are created by the caller.
func (g *Genesis) InitializeState(ctx context.Context, mu state.Mutable) error {
	pairs, err := g.PoolPairs()
	if err != nil {
		return err
	}
	for _, t := range g.Tokens {
		addr := t.Address()
		if err := storage.CreateToken(ctx, mu, addr, t.Info()); err != nil {
			return fmt.Errorf("%w: token=%s", err, t.Symbol)
		}
		for _, alloc := range t.Allocations {
			if err := storage.MintToken(ctx, mu, addr, alloc.Address, alloc.Balance); err != nil {
				return fmt.Errorf("%w: token=%s, addr=%s, bal=%d", err, t.Symbol, alloc.Address, alloc.Balance)
			}
			if !alloc.ApprovePools {
				continue
			}
			for _, pair := range pairs {
				if pair.TokenA != addr && pair.TokenB != addr {
					continue
				}
				pool, err := storage.PoolAddress(pair.TokenA, pair.TokenB)
				if err != nil {
					return err
				}
				if err := storage.Approve(ctx, mu, addr, alloc.Address, pool, storage.Unlimited); err != nil {
					return err
				}
			}
		}
		for _, approval := range t.Approvals {
			if err := storage.Approve(ctx, mu, addr, approval.Owner, approval.Spender, approval.Amount); err != nil {
				return fmt.Errorf("%w: token=%s, owner=%s", err, t.Symbol, approval.Owner)
			}
		}
	}
	return nil
}
