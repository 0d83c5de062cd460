// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/genesis"
	"github.com/ava-labs/cpamm/storage"
	"github.com/ava-labs/cpamm/utils"
)

type Operation string

const (
	SwapOperation            Operation = "swap"
	AddLiquidityOperation    Operation = "add_liquidity"
	RemoveLiquidityOperation Operation = "remove_liquidity"
	TransferOperation        Operation = "transfer"
	ApproveOperation         Operation = "approve"
)

type Plan struct {
	// The name of the plan.
	Name string `yaml:"name"`
	// A description of the plan.
	Description string `yaml:"description"`
	// Named accounts. Each name maps to a fixed address.
	Accounts []string `yaml:"accounts"`
	// Tokens created at genesis.
	Tokens []PlanToken `yaml:"tokens"`
	// Pools created at genesis, as "SYMBOL_A/SYMBOL_B".
	Pools []string `yaml:"pools"`
	// Grant every genesis pool an unlimited allowance over all minted
	// balances.
	ApprovePools bool `yaml:"approve_pools"`
	// Steps to perform during simulation.
	Steps []Step `yaml:"steps"`
}

type PlanToken struct {
	Name     string            `yaml:"name"`
	Symbol   string            `yaml:"symbol"`
	Decimals uint8             `yaml:"decimals"`
	Owner    string            `yaml:"owner"`
	Mint     map[string]uint64 `yaml:"mint"`
}

type Step struct {
	// Description of the step.
	Description string `yaml:"description"`
	// The operation to perform. (required)
	Operation Operation `yaml:"operation"`
	// The account performing the operation. (required)
	Caller string `yaml:"caller"`
	// The pool to operate on, as "SYMBOL_A/SYMBOL_B".
	Pool string `yaml:"pool,omitempty"`
	// The token sold by a swap, moved by a transfer or approved.
	Token string `yaml:"token,omitempty"`
	// The receiving account of a transfer or the spender of an approval.
	// An empty spender approves [Pool].
	To string `yaml:"to,omitempty"`
	// Amounts passed to the operation.
	Amounts []uint64 `yaml:"amounts"`
	// Define required assertions against this step.
	Require *Require `yaml:"require,omitempty"`
}

type Require struct {
	// A substring of the expected error. Empty requires success.
	Error string `yaml:"error,omitempty"`
	// Expected outputs of the operation.
	Outputs []uint64 `yaml:"outputs,omitempty"`
	// Expected reserves of the pool after the step.
	Reserves []uint64 `yaml:"reserves,omitempty"`
}

func unmarshalPlan(b []byte) (*Plan, error) {
	p := &Plan{}
	if err := yaml.UnmarshalStrict(b, p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	if err := p.Verify(); err != nil {
		return nil, err
	}
	return p, nil
}

// AccountAddress derives the address of a named account.
func AccountAddress(name string) codec.Address {
	return codec.CreateAddress(consts.AccountID, utils.ToID([]byte(name)))
}

func splitPool(pool string) (string, string, error) {
	parts := strings.Split(pool, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownPool, pool)
	}
	return parts[0], parts[1], nil
}

func (p *Plan) hasAccount(name string) bool {
	for _, a := range p.Accounts {
		if a == name {
			return true
		}
	}
	return false
}

func (p *Plan) hasToken(symbol string) bool {
	for _, t := range p.Tokens {
		if t.Symbol == symbol {
			return true
		}
	}
	return false
}

func (p *Plan) Verify() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	for _, t := range p.Tokens {
		if !p.hasAccount(t.Owner) {
			return fmt.Errorf("%w: owner %q of %s", ErrUnknownAccount, t.Owner, t.Symbol)
		}
		for name := range t.Mint {
			if !p.hasAccount(name) {
				return fmt.Errorf("%w: %q minted %s", ErrUnknownAccount, name, t.Symbol)
			}
		}
	}
	for _, pool := range p.Pools {
		if err := p.verifyPool(pool); err != nil {
			return err
		}
	}
	for i, s := range p.Steps {
		if err := p.verifyStep(s); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidStep, i, err)
		}
	}
	return nil
}

func (p *Plan) verifyPool(pool string) error {
	a, b, err := splitPool(pool)
	if err != nil {
		return err
	}
	if !p.hasToken(a) || !p.hasToken(b) {
		return fmt.Errorf("%w: %s", ErrUnknownToken, pool)
	}
	return nil
}

func (p *Plan) verifyStep(s Step) error {
	if !p.hasAccount(s.Caller) {
		return fmt.Errorf("%w: %q", ErrUnknownAccount, s.Caller)
	}
	expected := 0
	switch s.Operation {
	case SwapOperation:
		expected = 1
	case AddLiquidityOperation:
		expected = 2
	case RemoveLiquidityOperation:
		expected = 1
	case TransferOperation, ApproveOperation:
		expected = 1
	default:
		return fmt.Errorf("unknown operation %q", s.Operation)
	}
	if len(s.Amounts) != expected {
		return fmt.Errorf("%s takes %d amounts, got %d", s.Operation, expected, len(s.Amounts))
	}
	if len(s.Pool) > 0 {
		if err := p.verifyPool(s.Pool); err != nil {
			return err
		}
	}
	if len(s.Token) > 0 && !p.hasToken(s.Token) {
		return fmt.Errorf("%w: %s", ErrUnknownToken, s.Token)
	}
	if len(s.To) > 0 && !p.hasAccount(s.To) {
		return fmt.Errorf("%w: %q", ErrUnknownAccount, s.To)
	}
	switch s.Operation {
	case SwapOperation, AddLiquidityOperation, RemoveLiquidityOperation:
		if len(s.Pool) == 0 {
			return fmt.Errorf("%s requires a pool", s.Operation)
		}
	}
	switch s.Operation {
	case SwapOperation, TransferOperation, ApproveOperation:
		if len(s.Token) == 0 {
			return fmt.Errorf("%s requires a token", s.Operation)
		}
	}
	if s.Operation == TransferOperation && len(s.To) == 0 {
		return fmt.Errorf("%s requires a recipient", s.Operation)
	}
	if s.Operation == ApproveOperation && len(s.To) == 0 && len(s.Pool) == 0 {
		return fmt.Errorf("%s requires a spender or a pool", s.Operation)
	}
	return nil
}

// Genesis returns the genesis described by [p].
func (p *Plan) Genesis() *genesis.Genesis {
	g := &genesis.Genesis{}
	for _, t := range p.Tokens {
		token := &genesis.Token{
			Name:     t.Name,
			Symbol:   t.Symbol,
			Decimals: t.Decimals,
			Owner:    AccountAddress(t.Owner),
		}
		// Iterate accounts rather than the map so that genesis is
		// deterministic.
		for _, name := range p.Accounts {
			amount, ok := t.Mint[name]
			if !ok {
				continue
			}
			token.Allocations = append(token.Allocations, &genesis.Allocation{
				Address:      AccountAddress(name),
				Balance:      amount,
				ApprovePools: p.ApprovePools,
			})
		}
		g.Tokens = append(g.Tokens, token)
	}
	for _, pool := range p.Pools {
		a, b, _ := splitPool(pool)
		g.Pools = append(g.Pools, &genesis.Pool{TokenA: a, TokenB: b})
	}
	return g
}

// tokenAddress resolves a genesis token by symbol.
func (p *Plan) tokenAddress(symbol string) (codec.Address, error) {
	for _, t := range p.Tokens {
		if t.Symbol == symbol {
			return storage.TokenAddress([]byte(t.Name), []byte(t.Symbol), t.Decimals, nil), nil
		}
	}
	return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrUnknownToken, symbol)
}

func (p *Plan) poolAddress(pool string) (codec.Address, error) {
	a, b, err := splitPool(pool)
	if err != nil {
		return codec.EmptyAddress, err
	}
	tokenA, err := p.tokenAddress(a)
	if err != nil {
		return codec.EmptyAddress, err
	}
	tokenB, err := p.tokenAddress(b)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return storage.PoolAddress(tokenA, tokenB)
}
