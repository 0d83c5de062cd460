// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/utils"
	"github.com/ava-labs/cpamm/vm"
)

type Response struct {
	// The index of the step that generated this response.
	ID          int      `json:"id"`
	Description string   `json:"description,omitempty"`
	Outputs     []uint64 `json:"outputs,omitempty"`
	Reserves    []uint64 `json:"reserves,omitempty"`
	// The error message if available.
	Error string `json:"error,omitempty"`
}

func (r *Response) Print() {
	b, err := json.Marshal(r)
	if err != nil {
		utils.Outf("{{red}}failed to marshal response:{{/}} %v\n", err)
		return
	}
	if len(r.Error) > 0 {
		utils.Outf("{{yellow}}step %d{{/}} %s\n", r.ID, b)
		return
	}
	utils.Outf("{{green}}step %d{{/}} %s\n", r.ID, b)
}

func newSimulateCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate [path]",
		Short: "Run a simulation plan against an in-memory node",
		Long:  "Run a YAML simulation plan against an in-memory node. Pass - to read the plan from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planBytes, err := readPlan(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			plan, err := unmarshalPlan(planBytes)
			if err != nil {
				return err
			}
			return o.simulate(cmd.Context(), plan)
		},
	}
}

func readPlan(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func (o *rootOptions) simulate(ctx context.Context, plan *Plan) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	logFactory := newLogFactory(loggingConfig(cfg))
	defer logFactory.Close()
	log, err := logFactory.Make("simulator")
	if err != nil {
		return err
	}
	genesisBytes, err := json.Marshal(plan.Genesis())
	if err != nil {
		return err
	}
	v, err := vm.New(ctx, cfg, genesisBytes,
		vm.WithLogger(log),
		vm.WithDatabase(state.NewDatabase(memdb.New())),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := v.Shutdown(ctx); err != nil {
			log.Warn("failed to shutdown simulator", zap.Error(err))
		}
	}()

	utils.Outf("{{cyan}}running plan{{/}} %s\n", plan.Name)
	responses, err := runPlan(ctx, plan, v)
	for _, r := range responses {
		r.Print()
	}
	return err
}

// runPlan executes every step of [plan] and stops at the first unmet
// requirement. Steps without requirements may fail.
func runPlan(ctx context.Context, plan *Plan, v *vm.VM) ([]*Response, error) {
	responses := make([]*Response, 0, len(plan.Steps))
	for i, step := range plan.Steps {
		r := &Response{ID: i, Description: step.Description}
		outputs, err := executeStep(ctx, plan, v, step)
		r.Outputs = outputs
		if err != nil {
			r.Error = err.Error()
		}
		if len(step.Pool) > 0 {
			addr, perr := plan.poolAddress(step.Pool)
			if perr != nil {
				return responses, perr
			}
			info, perr := v.Pool(ctx, addr)
			if perr == nil {
				r.Reserves = []uint64{info.ReserveA, info.ReserveB}
			}
		}
		responses = append(responses, r)
		if step.Require == nil {
			continue
		}
		if err := checkRequire(step.Require, r, err); err != nil {
			return responses, fmt.Errorf("%w: step %d: %w", ErrRequirementFailed, i, err)
		}
	}
	return responses, nil
}

func checkRequire(req *Require, r *Response, err error) error {
	switch {
	case len(req.Error) == 0 && err != nil:
		return fmt.Errorf("unexpected error %q", r.Error)
	case len(req.Error) > 0 && err == nil:
		return fmt.Errorf("expected error %q", req.Error)
	case len(req.Error) > 0 && !strings.Contains(r.Error, req.Error):
		return fmt.Errorf("expected error %q, got %q", req.Error, r.Error)
	}
	if req.Outputs != nil && !slices.Equal(req.Outputs, r.Outputs) {
		return fmt.Errorf("expected outputs %v, got %v", req.Outputs, r.Outputs)
	}
	if req.Reserves != nil && !slices.Equal(req.Reserves, r.Reserves) {
		return fmt.Errorf("expected reserves %v, got %v", req.Reserves, r.Reserves)
	}
	return nil
}

func executeStep(ctx context.Context, plan *Plan, v *vm.VM, step Step) ([]uint64, error) {
	caller := AccountAddress(step.Caller)
	var poolAddr codec.Address
	if len(step.Pool) > 0 {
		var err error
		poolAddr, err = plan.poolAddress(step.Pool)
		if err != nil {
			return nil, err
		}
	}

	switch step.Operation {
	case SwapOperation:
		tokenIn, err := plan.tokenAddress(step.Token)
		if err != nil {
			return nil, err
		}
		a, b, _ := splitPool(step.Pool)
		outSymbol := a
		if step.Token == a {
			outSymbol = b
		}
		tokenOut, err := plan.tokenAddress(outSymbol)
		if err != nil {
			return nil, err
		}
		out, err := v.Swap(ctx, poolAddr, caller, tokenIn, tokenOut, step.Amounts[0])
		if err != nil {
			return nil, err
		}
		return []uint64{out}, nil
	case AddLiquidityOperation:
		amountA, amountB, liquidity, err := v.AddLiquidity(ctx, poolAddr, caller, step.Amounts[0], step.Amounts[1])
		if err != nil {
			return nil, err
		}
		return []uint64{amountA, amountB, liquidity}, nil
	case RemoveLiquidityOperation:
		amountA, amountB, err := v.RemoveLiquidity(ctx, poolAddr, caller, step.Amounts[0])
		if err != nil {
			return nil, err
		}
		return []uint64{amountA, amountB}, nil
	case TransferOperation:
		token, err := plan.tokenAddress(step.Token)
		if err != nil {
			return nil, err
		}
		return nil, v.Transfer(ctx, token, caller, AccountAddress(step.To), step.Amounts[0])
	case ApproveOperation:
		token, err := plan.tokenAddress(step.Token)
		if err != nil {
			return nil, err
		}
		spender := poolAddr
		if len(step.To) > 0 {
			spender = AccountAddress(step.To)
		}
		return nil, v.Approve(ctx, token, caller, spender, step.Amounts[0])
	default:
		return nil, fmt.Errorf("%w: unknown operation %q", ErrInvalidStep, step.Operation)
	}
}
