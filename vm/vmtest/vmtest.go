// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vmtest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cpamm/config"
	"github.com/ava-labs/cpamm/genesis"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/vm"
)

// NewTestVM returns an in-memory VM initialized with [g]. The VM is shut
// down when the test completes.
func NewTestVM(ctx context.Context, t testing.TB, g *genesis.Genesis, opts ...vm.Option) *vm.VM {
	r := require.New(t)

	cfg, err := config.New(nil)
	r.NoError(err)
	genesisBytes, err := json.Marshal(g)
	r.NoError(err)

	opts = append([]vm.Option{vm.WithDatabase(state.NewDatabase(memdb.New()))}, opts...)
	v, err := vm.New(ctx, cfg, genesisBytes, opts...)
	r.NoError(err)
	t.Cleanup(func() {
		r.NoError(v.Shutdown(context.Background()))
	})
	return v
}

// OperationTest is a single parameterized test. It runs Operation against
// the VM and checks that all assertions pass.
type OperationTest struct {
	Name string

	Operation func(context.Context, *vm.VM) ([]uint64, error)

	ExpectedOutputs []uint64
	ExpectedErr     error

	Assertion func(context.Context, *testing.T, *vm.VM)
}

// Run executes the [OperationTest] and make sure all assertions pass.
func (test *OperationTest) Run(ctx context.Context, t *testing.T, v *vm.VM) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		outputs, err := test.Operation(ctx, v)

		require.ErrorIs(err, test.ExpectedErr)
		require.Equal(test.ExpectedOutputs, outputs)

		if test.Assertion != nil {
			test.Assertion(ctx, t, v)
		}
	})
}
