// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/config"
	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/event"
	"github.com/ava-labs/cpamm/genesis"
	"github.com/ava-labs/cpamm/pool"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/storage"
	"github.com/ava-labs/cpamm/tstate"
)

const changedKeysEstimate = 64

type poolEntry struct {
	pool   *pool.Pool
	ledger *storage.Ledger
}

// PoolInfo is a snapshot of a pool.
type PoolInfo struct {
	Address     codec.Address `json:"address"`
	TokenA      codec.Address `json:"tokenA"`
	TokenB      codec.Address `json:"tokenB"`
	ClaimToken  codec.Address `json:"claimToken"`
	ReserveA    uint64        `json:"reserveA"`
	ReserveB    uint64        `json:"reserveB"`
	TotalClaims uint64        `json:"totalClaims"`
}

// VM hosts a registry of tokens and the pools that trade them. All pools
// share one state overlay, so every state-changing call is serialized by
// the VM lock and committed to the database before it returns.
type VM struct {
	config        *config.Config
	log           logging.Logger
	registerer    prometheus.Registerer
	metrics       *Metrics
	poolMetrics   *pool.Metrics
	subscriptions []event.Subscription[*PoolEvent]

	db state.Database

	l       sync.RWMutex
	ts      *tstate.TState
	pools   map[codec.Address]*poolEntry
	order   []codec.Address
	pending []*PoolEvent
	closed  bool
}

// New opens the database described by [cfg]. On first boot [genesisBytes]
// is applied, afterwards the pools recorded in the database are restored.
func New(ctx context.Context, cfg *config.Config, genesisBytes []byte, opts ...Option) (*VM, error) {
	vm := &VM{
		config: cfg,
		log:    logging.NoLog{},
		pools:  make(map[codec.Address]*poolEntry),
	}
	for _, o := range opts {
		o(vm)
	}
	if vm.registerer == nil {
		vm.registerer = prometheus.NewRegistry()
	}

	var err error
	vm.metrics, err = newMetrics(vm.registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register vm metrics: %w", err)
	}
	vm.poolMetrics, err = pool.NewMetrics(vm.registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register pool metrics: %w", err)
	}
	if vm.db == nil {
		vm.db, err = storage.New(cfg.GetPebbleConfig(), cfg.GetDBDir(), vm.registerer)
		if err != nil {
			return nil, fmt.Errorf("failed to open state database: %w", err)
		}
	}
	vm.ts = tstate.New(vm.db, changedKeysEstimate)

	if err := vm.initialize(ctx, genesisBytes); err != nil {
		if cerr := vm.db.Close(); cerr != nil {
			vm.log.Error("failed to close state database", zap.Error(cerr))
		}
		return nil, err
	}
	vm.metrics.pools.Set(float64(len(vm.order)))
	vm.log.Info("initialized vm",
		zap.String("dbDir", cfg.GetDBDir()),
		zap.Int("pools", len(vm.order)),
	)
	return vm, nil
}

func (vm *VM) initialize(ctx context.Context, genesisBytes []byte) error {
	initialized, err := storage.HasGenesis(ctx, vm.ts)
	if err != nil {
		return err
	}
	if initialized {
		return vm.loadPools(ctx)
	}

	g, err := genesis.Load(genesisBytes)
	if err != nil {
		return err
	}
	if err := g.InitializeState(ctx, vm.ts); err != nil {
		return fmt.Errorf("failed to initialize genesis state: %w", err)
	}
	pairs, err := g.PoolPairs()
	if err != nil {
		return err
	}
	for _, pair := range pairs {
		addr, e, err := vm.createPool(ctx, pair.TokenA, pair.TokenB)
		if err != nil {
			return fmt.Errorf("failed to create genesis pool: %w", err)
		}
		vm.register(addr, e)
	}
	if err := storage.SetGenesis(ctx, vm.ts); err != nil {
		return err
	}
	if err := vm.commit(ctx); err != nil {
		return err
	}
	vm.log.Info("applied genesis",
		zap.Int("tokens", len(g.Tokens)),
		zap.Int("pools", len(pairs)),
	)
	return nil
}

func (vm *VM) loadPools(ctx context.Context) error {
	addrs, err := storage.GetPools(ctx, vm.ts)
	if err != nil {
		return err
	}
	for _, addr := range addrs {
		record, err := storage.GetPool(ctx, vm.ts, addr)
		if err != nil {
			return fmt.Errorf("%w: pool=%s", err, addr)
		}
		ledger := storage.NewLedger(vm.ts, addr, record.ClaimToken)
		p, err := pool.New(ctx, record.TokenA, record.TokenB, ledger,
			append(vm.poolOptions(addr), pool.WithReserves(record.ReserveA, record.ReserveB))...,
		)
		if err != nil {
			return fmt.Errorf("%w: pool=%s", err, addr)
		}
		vm.register(addr, &poolEntry{pool: p, ledger: ledger})
	}
	return nil
}

func (vm *VM) register(addr codec.Address, e *poolEntry) {
	vm.pools[addr] = e
	vm.order = append(vm.order, addr)
}

// poolOptions queues pool events until the operation that emitted them is
// committed. Pools only run under the VM lock.
func (vm *VM) poolOptions(addr codec.Address) []pool.Option {
	var queue event.Subscription[*PoolEvent] = event.SubscriptionFunc[*PoolEvent]{
		AcceptF: func(_ context.Context, e *PoolEvent) error {
			vm.pending = append(vm.pending, e)
			return nil
		},
	}
	return []pool.Option{
		pool.WithName(codec.MustAddressBech32(consts.HRP, addr)),
		pool.WithLogger(vm.log),
		pool.WithMetrics(vm.poolMetrics),
		pool.WithSubscriptions(event.Map(newPoolEvent(addr), queue)),
	}
}

// createPool records a pool and its claim token in the overlay. The caller
// commits and then registers the returned entry.
func (vm *VM) createPool(ctx context.Context, tokenA codec.Address, tokenB codec.Address) (codec.Address, *poolEntry, error) {
	// Identical tokens are rejected by [pool.New].
	addr, _ := storage.PoolAddress(tokenA, tokenB)
	if _, ok := vm.pools[addr]; ok {
		return codec.EmptyAddress, nil, ErrPoolExists
	}
	claimToken := storage.ClaimTokenAddress(addr)
	ledger := storage.NewLedger(vm.ts, addr, claimToken)
	p, err := pool.New(ctx, tokenA, tokenB, ledger, vm.poolOptions(addr)...)
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	if err := storage.CreateToken(ctx, vm.ts, claimToken, storage.ClaimTokenInfo(addr)); err != nil {
		return codec.EmptyAddress, nil, err
	}
	if err := storage.AddPool(ctx, vm.ts, addr); err != nil {
		return codec.EmptyAddress, nil, err
	}
	e := &poolEntry{pool: p, ledger: ledger}
	if err := vm.storeReserves(ctx, addr, e); err != nil {
		return codec.EmptyAddress, nil, err
	}
	return addr, e, nil
}

func (vm *VM) storeReserves(ctx context.Context, addr codec.Address, e *poolEntry) error {
	reserveA, reserveB := e.pool.GetReserves()
	return storage.SetPool(ctx, vm.ts, addr, &storage.Pool{
		TokenA:     e.pool.TokenA(),
		TokenB:     e.pool.TokenB(),
		ClaimToken: e.ledger.ClaimToken(),
		ReserveA:   reserveA,
		ReserveB:   reserveB,
	})
}

// execute runs [f] against the overlay and commits its changes. If [f] or
// the commit fails, the overlay is rolled back, [undo] (if any) reverts
// in-memory state and the queued events are dropped. Events are only
// delivered once the commit succeeded.
func (vm *VM) execute(ctx context.Context, f func() error, undo func()) error {
	if vm.closed {
		return ErrClosed
	}
	restorePoint := vm.ts.OpIndex()
	err := f()
	if err == nil {
		err = vm.commit(ctx)
	}
	if err != nil {
		vm.ts.Rollback(ctx, restorePoint)
		if undo != nil {
			undo()
		}
		vm.pending = nil
		vm.metrics.discards.Inc()
		return err
	}
	vm.publish(ctx)
	return nil
}

// executePool runs a pool operation [f] and stores the new reserves. The
// reserves are restored if the operation cannot be committed.
func (vm *VM) executePool(ctx context.Context, addr codec.Address, e *poolEntry, f func() error) error {
	reserveA, reserveB := e.pool.GetReserves()
	return vm.execute(ctx, func() error {
		if err := f(); err != nil {
			return err
		}
		return vm.storeReserves(ctx, addr, e)
	}, func() {
		e.pool.RestoreReserves(reserveA, reserveB)
	})
}

// publish delivers the queued events. Subscribers cannot undo a committed
// operation, so their errors are only logged.
func (vm *VM) publish(ctx context.Context) {
	events := vm.pending
	vm.pending = nil
	for _, e := range events {
		if err := event.NotifyAll(ctx, e, vm.subscriptions...); err != nil {
			vm.log.Warn("failed to notify subscribers",
				zap.Stringer("pool", e.Pool),
				zap.String("event", e.Type),
				zap.Error(err),
			)
		}
	}
}

// commit leaves the pending changes in the overlay on failure, so that
// the caller can roll them back.
func (vm *VM) commit(ctx context.Context) error {
	changes := vm.ts.PendingChanges()
	start := time.Now()
	if err := vm.ts.Commit(ctx, vm.db); err != nil {
		vm.log.Error("failed to commit state",
			zap.Int("changes", changes),
			zap.Error(err),
		)
		return fmt.Errorf("failed to commit state: %w", err)
	}
	vm.metrics.commitTime.Observe(time.Since(start).Seconds())
	vm.metrics.stateChanges.Add(float64(changes))
	vm.metrics.commits.Inc()
	return nil
}

func (vm *VM) getPool(addr codec.Address) (*poolEntry, error) {
	if vm.closed {
		return nil, ErrClosed
	}
	e, ok := vm.pools[addr]
	if !ok {
		return nil, ErrPoolNotFound
	}
	return e, nil
}

// CreateToken registers a token owned by [owner] with zero supply.
func (vm *VM) CreateToken(
	ctx context.Context,
	owner codec.Address,
	name string,
	symbol string,
	decimals uint8,
	metadata string,
) (codec.Address, error) {
	vm.l.Lock()
	defer vm.l.Unlock()

	token := storage.TokenAddress([]byte(name), []byte(symbol), decimals, []byte(metadata))
	if err := vm.execute(ctx, func() error {
		return storage.CreateToken(ctx, vm.ts, token, &storage.TokenInfo{
			Name:     []byte(name),
			Symbol:   []byte(symbol),
			Decimals: decimals,
			Metadata: []byte(metadata),
			Owner:    owner,
		})
	}, nil); err != nil {
		return codec.EmptyAddress, err
	}
	vm.log.Info("created token",
		zap.Stringer("token", token),
		zap.String("symbol", symbol),
		zap.Stringer("owner", owner),
	)
	return token, nil
}

// Mint issues [amount] of [token] to [to]. Only the token owner may mint.
func (vm *VM) Mint(
	ctx context.Context,
	actor codec.Address,
	token codec.Address,
	to codec.Address,
	amount uint64,
) error {
	vm.l.Lock()
	defer vm.l.Unlock()

	return vm.execute(ctx, func() error {
		info, err := storage.GetTokenInfo(ctx, vm.ts, token)
		if err != nil {
			return err
		}
		if info.Owner != actor {
			return fmt.Errorf("%w: %s is not the owner of %s", ErrUnauthorized, actor, token)
		}
		return storage.MintToken(ctx, vm.ts, token, to, amount)
	}, nil)
}

func (vm *VM) Transfer(
	ctx context.Context,
	token codec.Address,
	from codec.Address,
	to codec.Address,
	amount uint64,
) error {
	vm.l.Lock()
	defer vm.l.Unlock()

	return vm.execute(ctx, func() error {
		return storage.TransferToken(ctx, vm.ts, token, from, to, amount)
	}, nil)
}

// Approve lets [spender] move up to [amount] of the [token] balance of
// [owner]. Pools pull deposits through this allowance.
func (vm *VM) Approve(
	ctx context.Context,
	token codec.Address,
	owner codec.Address,
	spender codec.Address,
	amount uint64,
) error {
	vm.l.Lock()
	defer vm.l.Unlock()

	return vm.execute(ctx, func() error {
		return storage.Approve(ctx, vm.ts, token, owner, spender, amount)
	}, nil)
}

// CreatePool creates an empty pool trading [tokenA] against [tokenB].
func (vm *VM) CreatePool(ctx context.Context, tokenA codec.Address, tokenB codec.Address) (codec.Address, error) {
	vm.l.Lock()
	defer vm.l.Unlock()

	var (
		addr codec.Address
		e    *poolEntry
	)
	if err := vm.execute(ctx, func() error {
		var err error
		addr, e, err = vm.createPool(ctx, tokenA, tokenB)
		return err
	}, nil); err != nil {
		return codec.EmptyAddress, err
	}
	vm.register(addr, e)
	vm.metrics.pools.Set(float64(len(vm.order)))
	vm.log.Info("created pool",
		zap.Stringer("pool", addr),
		zap.Stringer("tokenA", tokenA),
		zap.Stringer("tokenB", tokenB),
	)
	return addr, nil
}

func (vm *VM) Swap(
	ctx context.Context,
	poolAddr codec.Address,
	caller codec.Address,
	tokenIn codec.Address,
	tokenOut codec.Address,
	amountIn uint64,
) (uint64, error) {
	vm.l.Lock()
	defer vm.l.Unlock()

	e, err := vm.getPool(poolAddr)
	if err != nil {
		return 0, err
	}
	var amountOut uint64
	if err := vm.executePool(ctx, poolAddr, e, func() error {
		var err error
		amountOut, err = e.pool.Swap(ctx, caller, tokenIn, tokenOut, amountIn)
		return err
	}); err != nil {
		return 0, err
	}
	return amountOut, nil
}

func (vm *VM) AddLiquidity(
	ctx context.Context,
	poolAddr codec.Address,
	caller codec.Address,
	amountAIn uint64,
	amountBIn uint64,
) (uint64, uint64, uint64, error) {
	vm.l.Lock()
	defer vm.l.Unlock()

	e, err := vm.getPool(poolAddr)
	if err != nil {
		return 0, 0, 0, err
	}
	var amountA, amountB, liquidity uint64
	if err := vm.executePool(ctx, poolAddr, e, func() error {
		var err error
		amountA, amountB, liquidity, err = e.pool.AddLiquidity(ctx, caller, amountAIn, amountBIn)
		return err
	}); err != nil {
		return 0, 0, 0, err
	}
	return amountA, amountB, liquidity, nil
}

func (vm *VM) RemoveLiquidity(
	ctx context.Context,
	poolAddr codec.Address,
	caller codec.Address,
	liquidity uint64,
) (uint64, uint64, error) {
	vm.l.Lock()
	defer vm.l.Unlock()

	e, err := vm.getPool(poolAddr)
	if err != nil {
		return 0, 0, err
	}
	var amountA, amountB uint64
	if err := vm.executePool(ctx, poolAddr, e, func() error {
		var err error
		amountA, amountB, err = e.pool.RemoveLiquidity(ctx, caller, liquidity)
		return err
	}); err != nil {
		return 0, 0, err
	}
	return amountA, amountB, nil
}

func (vm *VM) Pool(ctx context.Context, addr codec.Address) (*PoolInfo, error) {
	vm.l.RLock()
	defer vm.l.RUnlock()

	e, err := vm.getPool(addr)
	if err != nil {
		return nil, err
	}
	return vm.poolInfo(ctx, addr, e)
}

// Pools returns every pool in creation order.
func (vm *VM) Pools(ctx context.Context) ([]*PoolInfo, error) {
	vm.l.RLock()
	defer vm.l.RUnlock()

	if vm.closed {
		return nil, ErrClosed
	}
	infos := make([]*PoolInfo, 0, len(vm.order))
	for _, addr := range vm.order {
		info, err := vm.poolInfo(ctx, addr, vm.pools[addr])
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (*VM) poolInfo(ctx context.Context, addr codec.Address, e *poolEntry) (*PoolInfo, error) {
	totalClaims, err := e.pool.TotalClaims(ctx)
	if err != nil {
		return nil, err
	}
	reserveA, reserveB := e.pool.GetReserves()
	return &PoolInfo{
		Address:     addr,
		TokenA:      e.pool.TokenA(),
		TokenB:      e.pool.TokenB(),
		ClaimToken:  e.ledger.ClaimToken(),
		ReserveA:    reserveA,
		ReserveB:    reserveB,
		TotalClaims: totalClaims,
	}, nil
}

func (vm *VM) Token(ctx context.Context, token codec.Address) (*storage.TokenInfo, error) {
	vm.l.RLock()
	defer vm.l.RUnlock()

	if vm.closed {
		return nil, ErrClosed
	}
	return storage.GetTokenInfo(ctx, vm.ts, token)
}

func (vm *VM) Balance(ctx context.Context, token codec.Address, account codec.Address) (uint64, error) {
	vm.l.RLock()
	defer vm.l.RUnlock()

	if vm.closed {
		return 0, ErrClosed
	}
	return storage.GetBalance(ctx, vm.ts, token, account)
}

func (vm *VM) Allowance(
	ctx context.Context,
	token codec.Address,
	owner codec.Address,
	spender codec.Address,
) (uint64, error) {
	vm.l.RLock()
	defer vm.l.RUnlock()

	if vm.closed {
		return 0, ErrClosed
	}
	return storage.GetAllowance(ctx, vm.ts, token, owner, spender)
}

// Shutdown flushes any uncommitted changes, closes all event subscriptions
// and the database.
func (vm *VM) Shutdown(ctx context.Context) error {
	vm.l.Lock()
	defer vm.l.Unlock()

	if vm.closed {
		return nil
	}
	vm.closed = true

	errs := wrappers.Errs{}
	if vm.ts.PendingChanges() > 0 {
		if err := vm.commit(ctx); err != nil {
			vm.log.Warn("dropping uncommitted state", zap.Int("changes", vm.ts.PendingChanges()))
			vm.ts.Discard()
			errs.Add(err)
		}
	}
	errs.Add(
		event.CloseAll(vm.subscriptions...),
		vm.db.Close(),
	)
	vm.log.Info("vm shutdown", zap.Error(errs.Err))
	return errs.Err
}
