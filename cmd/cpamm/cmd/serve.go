// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/cpamm/api/jsonrpc"
	"github.com/ava-labs/cpamm/api/ws"
	"github.com/ava-labs/cpamm/vm"
)

const metricsEndpoint = "/ext/metrics"

func newServeCmd(o *rootOptions) *cobra.Command {
	var genesisFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a node serving the JSON-RPC and event APIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.serve(cmd.Context(), genesisFile)
		},
	}
	cmd.Flags().StringVar(&genesisFile, "genesis", "", "path to the JSON genesis applied on first boot (overrides the config)")
	return cmd
}

func (o *rootOptions) serve(ctx context.Context, genesisFile string) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	if len(genesisFile) == 0 {
		genesisFile = cfg.GetGenesisFile()
	}
	var genesisBytes []byte
	if len(genesisFile) > 0 {
		genesisBytes, err = os.ReadFile(genesisFile)
		if err != nil {
			return err
		}
	}

	logFactory := newLogFactory(loggingConfig(cfg))
	defer logFactory.Close()
	log, err := logFactory.Make("node")
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return err
	}

	events := ws.NewWebSocketServer(log, cfg.GetWSWriteTimeout(), cfg.GetWSBacklog())
	v, err := vm.New(ctx, cfg, genesisBytes,
		vm.WithLogger(log),
		vm.WithRegisterer(prometheus.WrapRegistererWithPrefix(cfg.GetMetricsNamespace()+"_", registry)),
		vm.WithEventSubscriptions(events),
	)
	if err != nil {
		return err
	}
	rpcHandler, err := jsonrpc.NewJSONRPCHandler(log, v)
	if err != nil {
		return err
	}
	wsHandler := events.Handler()

	router := mux.NewRouter()
	router.Handle(rpcHandler.Path, rpcHandler.Handler)
	router.Handle(wsHandler.Path, wsHandler.Handler)
	router.Handle(metricsEndpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              cfg.GetHTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: cfg.GetReadHeaderTimeout(),
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("serving",
			zap.String("address", cfg.GetHTTPAddress()),
			zap.Strings("endpoints", []string{rpcHandler.Path, wsHandler.Path, metricsEndpoint}),
		)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()

		errs := wrappers.Errs{}
		errs.Add(
			server.Shutdown(shutdownCtx),
			v.Shutdown(shutdownCtx),
		)
		return errs.Err
	})
	return g.Wait()
}
