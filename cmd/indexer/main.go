package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/heavycoinlabs/heavyindex-backend/internal/chain"
	"github.com/heavycoinlabs/heavyindex-backend/internal/fetch"
	"github.com/heavycoinlabs/heavyindex-backend/internal/index"
	"github.com/heavycoinlabs/heavyindex-backend/internal/metrics"
	"github.com/heavycoinlabs/heavyindex-backend/internal/node"
)

type config struct {
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"HEAVYINDEX_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	Network       string        `long:"network" env:"HEAVYINDEX_NETWORK" description:"network name (mainnet or testnet)" required:"true"`
	RPCURL        string        `long:"rpc-url" env:"HEAVYINDEX_RPC_URL" description:"node RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser       string        `long:"rpc-user" env:"HEAVYINDEX_RPC_USER" description:"node RPC username"`
	RPCPassword   string        `long:"rpc-password" env:"HEAVYINDEX_RPC_PASSWORD" description:"node RPC password"`
	RPCRateLimit  int           `long:"rpc-rate-limit" env:"HEAVYINDEX_RPC_RATE_LIMIT" description:"max RPC round trips per second" default:"10"`
	FetchSource   string        `long:"fetch-source" env:"HEAVYINDEX_FETCH_SOURCE" description:"block source (bitcoind or blkfiles)" default:"bitcoind"`
	BlocksDir     string        `long:"blocks-dir" env:"HEAVYINDEX_BLOCKS_DIR" description:"node block-store directory, required for blkfiles source"`
	PollInterval  time.Duration `long:"poll-interval" env:"HEAVYINDEX_POLL_INTERVAL" description:"delay between tip polls" default:"10s"`
	MetricsAddr   string        `long:"metrics-addr" env:"HEAVYINDEX_METRICS_ADDR" description:"address for metrics server" default:":2112"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if cfg.ClickhouseDSN == "" {
		logger.Fatal("ClickHouse DSN is required")
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("indexer failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	params, err := chain.ParamsForNetwork(cfg.Network)
	if err != nil {
		return err
	}
	source, err := fetch.ParseSource(cfg.FetchSource)
	if err != nil {
		return err
	}
	if source == fetch.FromBlockFiles && cfg.BlocksDir == "" {
		return errors.New("blocks-dir is required for the blkfiles source")
	}

	repo, err := index.NewClickhouseRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository(params.Name))
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	rpcClient, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init node rpc client: %w", err)
	}
	defer func() {
		rpcClient.Shutdown()
		rpcClient.WaitForShutdown()
	}()

	nodeClient := node.New(rpcClient, params, cfg.BlocksDir, cfg.RPCRateLimit, metrics.NewNodeRPC(params.Name), logger)
	sink := index.NewSink(repo, params.Name, logger)
	ingester := index.NewIngester(
		nodeClient,
		repo,
		sink,
		source,
		params.Name,
		cfg.PollInterval,
		metrics.NewIngester(params.Name, source.String()),
		logger,
	)
	return ingester.Run(ctx)
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	cfg := &rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}

	return rpcclient.New(cfg, nil)
}
