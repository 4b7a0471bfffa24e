package main

import (
	"context"
	"errors"
	"flag"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"stakemint/config"
	"stakemint/events"
	"stakemint/native/staking"
	"stakemint/observability/logging"
	"stakemint/observability/metrics"
	"stakemint/oracle"
	"stakemint/rpc"
	"stakemint/storage"
	"stakemint/token"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./stakemint.toml", "path to configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("STAKEMINT_ENV"))
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logging.Setup("stakemintd", env).Error("failed to load configuration", "path", cfgPath, "err", err)
		os.Exit(1)
	}
	if env == "" {
		env = cfg.Environment
	}
	logger := logging.Setup("stakemintd", env)

	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "stakemint"))
	if err != nil {
		logger.Error("failed to open database", "dir", cfg.DataDir, "err", err)
		os.Exit(1)
	}
	defer db.Close()

	var feed staking.PriceFeed
	switch cfg.OracleMode {
	case config.OracleModeHTTP:
		feed = oracle.NewHTTPSource(cfg.OracleURL)
	default:
		price, _ := new(big.Int).SetString(strings.TrimSpace(cfg.OraclePrice), 10)
		feed = oracle.NewManualSource(price)
	}

	tokens := token.NewKVLedger(db, cfg.TokenDecimals)
	custody := common.HexToAddress(cfg.CustodyAddress)

	engine, err := staking.NewEngine(tokens, feed, custody)
	if err != nil {
		logger.Error("failed to construct staking engine", "err", err)
		os.Exit(1)
	}
	engine.SetLedger(staking.NewAccountLedger(db))
	recorder := events.NewRecorder()
	engine.SetEmitter(events.Tee{recorder, metrics.NewStakingEmitter()})

	server := rpc.NewServer(engine, recorder, logger)
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("staking RPC listening", "addr", cfg.ListenAddress)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		logger.Error("http server failed", "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
