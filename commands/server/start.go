package server

import (
	"flag"
	"net/http"

	"github.com/iov-one/pairswap/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind     = "bind"
	flagMetrics  = "metrics"
	flagLogLevel = "log_level"
	flagDebug    = "debug"
)

// parseFlags applies the start flags on top of given configuration.
func parseFlags(conf Config, args []string) (Config, error) {
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&conf.ABCIAddr, flagBind, conf.ABCIAddr, "address server listens on")
	startFlags.StringVar(&conf.MetricsAddr, flagMetrics, conf.MetricsAddr, "prometheus endpoint address, empty to disable")
	startFlags.StringVar(&conf.LogLevel, flagLogLevel, conf.LogLevel, "log level filter")
	startFlags.BoolVar(&conf.Debug, flagDebug, conf.Debug, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return conf, errors.Wrap(errors.ErrInput, err.Error())
	}
	return conf, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(string, log.Logger, bool) (abci.Application, error)

// StartCmd initializes the application and serves it until the process
// receives a termination signal.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	conf, err := LoadConfig(home)
	if err != nil {
		return err
	}
	conf, err = parseFlags(conf, args)
	if err != nil {
		return err
	}

	stop, err := Serve(gen, logger, conf)
	if err != nil {
		return err
	}

	// Wait forever
	cmn.TrapSignal(logger, stop)
	select {}
}

// Serve starts the ABCI server and, if configured, the metrics endpoint. The
// returned function stops both.
func Serve(gen AppGenerator, logger log.Logger, conf Config) (func(), error) {
	logger, err := filterLogger(logger, conf.LogLevel)
	if err != nil {
		return nil, err
	}

	// Generate the app in the proper dir
	app, err := gen(conf.Home, logger, conf.Debug)
	if err != nil {
		return nil, err
	}

	logger.Info("Starting ABCI app", "bind", conf.ABCIAddr)
	svr, err := server.NewServer(conf.ABCIAddr, "socket", app)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "creating listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "starting server: %s", err)
	}

	var metrics *http.Server
	if conf.MetricsAddr != "" {
		metrics = serveMetrics(logger.With("module", "metrics"), conf.MetricsAddr)
	}

	stop := func() {
		if err := svr.Stop(); err != nil {
			logger.Error("Stopping ABCI server", "err", err)
		}
		if metrics != nil {
			if err := metrics.Close(); err != nil {
				logger.Error("Stopping metrics endpoint", "err", err)
			}
		}
	}
	return stop, nil
}

func serveMetrics(logger log.Logger, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics endpoint failed", "err", err)
		}
	}()
	return srv
}

// filterLogger limits the logger to the configured level.
func filterLogger(logger log.Logger, level string) (log.Logger, error) {
	if level == "" {
		return logger, nil
	}
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}
