// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xmidt-org/httppool-core/httppool"
	"github.com/xmidt-org/httppool-core/httppool/health"
	"github.com/xmidt-org/httppool-core/xmetrics"
	"github.com/xmidt-org/httppool-core/xviper"
	"github.com/xmidt-org/sallust"
)

type runOptions struct {
	configFile   string
	configName   string
	url          string
	method       string
	requests     int
	workers      int
	maxPerWorker int
	timeout      time.Duration
	keepAlive    time.Duration
	tracing      bool
	metricsAddr  string
}

func newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Submit a batch of requests through a Pool and report outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, cmd.Flags())
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "path to a YAML/JSON config file")
	cmd.Flags().StringVar(&opts.configName, "config-name", "httppoolctl", "base name of the config file to search for when --config is not set")
	cmd.Flags().StringVar(&opts.url, "url", "", "target URL every request is sent to")
	cmd.Flags().StringVar(&opts.method, "method", http.MethodGet, "HTTP method to use")
	cmd.Flags().IntVarP(&opts.requests, "requests", "n", 1, "number of requests to submit")
	cmd.Flags().IntVar(&opts.workers, "workers", httppool.DefaultWorkers, "number of pool workers")
	cmd.Flags().IntVar(&opts.maxPerWorker, "max-transactions-per-worker", httppool.DefaultMaxTransactionsPerWorker, "max in-flight transactions per worker")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", httppool.DefaultTransactionTimeout, "per-transaction timeout")
	cmd.Flags().DurationVar(&opts.keepAlive, "keepalive", httppool.DefaultKeepAliveTimeout, "idle connection timeout")
	cmd.Flags().BoolVar(&opts.tracing, "tracing", false, "instrument each worker's client with otelhttp")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address while running")

	cmd.MarkFlagRequired("url")

	return cmd
}

func runRun(opts runOptions, flags *pflag.FlagSet) error {
	logger := sallust.Default()

	v := xviper.New(
		xviper.ConfigName(opts.configName),
		xviper.ConfigPaths(".", "/etc/httppoolctl", "$HOME/.httppoolctl"),
	)

	if len(opts.configFile) > 0 {
		v.SetConfigFile(opts.configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !asConfigFileNotFound(err, &notFound) || len(opts.configFile) > 0 {
			return fmt.Errorf("loading config: %w", err)
		}

		logger.Debug("no config file found, using flags and defaults")
	}

	var config httppool.Config
	if err := v.Unmarshal(&config); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}

	applyFlagOverrides(&config, opts, flags)
	config.Logger = logger

	registry, err := xmetrics.NewRegistry(
		&xmetrics.Options{Namespace: "httppoolctl", Subsystem: "pool"},
		health.Module,
	)
	if err != nil {
		return fmt.Errorf("building metrics registry: %w", err)
	}

	config.Listeners = []httppool.Listener{health.Listener(registry)}

	if len(opts.metricsAddr) > 0 {
		go serveMetrics(opts.metricsAddr, registry, logger)
	}

	pool, err := httppool.New(config)
	if err != nil {
		return fmt.Errorf("starting pool: %w", err)
	}

	results := submit(pool, opts)
	pool.Shutdown()

	report(results)
	return nil
}

func applyFlagOverrides(config *httppool.Config, opts runOptions, flags *pflag.FlagSet) {
	if flags.Changed("workers") || config.Workers == 0 {
		config.Workers = opts.workers
	}

	if flags.Changed("max-transactions-per-worker") || config.MaxTransactionsPerWorker == 0 {
		config.MaxTransactionsPerWorker = opts.maxPerWorker
	}

	if flags.Changed("timeout") || config.TransactionTimeout == 0 {
		config.TransactionTimeout = opts.timeout
	}

	if flags.Changed("keepalive") || config.KeepAliveTimeout == 0 {
		config.KeepAliveTimeout = opts.keepAlive
	}

	if flags.Changed("tracing") {
		config.Tracing = opts.tracing
	}

	if len(config.Name) == 0 {
		config.Name = "httppoolctl"
	}
}

func asConfigFileNotFound(err error, target *viper.ConfigFileNotFoundError) bool {
	notFound, ok := err.(viper.ConfigFileNotFoundError)
	if ok {
		*target = notFound
	}

	return ok
}

type outcome struct {
	status   int
	err      error
	kind     httppool.ResultKind
	duration time.Duration
}

func submit(pool *httppool.Pool, opts runOptions) []outcome {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make([]outcome, 0, opts.requests)
	)

	record := func(o outcome) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, o)
	}

	for i := 0; i < opts.requests; i++ {
		request, err := http.NewRequest(opts.method, opts.url, nil)
		if err != nil {
			record(outcome{err: err})
			continue
		}

		wg.Add(1)
		deliverable := httppool.DeliverableFunc(func(result httppool.DeliveryResult) {
			defer wg.Done()

			o := outcome{kind: result.Kind, err: result.Err, duration: result.Duration}
			if result.Response != nil {
				o.status = result.Response.StatusCode
				result.Response.Body.Close()
			}

			record(o)
		})

		if err := pool.Request(httppool.NewTransaction(deliverable, request)); err != nil {
			wg.Done()
			record(outcome{err: err})
		}
	}

	wg.Wait()
	return results
}

func report(results []outcome) {
	var succeeded, failed int

	for _, o := range results {
		if o.err == nil && o.kind == httppool.KindResponse && o.status < 400 {
			succeeded++
		} else {
			failed++
		}

		fmt.Printf("status=%d kind=%s err=%v duration=%s\n", o.status, o.kind, o.err, o.duration)
	}

	fmt.Printf("\n%d succeeded, %d failed, %d total\n", succeeded, failed, len(results))
}

func serveMetrics(addr string, registry xmetrics.Registry, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	logger.Info("serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", zap.Error(err))
	}
}
