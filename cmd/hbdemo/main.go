package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/challenai/hbdemo"
	"github.com/challenai/hbdemo/config"
	"github.com/challenai/hbdemo/internal/memhbase"
	"github.com/challenai/hbdemo/internal/scenario"
	"github.com/challenai/hbdemo/logger"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const (
	exitOK           = 0
	exitFailure      = 1
	exitUsage        = 2
	exitConnectivity = 3
	exitSchema       = 4
	exitData         = 5

	backendThrift = "thrift"
	backendMemory = "memory"
)

type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type flags struct {
	configPath  string
	endpoints   []string
	transport   string
	protocol    string
	timeout     time.Duration
	backend     string
	recreate    bool
	deleteRow   bool
	metricsFile string
	logLevel    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, out io.Writer) int {
	cmd := newRootCmd(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return exitCode(err)
}

func newRootCmd(out io.Writer) *cobra.Command {
	var fl flags
	cmd := &cobra.Command{
		Use:   "hbdemo",
		Short: "Provision a student table on HBase, write a row and read it back",
		Long: `hbdemo ensures namespace huangxiaodi and table student (families info, score)
exist, writes student G20210675010604 in two batches and reads the row back.

Endpoints are HBase thrift gateways. They come from --endpoints, the
HBDEMO_ENDPOINTS environment variable or the config file, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, fl)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	f := cmd.Flags()
	f.StringVarP(&fl.configPath, "config", "c", "", "YAML or TOML config file")
	f.StringSliceVar(&fl.endpoints, "endpoints", nil, "thrift gateway endpoints, tried in order")
	f.StringVar(&fl.transport, "transport", "", "thrift transport: http, framed or buffered")
	f.StringVar(&fl.protocol, "protocol", "", "thrift protocol: binary or compact")
	f.DurationVar(&fl.timeout, "timeout", 0, "per operation timeout")
	f.StringVar(&fl.backend, "backend", backendThrift, "thrift, or memory for an in-process cluster")
	f.BoolVar(&fl.recreate, "recreate", false, "drop and recreate the table if it exists (destroys its rows)")
	f.BoolVar(&fl.deleteRow, "delete", false, "delete the row after reading it")
	f.StringVar(&fl.metricsFile, "metrics-file", "", "write prometheus metrics to this file on exit")
	f.StringVar(&fl.logLevel, "log-level", "", "debug, info, warn or error")
	return cmd
}

func loadConfig(cmd *cobra.Command, fl flags) (*config.Config, error) {
	cfg, err := config.LoadConfig(fl.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("endpoints") {
		cfg.Endpoints = fl.endpoints
	}
	if fl.transport != "" {
		cfg.Transport = fl.transport
	}
	if fl.protocol != "" {
		cfg.Protocol = fl.protocol
	}
	if fl.timeout != 0 {
		cfg.Timeout.Duration = fl.timeout
	}
	if fl.metricsFile != "" {
		cfg.MetricsFile = fl.metricsFile
	}
	if fl.logLevel != "" {
		cfg.LogLevel = fl.logLevel
	}
	if fl.backend == backendMemory && len(cfg.Endpoints) == 0 {
		cfg.Endpoints = []string{backendMemory}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) (logger.Logger, func(), error) {
	lvl, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	var l interface {
		logger.Logger
		SetLevel(logger.LogLevel)
		Sync() error
	}
	if cfg.LogFile != "" {
		l = logger.NewFileLogger(cfg.LogFile)
	} else {
		l = logger.NewWriterLogger(out)
	}
	l.SetLevel(lvl)
	return l, func() { _ = l.Sync() }, nil
}

func run(cmd *cobra.Command, fl flags) error {
	switch fl.backend {
	case backendThrift, backendMemory:
	default:
		return usageError{fmt.Errorf("unknown backend %q", fl.backend)}
	}
	cfg, err := loadConfig(cmd, fl)
	if err != nil {
		return usageError{err}
	}
	log, flush, err := newLogger(cfg, cmd.OutOrStdout())
	if err != nil {
		return usageError{err}
	}
	defer flush()

	reg := prometheus.NewRegistry()
	opts := []hbdemo.Option{
		hbdemo.WithLogger(log),
		hbdemo.WithMetrics(hbdemo.NewMetrics(reg)),
	}
	var facade *hbdemo.Facade
	if fl.backend == backendMemory {
		opts = append(opts, hbdemo.WithTimeout(cfg.Timeout.Duration))
		facade = hbdemo.New(memhbase.NewCluster().Dial, opts...)
	} else {
		facade = hbdemo.NewHBase(cfg.ClientOptions(), opts...)
	}
	defer func() {
		if cfg.MetricsFile == "" {
			return
		}
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			log.Errorf("write metrics to %s failed: %v", cfg.MetricsFile, err)
		}
	}()
	defer facade.Close()

	ctx := cmd.Context()
	if err := facade.Open(ctx); err != nil {
		log.Errorf("%v", err)
		return err
	}

	plan := scenario.StudentPlan()
	if fl.recreate {
		plan.Policy = hbdemo.Recreate
	}
	plan.Delete = fl.deleteRow
	if _, err := scenario.Run(ctx, facade, plan, log); err != nil {
		log.Errorf("%v", err)
		return err
	}
	return nil
}

func exitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ue):
		return exitUsage
	case hbdemo.IsConnectivity(err):
		return exitConnectivity
	case hbdemo.IsSchema(err):
		return exitSchema
	case hbdemo.IsDataOperation(err):
		return exitData
	}
	return exitFailure
}
