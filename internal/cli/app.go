package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/config"
	"github.com/roach88/shelf/internal/logging"
	"github.com/roach88/shelf/internal/metrics"
	"github.com/roach88/shelf/internal/notify"
	"github.com/roach88/shelf/internal/resource"
	"github.com/roach88/shelf/internal/store"
)

// app is the wiring one command runs against.
type app struct {
	opts      *RootOptions
	cmd       *cobra.Command
	formatter *OutputFormatter
	cfg       config.Config
	log       zerolog.Logger
	table     *resource.Table
	store     *store.Store
	router    *resource.Router
	registry  *prometheus.Registry
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// loadApp resolves config, logging and the routing table without touching
// the database.
func loadApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	formatter := newFormatter(opts, cmd)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, report(formatter, ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	switch {
	case opts.LogLevel != "":
		cfg.Log.Level = opts.LogLevel
	case opts.Verbose:
		cfg.Log.Level = "debug"
	}

	log, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, report(formatter, ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	table, err := cfg.Table()
	if err != nil {
		return nil, report(formatter, ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	return &app{
		opts:      opts,
		cmd:       cmd,
		formatter: formatter,
		cfg:       cfg,
		log:       log,
		table:     table,
		registry:  prometheus.NewRegistry(),
	}, nil
}

// openApp is loadApp plus the store and a Router over it.
// Callers must defer Close.
func openApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	a, err := loadApp(opts, cmd)
	if err != nil {
		return nil, err
	}

	a.log.Debug().Str("database", a.cfg.Database).Msg("opening store")
	st, err := store.Open(a.cfg.Database)
	if err != nil {
		return nil, report(a.formatter, ExitCommandError, ErrCodeDatabase, fmt.Sprintf("failed to open database: %v", err), nil)
	}

	a.store = st
	a.router = resource.NewRouter(a.table, st, notify.NewBus(),
		resource.WithLogger(a.log),
		resource.WithMetrics(metrics.New(a.registry)),
	)
	return a, nil
}

// Close releases the store and, when --metrics is set, prints the metrics.
func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing store")
		}
	}
	if a.opts.Metrics {
		if err := metrics.Dump(a.cmd.ErrOrStderr(), a.registry); err != nil {
			a.log.Warn().Err(err).Msg("dumping metrics")
		}
	}
}

// identifier turns a bare numeric id into an item identifier and passes
// anything else through unchanged.
func (a *app) identifier(arg string) string {
	arg = strings.TrimSpace(arg)
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil && id >= 0 && !strings.HasPrefix(arg, "+") {
		return a.table.ItemURI(id)
	}
	return arg
}

// itemIdentifier is identifier restricted to single products.
func (a *app) itemIdentifier(arg string) (string, error) {
	uri := a.identifier(arg)
	target, err := a.table.Parse(uri)
	if err != nil {
		return "", reportRouterError(a.formatter, err)
	}
	if target.Kind() != resource.KindItem {
		return "", report(a.formatter, ExitCommandError, ErrCodeUsage, fmt.Sprintf("%s names the whole collection, not one product", uri), nil)
	}
	return uri, nil
}
