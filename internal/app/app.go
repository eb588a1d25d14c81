package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/buildgraph/internal/buildfile"
	"github.com/specialistvlad/buildgraph/internal/ctxlog"
	"github.com/specialistvlad/buildgraph/internal/discovery"
	"github.com/specialistvlad/buildgraph/internal/events"
	"github.com/specialistvlad/buildgraph/internal/label"
	"github.com/specialistvlad/buildgraph/internal/packages"
	"github.com/specialistvlad/buildgraph/internal/pkgcache"
	"github.com/specialistvlad/buildgraph/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	locator  *discovery.Locator
	store    *pkgcache.Store
	metrics  *prometheus.Registry
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, registry and
// package store. Logs are written to logW.
func NewApp(logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Create and populate the registry with the compiled-in rule classes.
	reg := registry.New(registry.WithLogger(logger))
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	if len(cfg.RuleClassPaths) > 0 {
		if err := reg.LoadManifests(ctx, cfg.RuleClassPaths...); err != nil {
			return nil, fmt.Errorf("failed to load rule classes: %w", err)
		}
	}

	if err := reg.ValidateRegistry(ctx); err != nil {
		return nil, err
	}
	reg.Freeze()
	logger.Debug("Registry validation passed.", "rule_classes", reg.Len())

	var locatorOpts []discovery.Option
	if len(cfg.BuildFileNames) > 0 {
		locatorOpts = append(locatorOpts, discovery.WithBuildFileNames(cfg.BuildFileNames...))
	}
	if len(cfg.DeletedPackages) > 0 {
		locatorOpts = append(locatorOpts, discovery.WithDeletedPackages(cfg.DeletedPackages...))
	}
	locator, err := discovery.New(cfg.Root, locatorOpts...)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace configuration: %w", err)
	}

	metrics := prometheus.NewRegistry()
	evaluator := buildfile.NewEvaluator(cfg.Root, packages.NewRuleFactory(reg))
	store := pkgcache.NewStore(locator, pkgcache.NewBuildFileLoader(evaluator, nil),
		pkgcache.WithMetrics(pkgcache.NewMetrics(metrics)))
	logger.Debug("Package store ready.", "root", cfg.Root)

	return &App{
		logger:   logger,
		config:   cfg,
		registry: reg,
		locator:  locator,
		store:    store,
		metrics:  metrics,
	}, nil
}

// Context returns ctx carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Config returns the validated configuration.
func (a *App) Config() *Config { return a.config }

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry { return a.registry }

// Provider returns the package store.
func (a *App) Provider() pkgcache.Provider { return a.store }

// Metrics returns the gatherer holding the package store metrics.
func (a *App) Metrics() prometheus.Gatherer { return a.metrics }

// RuleClasses returns the registered rule classes sorted by name.
func (a *App) RuleClasses() []*packages.RuleClass {
	names := a.registry.RuleClassNames()
	out := make([]*packages.RuleClass, 0, len(names))
	for _, name := range names {
		rc, _ := a.registry.RuleClass(name)
		out = append(out, rc)
	}
	return out
}

// Packages returns every package found below the workspace root.
func (a *App) Packages(ctx context.Context) ([]label.PackageID, error) {
	ctx = a.Context(ctx)
	ids, err := a.locator.ListPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	a.logger.Debug("Packages discovered.", "count", len(ids))
	return ids, nil
}

// Exists reports whether id names an existing package.
func (a *App) Exists(ctx context.Context, id label.PackageID) bool {
	return a.store.IsPackage(a.Context(ctx), events.Discard, id)
}

// Query loads the given packages, or every discovered package when ids is
// empty. Diagnostics go to handler, which must be safe for concurrent use,
// and are also logged at debug level.
func (a *App) Query(ctx context.Context, handler events.Handler, ids []label.PackageID) ([]pkgcache.Result, error) {
	ctx = a.Context(ctx)
	if len(ids) == 0 {
		var err error
		if ids, err = a.Packages(ctx); err != nil {
			return nil, err
		}
	}

	a.logger.Info("Loading packages.", "count", len(ids), "workers", a.config.Workers)
	handler = events.Tee(handler, events.NewLogHandler(a.logger, events.AtLevel(slog.LevelDebug)))
	results, err := pkgcache.LoadAll(ctx, a.store, handler, ids, a.config.Workers)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Packages loaded.", "count", len(results))
	return results, nil
}
