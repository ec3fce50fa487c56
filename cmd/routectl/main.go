// Package main is the entry point for routectl, the route-spec
// inspection tool. It loads a spec file, builds the matching tree, and
// resolves the request paths given as arguments; with -watch it keeps
// the tree published while the file changes on disk.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vyrodovalexey/routetree"
	"github.com/vyrodovalexey/routetree/internal/observability"
	"github.com/vyrodovalexey/routetree/specfile"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	specPath    string
	logLevel    string
	logFormat   string
	watch       bool
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	logger := initLogger(flags)
	defer func() { _ = logger.Sync() }()

	if flags.watch {
		runWatch(flags, logger)
		return
	}

	resolvePaths(flags, logger, flag.Args())
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	specPath := flag.String("spec", getEnvOrDefault("ROUTETREE_SPEC_PATH", "routes.yaml"),
		"Path to route-spec file")
	logLevel := flag.String("log-level", getEnvOrDefault("ROUTETREE_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("ROUTETREE_LOG_FORMAT", "console"),
		"Log format (json, console)")
	watch := flag.Bool("watch", false, "Watch the spec file and republish the tree on change")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		specPath:    *specPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		watch:       *watch,
		showVersion: *showVersion,
	}
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("routectl version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// initLogger initializes the logger.
func initLogger(flags cliFlags) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// resolution is the printable outcome of resolving one path.
type resolution struct {
	Path    string            `json:"path"`
	Matched bool              `json:"matched"`
	Backend string            `json:"backend,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
	Listing []string          `json:"listing,omitempty"`
}

// resolvePaths builds the tree once and resolves each argument path.
func resolvePaths(flags cliFlags, logger observability.Logger, paths []string) {
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: routectl [flags] PATH...")
		os.Exit(2)
	}

	tree := buildTree(flags.specPath, logger)

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	for _, path := range paths {
		if err := out.Encode(resolve(tree, path)); err != nil {
			logger.Error("failed to encode result", observability.Error(err))
			os.Exit(1)
		}
	}
}

// resolve runs one lookup and shapes it for output.
func resolve(tree *routetree.Tree[specfile.Target], path string) resolution {
	m, ok := tree.Lookup(path)
	r := resolution{Path: path, Matched: ok}
	if !ok {
		return r
	}
	if m.Value != nil {
		r.Backend = m.Value.Backend
	}
	if len(m.Params) > 0 {
		r.Params = m.Params
	}
	r.Listing = m.Listing
	return r
}

// buildTree loads the spec file and builds the matching tree.
func buildTree(path string, logger observability.Logger) *routetree.Tree[specfile.Target] {
	file, err := specfile.Load(path)
	if err != nil {
		logger.Error("failed to load spec file", observability.Error(err))
		os.Exit(1)
	}

	tree, err := specfile.Build(file)
	if err != nil {
		logger.Error("failed to build route tree", observability.Error(err))
		os.Exit(1)
	}

	logger.Info("route tree built",
		observability.String("spec", path),
		observability.Int("patterns", tree.Len()),
	)
	return tree
}

// runWatch publishes the tree and keeps it in sync until interrupted.
func runWatch(flags cliFlags, logger observability.Logger) {
	provider, err := specfile.NewProvider(flags.specPath,
		specfile.WithProviderLogger(logger),
	)
	if err != nil {
		logger.Error("failed to create provider", observability.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := provider.Start(ctx); err != nil {
		logger.Error("failed to start provider", observability.Error(err))
		os.Exit(1)
	}
	defer func() { _ = provider.Stop() }()

	logger.Info("watching spec file",
		observability.String("spec", flags.specPath),
	)

	<-ctx.Done()
	logger.Info("shutting down")
}
