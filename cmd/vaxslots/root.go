package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"vaxslots/internal/config"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type options struct {
	configPath  string
	addr        string
	dbPath      string
	seedFile    string
	logLevel    string
	logFormat   string
	corsOrigins string
}

func execute(args []string) int {
	root := buildRootCmd(os.Stdout)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func buildRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "vaxslots",
		Short:         "Vaccination center registry and slot booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP and WebSocket server",
		Example: "  vaxslots serve --addr :8081 --db ./data/vaxslots.db",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(opts)
			if err != nil {
				return err
			}
			log := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
	f := serveCmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Path to a YAML, JSON or TOML config file")
	f.StringVar(&opts.addr, "addr", "", "HTTP listen address (default :8081)")
	f.StringVar(&opts.dbPath, "db", "", "SQLite database path or DSN")
	f.StringVar(&opts.seedFile, "seed", "", "YAML or JSON file of centers loaded into an empty database")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	f.StringVar(&opts.logFormat, "log-format", "", "Log format: json|console")
	f.StringVar(&opts.corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "vaxslots", version)
		},
	}

	root.AddCommand(serveCmd, versionCmd)
	root.SetContext(context.Background())
	return root
}

// resolveConfig layers defaults, the optional config file, VAXSLOTS_*
// environment variables (including a local .env) and flags, in that order.
func resolveConfig(opts *options) (config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return config.Config{}, err
	}
	cfg := config.Defaults()
	if opts.configPath != "" {
		fileCfg, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = config.Merge(cfg, fileCfg)
	}
	cfg = config.Merge(cfg, config.FromEnv())
	cfg = config.Merge(cfg, config.Config{
		Addr:        opts.addr,
		DBPath:      opts.dbPath,
		SeedFile:    opts.seedFile,
		LogLevel:    opts.logLevel,
		LogFormat:   opts.logFormat,
		CORSOrigins: splitCSV(opts.corsOrigins),
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
