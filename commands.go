package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	logger "github.com/Easy-Infra-Ltd/easy-logger"
	"github.com/spf13/cobra"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/apimap"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/config"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/inspect"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/pipeline"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/store"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/transport"
)

var (
	cfgPath   string
	inputDir  string
	outputDir string
	apiMapOut string
)

// newLogger is swapped out in tests.
var newLogger = func() *slog.Logger {
	return logger.CreateLoggerFromEnv(nil, "blue").With("process", "easyfixturescrubber")
}

var rootCmd = &cobra.Command{
	Use:   "easy-fixture-scrubber",
	Short: "Turn captured API responses into anonymised mock fixtures",
	Long: `easy-fixture-scrubber reads captured API responses from an input directory,
replaces member names with stable pseudonyms and writes one JSON fixture per
capture for use by mock servers and tests.`,
	Version:       transport.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize",
	Short: "Sanitize every declared capture into a fixture",
	Args:  cobra.NoArgs,
	RunE:  runSanitize,
}

var apimapCmd = &cobra.Command{
	Use:   "apimap",
	Short: "Write the request-to-fixture map for captures with a request line",
	Args:  cobra.NoArgs,
	RunE:  runAPIMap,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve sanitize and lookup tools over MCP (stdio or HTTP)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Config file (.json, .yaml or .yml); built-in defaults when empty")
	rootCmd.PersistentFlags().StringVarP(&inputDir, "input", "i", "", "Capture directory (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Fixture output directory (overrides config)")

	apimapCmd.Flags().StringVar(&apiMapOut, "out", "", "API map file (overrides config)")

	rootCmd.AddCommand(sanitizeCmd)
	rootCmd.AddCommand(apimapCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config file when one is given and applies flag
// overrides on top.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("config: %w", err)
		}
		cfg = loaded
	}
	if inputDir != "" {
		cfg.InputDir = inputDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if apiMapOut != "" {
		cfg.APIMapFile = apiMapOut
	}
	return cfg, nil
}

func runSanitize(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	ctx := cmd.Context()

	st, err := store.Open(ctx, cfg.Store, cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	sum, err := pipeline.New(cfg, st, log).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), sum.Line())
	if !sum.OK() {
		// Per-document failures leave the other fixtures usable, so they
		// warn rather than fail the command.
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: fixtures not written: %s\n", strings.Join(sum.Failed, ", "))
	}
	return nil
}

func runAPIMap(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	ctx := cmd.Context()

	m, err := apimap.Build(cfg.InputDir, cfg.Documents, log)
	if err != nil {
		return err
	}

	// The map lives beside the fixtures rather than among them, so the fs
	// driver is rooted at the map's own directory.
	var st store.Store
	if cfg.Store.Driver == config.DriverFilesystem {
		st, err = store.NewFilesystem(filepath.Dir(cfg.APIMapFile))
	} else {
		st, err = store.Open(ctx, cfg.Store, cfg.OutputDir)
	}
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	if err := apimap.Write(ctx, st, filepath.Base(cfg.APIMapFile), m); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "api map: %d entries -> %s\n", len(m.Entries), cfg.APIMapFile)
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	ctx := cmd.Context()

	st, err := store.Open(ctx, cfg.Store, cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return inspect.New(cfg, st, log).Run(ctx)
}
