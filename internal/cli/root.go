package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"partfinder/config"
	"partfinder/internal/usecase"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "partfinder",
	Short: "Industrial parts product finder - search catalogs and surface co-purchased items",
	Long: `partfinder extracts product records from industrial catalog text, builds a
cached semantic index over them, and answers product queries combining
semantic search, exact reference lookup and co-purchase recommendations.

Example usage:
  partfinder ingest                      # Extract catalogs and build the index
  partfinder search -q "warning label"   # Semantic product search
  partfinder lookup AB1234-X             # Exact reference lookup
  partfinder ask -q "label for forklift" # Full query pipeline with response`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		setupLogging(cfg.Logging.Level)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./partfinder.yaml)")
}

func setupLogging(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

func GetConfig() *config.Config {
	return cfg
}

// newSession builds and initializes the pipeline for query-side commands.
// The index is reloaded from cache when the document set is unchanged, so
// repeated invocations skip the embedding cost.
func newSession(cmd *cobra.Command) (*usecase.Session, error) {
	session := usecase.NewSession(cfg, nil)
	if err := session.Init(cmd.Context(), nil); err != nil {
		return nil, err
	}
	return session, nil
}
