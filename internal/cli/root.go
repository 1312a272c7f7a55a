package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"dochub/config"
	"dochub/internal/logger"
	"dochub/internal/metrics"
)

var (
	cfgFile     string
	rootDir     string
	metricsAddr string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dochub",
	Short: "Documentation and schema portal core",
	Long: `dochub ingests document revisions, maintains the backlink graph,
and keeps the search index in sync.

Example usage:
  dochub ingest guide.md --slug deployment-guide --tier developer
  dochub sync ./docs --tier public
  dochub search "retry policy" --tier developer
  dochub rebuild backlinks`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg.ResolveStorageDir(rootDir)

		log = logger.New(logger.Config{
			Level:  cfg.Logging.Level,
			Pretty: cfg.Logging.Pretty,
		})

		if metricsAddr == "" {
			metricsAddr = cfg.Metrics.Addr
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./dochub.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "working directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "expose Prometheus metrics on this address")
}

// newMetrics builds the pipeline metrics and, when an address is
// configured, serves them over HTTP for the duration of the command.
func newMetrics() *metrics.Metrics {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	if metricsAddr != "" {
		go func() {
			handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
			if err := http.ListenAndServe(metricsAddr, handler); err != nil {
				log.Warn().Err(err).Str("addr", metricsAddr).Msg("metrics listener stopped")
			}
		}()
	}
	return m
}
