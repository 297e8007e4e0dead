package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace/noop"

	"agrostats/internal/config"
	"agrostats/internal/dataprocessing"
	"agrostats/internal/infrastructure"
	"agrostats/internal/services"
	"agrostats/internal/sidra"
	"agrostats/internal/validation"
)

type globalsKey struct{}

// globals is what every subcommand receives from the root's pre-run.
type globals struct {
	config     *config.Config
	logger     *slog.Logger
	production *services.ProductionService
	crops      *services.CropService
}

func getGlobals(ctx context.Context) *globals {
	return ctx.Value(globalsKey{}).(*globals)
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var (
		configFile string
		logLevel   string
		sidraURL   string
	)

	root := &cobra.Command{
		Use:           "agrostats-cli",
		Short:         "agrostats-cli queries municipal crop production from the IBGE SIDRA table.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(configFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if sidraURL != "" {
				cfg.Sidra.BaseURL = sidraURL
			}

			logger := infrastructure.NewLoggerWithWriter(cfg.Logging, cmd.ErrOrStderr())
			tracer := noop.NewTracerProvider().Tracer("agrostats-cli")

			client := sidra.NewClient(cfg.Sidra, logger, tracer)
			processor := dataprocessing.NewProcessor(dataprocessing.NewColumnMapper(logger), logger, nil)
			fetcher := dataprocessing.NewFetcher(client, processor, cfg.Sidra, logger, nil, tracer)

			crops := services.NewCropService(config.Crops, logger)
			production := services.NewProductionService(validation.NewParamValidator(cfg.Query), fetcher, cfg.Query, logger).
				WithCropResolver(crops)

			cmd.SetContext(context.WithValue(cmd.Context(), globalsKey{}, &globals{
				config:     cfg,
				logger:     logger,
				production: production,
				crops:      crops,
			}))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&sidraURL, "sidra-url", "", "override the SIDRA API base URL")

	root.AddCommand(newFetchCommand(), newCropsCommand())
	return root
}

// ExecuteContext runs the CLI and exits non-zero on error.
func ExecuteContext(ctx context.Context) {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	// Field names are case-sensitive identifiers; keep them as written.
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetOutputMirror(w)
	return t
}
