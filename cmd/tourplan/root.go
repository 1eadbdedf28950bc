package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rendis/tourplan/internal/config"
	"github.com/rendis/tourplan/internal/observability"
	"github.com/rendis/tourplan/internal/tui"
)

// cli carries the resolved configuration from the root command into the
// subcommands.
type cli struct {
	cfgPath string
	apiURL  string
	cfg     config.Config
	log     zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:   "tourplan",
		Short: "Plan multi-day trips across Algeria",
		Long: `tourplan talks to the itinerary planning service: browse attractions
and hotels, generate a day-by-day itinerary, view it on a map and export it.

Run without a subcommand to open the interactive planner.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(c.cfgPath)
			if err != nil {
				return err
			}
			if c.apiURL != "" {
				cfg.APIBaseURL = c.apiURL
			}
			c.cfg = cfg
			c.log = newLogger(cfg, os.Stderr)
			return nil
		},
		RunE: c.runTUI,
	}

	cmd.PersistentFlags().StringVar(&c.cfgPath, "config", filepath.Join(config.Dir(), "config.yaml"), "Path to the YAML config file")
	cmd.PersistentFlags().StringVar(&c.apiURL, "api", "", "Planning service base URL (overrides config)")

	cmd.AddCommand(
		newPlanCmd(c),
		newCatalogCmd(c, catalogAttractions),
		newCatalogCmd(c, catalogHotels),
		newExportCmd(c),
		newShareCmd(c),
		newClearCmd(c),
		newHealthCmd(c),
		newFakeAPICmd(c),
	)

	return cmd
}

// runTUI owns the terminal, so logs go to the configured file instead of
// stderr.
func (c *cli) runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := observability.OpenLogFile(c.cfg.LogFile)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()
	log := newLogger(c.cfg, f)

	reg := observability.InitRegistry()
	observability.Serve(ctx, c.cfg.MetricsAddr, reg, log)

	rt, err := openRuntime(ctx, c.cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	history := tui.NewHistory(filepath.Join(config.Dir(), "downloads.json"))
	log.Info().Str("version", version).Msg("starting tui")
	return tui.Run(rt.viewDeps(), history, version)
}

func (c *cli) open(cmd *cobra.Command) (*runtime, error) {
	return openRuntime(cmd.Context(), c.cfg, c.log)
}
