package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rendis/tourplan/internal/engine/export"
	"github.com/rendis/tourplan/internal/engine/present"
	"github.com/rendis/tourplan/internal/model"
)

// lastItinerary reads the handoff slot, turning an empty slot into a hint
// for the user.
func lastItinerary(cmd *cobra.Command, rt *runtime) (*model.ItineraryResponse, error) {
	it, err := present.Load(cmd.Context(), rt.store, 0)
	if errors.Is(err, present.ErrNoItinerary) {
		return nil, fmt.Errorf("%w: run `tourplan plan` first", err)
	}
	return it, err
}

func newExportCmd(c *cli) *cobra.Command {
	var format, dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the last itinerary to a file",
		Example: `  tourplan export
  tourplan export --format pdf --dir ~/Downloads`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			rt, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			it, err := lastItinerary(cmd, rt)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = c.cfg.DownloadDir
			}
			d := export.NewDownloader(dir)
			d.Delay = 0
			path, err := d.Save(cmd.Context(), f, it)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatText), "txt, pdf or geojson")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Target directory (default from config)")
	return cmd
}

func newShareCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "share",
		Short: "Copy a shareable summary of the last itinerary to the clipboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			it, err := lastItinerary(cmd, rt)
			if err != nil {
				return err
			}
			out, err := export.Share(cmd.Context(), rt.shareHost(), it)
			if errors.Is(err, export.ErrUnsupported) {
				// no clipboard: print what would have been copied
				fmt.Fprintln(cmd.OutOrStdout(), export.NewPayload(it, c.cfg.ShareURL).CopyText())
				return nil
			}
			if err != nil {
				return err
			}
			c.log.Info().Stringer("outcome", out).Msg("itinerary shared")
			return nil
		},
	}
}

func newClearCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the last itinerary",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			o := rt.newPlanner()
			defer o.Close()
			return o.GenerateNew(cmd.Context())
		},
	}
}
