package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rendis/tourplan/internal/engine/export"
	"github.com/rendis/tourplan/internal/engine/planner"
)

func newPlanCmd(c *cli) *cobra.Command {
	var (
		form   planner.Form
		format string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate an itinerary without the interactive UI",
		Long: `Validates the request, asks the planning service for an itinerary and
stores it as the last itinerary. The result is printed to stdout.`,
		Example: `  tourplan plan --location Algiers --budget 60000 --activities historical,museum
  tourplan plan --location "36.75, 3.06" --region Tipaza --budget 45000 \
      --activities nature --car --format geojson --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			draft, err := planner.Build(form)
			var verrs planner.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", fe.Field, fe.Msg)
				}
				return fmt.Errorf("invalid request (%d problems)", len(verrs))
			}
			if err != nil {
				return err
			}
			if w := draft.Location.Warning(); w != "" {
				c.log.Warn().Str("location", form.Location).Msg(w)
			}

			rt, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			o := rt.newPlanner()
			defer o.Close()
			it, err := o.Generate(cmd.Context(), draft.Request)
			if err != nil {
				return err
			}

			if save {
				d := export.NewDownloader(c.cfg.DownloadDir)
				d.Delay = 0
				path, err := d.Save(cmd.Context(), f, it)
				if err != nil {
					return err
				}
				c.log.Info().Str("path", path).Msg("itinerary saved")
				return nil
			}
			data, err := export.Render(f, it)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&form.Location, "location", "l", "", "Starting city or \"lat, lon\" (required)")
	fl.StringVarP(&form.Region, "region", "r", "", "Region (wilaya) to explore")
	fl.StringVarP(&form.Budget, "budget", "b", "", "Total budget in DZD (required)")
	fl.StringSliceVarP(&form.Activities, "activities", "a", nil, "Activity categories, comma separated (required)")
	fl.StringVar(&form.MinHotelStars, "min-stars", strconv.Itoa(planner.DefaultMinHotelStars), "Minimum hotel stars")
	fl.StringVar(&form.MaxHotelStars, "max-stars", strconv.Itoa(planner.DefaultMaxHotelStars), "Maximum hotel stars")
	fl.StringVar(&form.MaxAttractions, "max-attractions", strconv.Itoa(planner.DefaultMaxAttractions), "Attractions per day")
	fl.StringVar(&form.MaxTravelHours, "max-hours", "", "Maximum travel hours per day")
	fl.BoolVar(&form.HasCar, "car", false, "Travel with your own car")
	fl.StringVarP(&format, "format", "f", string(export.FormatText), "Output format: txt, pdf or geojson")
	fl.BoolVar(&save, "save", false, "Write the itinerary to the download directory instead of stdout")

	return cmd
}
