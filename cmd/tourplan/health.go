package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the planning service is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := withTimeout(cmd.Context(), c.cfg.Timeout)
			defer cancel()
			o := rt.newPlanner()
			defer o.Close()
			h, err := o.CheckHealth(ctx)
			if err != nil {
				return fmt.Errorf("%s unreachable: %w", rt.client.BaseURL(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (version %s, %d attractions, %d hotels)\n",
				rt.client.BaseURL(), h.Status, h.Version, h.AttractionsLoaded, h.HotelsLoaded)
			return nil
		},
	}
}
