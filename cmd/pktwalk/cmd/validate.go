package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quietpixel/jpeg2000/internal/codestream"
	"github.com/quietpixel/jpeg2000/internal/pi"
)

// NewValidateCmd runs the geometry builder against a synthetic tile and
// reports the computed precinct table without iterating packets.
func NewValidateCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "print the computed per-(component,resolution) precinct table",
		RunE: func(cmd *cobra.Command, args []string) error {
			numComps, _ := cmd.Flags().GetInt("components")
			numRes, _ := cmd.Flags().GetInt("resolutions")

			image, cp := syntheticParams(numComps, numRes, 1, codestream.LRCP)
			geo, err := pi.ComputeTileGeometry(image, cp, 0)
			if err != nil {
				return fmt.Errorf("compute geometry: %w", err)
			}

			fmt.Printf("tile: x=[%d,%d) y=[%d,%d) max_res=%d max_prec=%d\n",
				geo.Tx0, geo.Tx1, geo.Ty0, geo.Ty1, geo.MaxRes, geo.MaxPrec)
			for c, comp := range geo.Comps {
				for r, res := range comp.Resolutions {
					fmt.Printf("c=%d r=%d pdx=%d pdy=%d pw=%d ph=%d\n", c, r, res.Pdx, res.Pdy, res.Pw, res.Ph)
				}
			}
			return nil
		},
	}
	pf := cmd.Flags()
	pf.Int("components", 1, "number of components")
	pf.Int("resolutions", 1, "number of resolution levels")
	return cmd
}
