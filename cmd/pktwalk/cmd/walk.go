package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietpixel/jpeg2000/internal/codestream"
	"github.com/quietpixel/jpeg2000/internal/pi"
)

func parseProgression(s string) (codestream.ProgressionOrder, error) {
	switch strings.ToUpper(s) {
	case "LRCP":
		return codestream.LRCP, nil
	case "RLCP":
		return codestream.RLCP, nil
	case "RPCL":
		return codestream.RPCL, nil
	case "PCRL":
		return codestream.PCRL, nil
	case "CPRL":
		return codestream.CPRL, nil
	default:
		return codestream.UnknownProgression, fmt.Errorf("unrecognized progression order %q", s)
	}
}

// syntheticParams builds a single-tile, single-precinct-per-resolution
// configuration from the walk/validate flags: enough to exercise the
// geometry builder and every progression engine without a real
// codestream header.
func syntheticParams(numComps, numRes, numLayers int, prg codestream.ProgressionOrder) (*pi.Image, *pi.CodingParams) {
	imgComps := make([]pi.ImageComponent, numComps)
	cpComps := make([]pi.ComponentParams, numComps)
	for i := range imgComps {
		imgComps[i] = pi.ImageComponent{Dx: 1, Dy: 1}
		cpComps[i] = pi.ComponentParams{NumResolutions: numRes}
	}
	image := &pi.Image{X0: 0, Y0: 0, X1: 64, Y1: 64, Components: imgComps}
	cp := &pi.CodingParams{
		Tx0: 0, Ty0: 0, Tdx: 64, Tdy: 64, Tw: 1, Th: 1,
		Tiles: []pi.TileParams{{
			NumLayers:   numLayers,
			DefaultProg: prg,
			Components:  cpComps,
		}},
	}
	return image, cp
}

// NewWalkCmd drains the packet iterator for a synthetic tile and prints
// the emitted (layer, resolution, component, precinct) sequence.
func NewWalkCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walk",
		Short: "print the packet sequence for a synthetic tile",
		RunE: func(cmd *cobra.Command, args []string) error {
			progStr, _ := cmd.Flags().GetString("progression")
			numComps, _ := cmd.Flags().GetInt("components")
			numRes, _ := cmd.Flags().GetInt("resolutions")
			numLayers, _ := cmd.Flags().GetInt("layers")

			prg, err := parseProgression(progStr)
			if err != nil {
				return err
			}

			image, cp := syntheticParams(numComps, numRes, numLayers, prg)
			arr, err := pi.CreateDecode(image, cp, 0)
			if err != nil {
				return fmt.Errorf("create iterator: %w", err)
			}
			defer arr.Destroy()

			slog.InfoContext(ctx, "walking packet sequence", "progression", prg.String(), "components", numComps, "resolutions", numRes, "layers", numLayers)

			count := 0
			for _, it := range arr.Iterators {
				for it.Next() {
					fmt.Printf("l=%d r=%d c=%d p=%d\n", it.Layno, it.Resno, it.Compno, it.Precno)
					count++
				}
			}
			slog.InfoContext(ctx, "walk complete", "packets", count)
			return nil
		},
	}
	pf := cmd.Flags()
	pf.String("progression", "LRCP", "progression order (LRCP, RLCP, RPCL, PCRL, CPRL)")
	pf.Int("components", 1, "number of components")
	pf.Int("resolutions", 1, "number of resolution levels")
	pf.Int("layers", 1, "number of quality layers")
	return cmd
}
