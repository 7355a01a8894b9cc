package pi

import "fmt"

// ComputeTileGeometry derives tile extents and, for every component, the
// precinct grid at every resolution level. It is the single source of
// truth for precinct geometry: both the iterator allocator and callers
// that need to bucket code-blocks into precincts (outside this package)
// should use it rather than re-deriving the formulas.
func ComputeTileGeometry(image *Image, cp *CodingParams, tileIndex int) (TileGeometry, error) {
	if cp.Tw <= 0 || cp.Th <= 0 {
		return TileGeometry{}, fmt.Errorf("pi: invalid tile grid %dx%d", cp.Tw, cp.Th)
	}
	numTiles := cp.Tw * cp.Th
	if tileIndex < 0 || tileIndex >= numTiles {
		return TileGeometry{}, fmt.Errorf("pi: tile index %d out of range [0,%d)", tileIndex, numTiles)
	}
	if tileIndex >= len(cp.Tiles) {
		return TileGeometry{}, fmt.Errorf("pi: no tile params for tile %d", tileIndex)
	}
	tile := cp.Tiles[tileIndex]
	if len(tile.Components) != len(image.Components) {
		return TileGeometry{}, fmt.Errorf("pi: tile %d declares %d components, image has %d", tileIndex, len(tile.Components), len(image.Components))
	}

	p := tileIndex % cp.Tw
	q := tileIndex / cp.Tw

	tx0 := maxInt(cp.Tx0+p*cp.Tdx, image.X0)
	ty0 := maxInt(cp.Ty0+q*cp.Tdy, image.Y0)
	tx1 := minInt(cp.Tx0+(p+1)*cp.Tdx, image.X1)
	ty1 := minInt(cp.Ty0+(q+1)*cp.Tdy, image.Y1)

	const sentinel = 1<<31 - 1
	dxMin, dyMin := sentinel, sentinel
	maxRes, maxPrec := 0, 0

	comps := make([]Component, len(image.Components))
	for c, ic := range image.Components {
		ccp := tile.Components[c]
		if ccp.NumResolutions < 1 || ccp.NumResolutions > MaxResolutionLevels {
			return TileGeometry{}, fmt.Errorf("pi: component %d numresolutions %d out of range", c, ccp.NumResolutions)
		}
		if ic.Dx < 1 || ic.Dy < 1 {
			return TileGeometry{}, fmt.Errorf("pi: component %d has non-positive subsampling", c)
		}

		comp := Component{Dx: ic.Dx, Dy: ic.Dy, NumResolutions: ccp.NumResolutions}
		if comp.NumResolutions > maxRes {
			maxRes = comp.NumResolutions
		}

		tcx0 := CeilDiv(tx0, ic.Dx)
		tcy0 := CeilDiv(ty0, ic.Dy)
		tcx1 := CeilDiv(tx1, ic.Dx)
		tcy1 := CeilDiv(ty1, ic.Dy)

		comp.Resolutions = make([]Resolution, comp.NumResolutions)
		for r := 0; r < comp.NumResolutions; r++ {
			levelno := comp.NumResolutions - 1 - r

			pdx, pdy := 15, 15
			if r < len(ccp.PrecinctSizes) {
				pdx = ccp.PrecinctSizes[r].WidthExp
				pdy = ccp.PrecinctSizes[r].HeightExp
			}
			if pdx < 0 || pdx > 30 || pdy < 0 || pdy > 30 {
				return TileGeometry{}, fmt.Errorf("pi: component %d resolution %d precinct exponent out of range", c, r)
			}

			dxcr := ic.Dx * (1 << uint(pdx+levelno))
			dycr := ic.Dy * (1 << uint(pdy+levelno))
			dxMin = minInt(dxMin, dxcr)
			dyMin = minInt(dyMin, dycr)

			rx0 := CeilDivPow2(tcx0, levelno)
			ry0 := CeilDivPow2(tcy0, levelno)
			rx1 := CeilDivPow2(tcx1, levelno)
			ry1 := CeilDivPow2(tcy1, levelno)

			px0 := FloorDivPow2(rx0, pdx) << uint(pdx)
			py0 := FloorDivPow2(ry0, pdy) << uint(pdy)
			px1 := CeilDivPow2(rx1, pdx) << uint(pdx)
			py1 := CeilDivPow2(ry1, pdy) << uint(pdy)

			pw, ph := 0, 0
			if rx0 != rx1 {
				pw = (px1 - px0) >> uint(pdx)
			}
			if ry0 != ry1 {
				ph = (py1 - py0) >> uint(pdy)
			}
			if pw*ph > maxPrec {
				maxPrec = pw * ph
			}

			comp.Resolutions[r] = Resolution{Pdx: pdx, Pdy: pdy, Pw: pw, Ph: ph}
		}
		comps[c] = comp
	}

	if dxMin == sentinel {
		dxMin = 1
	}
	if dyMin == sentinel {
		dyMin = 1
	}

	return TileGeometry{
		Tx0: tx0, Ty0: ty0, Tx1: tx1, Ty1: ty1,
		DxMin: dxMin, DyMin: dyMin,
		MaxRes: maxRes, MaxPrec: maxPrec,
		Comps: comps,
	}, nil
}

// globalSpatialStep returns the coarsest alignment grid any precinct in
// any component aligns to: the minimum, over every (component,
// resolution) pair, of the precinct size projected onto the component's
// reference grid. RPCL and PCRL step their spatial loops by this amount.
func globalSpatialStep(comps []Component) (dx, dy int) {
	dx, dy = 0, 0
	for _, comp := range comps {
		cdx, cdy := componentSpatialStep(comp)
		if dx == 0 || cdx < dx {
			dx = cdx
		}
		if dy == 0 || cdy < dy {
			dy = cdy
		}
	}
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}
	return dx, dy
}

// componentSpatialStep is globalSpatialStep restricted to one component's
// own resolutions, used by CPRL which fixes the component before
// stepping over space.
func componentSpatialStep(comp Component) (dx, dy int) {
	dx, dy = 0, 0
	for r, res := range comp.Resolutions {
		levelno := comp.NumResolutions - 1 - r
		cdx := comp.Dx * (1 << uint(res.Pdx+levelno))
		cdy := comp.Dy * (1 << uint(res.Pdy+levelno))
		if dx == 0 || cdx < dx {
			dx = cdx
		}
		if dy == 0 || cdy < dy {
			dy = cdy
		}
	}
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}
	return dx, dy
}
