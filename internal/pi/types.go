package pi

import "github.com/quietpixel/jpeg2000/internal/codestream"

// MaxResolutionLevels bounds the number of wavelet decomposition levels a
// component may declare. It mirrors the ceiling every JPEG 2000 profile
// enforces on COD/COC NumDecompositions and keeps the precinct-stride
// arithmetic in Int range.
const MaxResolutionLevels = 33

// Mode selects which pass of tile-part generation CreateEncode and
// CreateEncodeForTilePart are being used for.
type Mode int

const (
	// ThresholdCalc is the rate-control pass that sizes packets without
	// committing to final tile-part boundaries.
	ThresholdCalc Mode = iota
	// FinalPass commits to the tile-part boundaries that get written to
	// the codestream.
	FinalPass
)

// ImageComponent describes one component's subsampling relative to the
// image's reference grid.
type ImageComponent struct {
	Dx, Dy int
}

// Image is the subset of image geometry the iterator needs: its canvas
// extent and each component's subsampling factors.
type Image struct {
	X0, Y0, X1, Y1 int
	Components     []ImageComponent
}

// PrecinctSize is one resolution level's precinct size, expressed as
// base-2 exponents (PPx/PPy in the codestream, or the 15/15 default).
type PrecinctSize struct {
	WidthExp, HeightExp int
}

// ComponentParams carries the per-component coding parameters the
// geometry builder needs: how many resolution levels it decomposes into,
// and the precinct size at each of them.
type ComponentParams struct {
	NumResolutions int
	// PrecinctSizes holds one entry per resolution level, ordered from
	// the lowest resolution (0) to the highest. A nil or short slice
	// falls back to the 15/15 default (no explicit precincts) for the
	// missing levels.
	PrecinctSizes []PrecinctSize
}

// POCSegment is one entry parsed out of a POC marker: the packet-space
// box a progression order applies to. Per the marker's own encoding,
// Layno0 is implicitly 0 and Precno0/Precno1 span the full precinct
// range; only the fields below are carried on the wire.
type POCSegment struct {
	Resno0, Resno1   int
	Compno0, Compno1 int
	Layno1           int
	Prg              codestream.ProgressionOrder
}

// TileParams carries the per-tile coding parameters the iterator needs.
type TileParams struct {
	NumLayers   int
	DefaultProg codestream.ProgressionOrder
	POCs        []POCSegment
	Components  []ComponentParams

	// TPOn splits the tile into multiple tile-parts along the
	// progression axes. CreateEncodeForTilePart only narrows packet
	// ranges when this is set.
	TPOn bool
	// Cinema mirrors the digital-cinema profile flag: when set, POC
	// boundaries are applied on every tile-part generation pass, not
	// only the final one.
	Cinema bool
}

// CodingParams carries the tiling grid plus one TileParams per tile.
type CodingParams struct {
	Tx0, Ty0 int
	Tdx, Tdy int
	Tw, Th   int
	Tiles    []TileParams
}

// Resolution is one component's precinct geometry at one resolution
// level: precinct size (as exponents) and the precinct grid dimensions
// covering the tile-component at that level.
type Resolution struct {
	Pdx, Pdy int
	Pw, Ph   int
}

// Component is one component's subsampling and per-resolution precinct
// geometry, as seen by a single tile.
type Component struct {
	Dx, Dy         int
	NumResolutions int
	Resolutions    []Resolution
}

// Packet identifies one packet by its four coordinates.
type Packet struct {
	Layno, Resno, Compno, Precno int
}

// TileGeometry is the tile-level geometry computed once per tile and
// shared by every POC segment's iterator.
type TileGeometry struct {
	Tx0, Ty0, Tx1, Ty1 int
	DxMin, DyMin       int
	MaxRes, MaxPrec    int
	Comps              []Component
}
