package tcd

import (
	"github.com/quietpixel/jpeg2000/internal/codestream"
	"github.com/quietpixel/jpeg2000/internal/pi"
)

// imageFromHeader narrows a parsed codestream header to the geometry the
// packet iterator needs: the reference grid and each component's
// subsampling.
func imageFromHeader(h *codestream.Header) *pi.Image {
	comps := make([]pi.ImageComponent, len(h.ComponentInfo))
	for i, c := range h.ComponentInfo {
		comps[i] = pi.ImageComponent{Dx: int(c.SubsamplingX), Dy: int(c.SubsamplingY)}
	}
	return &pi.Image{
		X0:         int(h.ImageXOffset),
		Y0:         int(h.ImageYOffset),
		X1:         int(h.ImageXOffset + h.ImageWidth),
		Y1:         int(h.ImageYOffset + h.ImageHeight),
		Components: comps,
	}
}

// precinctSizesFor expands a COD/COC's flat PrecinctSizes list (or the
// implicit 15/15 default) into one pi.PrecinctSize per resolution level.
func precinctSizesFor(cs codestream.CodingStyleDefault, numRes int) []pi.PrecinctSize {
	sizes := make([]pi.PrecinctSize, numRes)
	for r := range sizes {
		pdx, pdy := 15, 15
		if cs.CodingStyle&codestream.CodingStylePrecincts != 0 && r < len(cs.PrecinctSizes) {
			pdx = int(cs.PrecinctSizes[r].WidthExp)
			pdy = int(cs.PrecinctSizes[r].HeightExp)
		}
		sizes[r] = pi.PrecinctSize{WidthExp: pdx, HeightExp: pdy}
	}
	return sizes
}

// pocSegmentsFor converts a tile-part header's POC marker entries into
// the iterator's segment type. The marker never carries a spatial window
// or an explicit Layno0, matching POCSegment's own fields.
func pocSegmentsFor(entries []codestream.ProgressionOrderChange) []pi.POCSegment {
	if len(entries) == 0 {
		return nil
	}
	segs := make([]pi.POCSegment, len(entries))
	for i, e := range entries {
		segs[i] = pi.POCSegment{
			Resno0:  int(e.ResolutionStart),
			Resno1:  int(e.ResolutionEnd),
			Compno0: int(e.ComponentStart),
			Compno1: int(e.ComponentEnd),
			Layno1:  int(e.LayerEnd),
			Prg:     codestream.ProgressionOrder(e.ProgressionOrder),
		}
	}
	return segs
}

// codingParamsFromHeader builds the tiling grid and per-tile coding
// parameters the iterator needs from a parsed header. Every tile shares
// the main header's COD/POC unless a future caller threads tile-part
// overrides through tph.
func codingParamsFromHeader(h *codestream.Header, tph *codestream.TilePartHeader) *pi.CodingParams {
	cs := h.CodingStyle
	pocs := h.ProgressionOrderChanges
	if tph != nil {
		if tph.CodingStyle != nil {
			cs = *tph.CodingStyle
		}
		if len(tph.ProgressionOrderChanges) > 0 {
			pocs = tph.ProgressionOrderChanges
		}
	}

	numRes := cs.NumResolutions()
	comps := make([]pi.ComponentParams, len(h.ComponentInfo))
	for i := range comps {
		compNumRes := numRes
		compCS := cs
		if tph != nil {
			if ccs, ok := tph.ComponentCodingStyles[uint16(i)]; ok {
				compNumRes = int(ccs.NumDecompositions) + 1
				compCS = codestream.CodingStyleDefault{
					CodingStyle:       ccs.CodingStyle,
					NumDecompositions: ccs.NumDecompositions,
					PrecinctSizes:     ccs.PrecinctSizes,
				}
			}
		}
		comps[i] = pi.ComponentParams{
			NumResolutions: compNumRes,
			PrecinctSizes:  precinctSizesFor(compCS, compNumRes),
		}
	}

	tile := pi.TileParams{
		NumLayers:   int(cs.NumLayers),
		DefaultProg: codestream.ProgressionOrder(cs.ProgressionOrder),
		POCs:        pocSegmentsFor(pocs),
		Components:  comps,
		TPOn:        tph != nil && tph.NumTileParts > 1,
	}

	numTiles := int(h.NumTilesX) * int(h.NumTilesY)
	tiles := make([]pi.TileParams, numTiles)
	for i := range tiles {
		tiles[i] = tile
	}

	return &pi.CodingParams{
		Tx0: int(h.TileXOffset), Ty0: int(h.TileYOffset),
		Tdx: int(h.TileWidth), Tdy: int(h.TileHeight),
		Tw: int(h.NumTilesX), Th: int(h.NumTilesY),
		Tiles: tiles,
	}
}

// BuildDecodeIterator assembles the packet walk for decoding tile
// tileIndex, following whatever POC and coding-style overrides tph
// carries (nil uses the main header's COD/POC unconditionally).
func BuildDecodeIterator(h *codestream.Header, tph *codestream.TilePartHeader, tileIndex int) (*PacketIterator, error) {
	cp := codingParamsFromHeader(h, tph)
	arr, err := pi.CreateDecode(imageFromHeader(h), cp, tileIndex)
	if err != nil {
		return nil, err
	}
	return NewPacketIterator(arr), nil
}

// BuildEncodeIterator assembles the packet walk for encoding tile
// tileIndex under the given rate-control mode.
func BuildEncodeIterator(h *codestream.Header, tph *codestream.TilePartHeader, tileIndex int, mode pi.Mode) (*PacketIterator, error) {
	cp := codingParamsFromHeader(h, tph)
	arr, err := pi.CreateEncode(imageFromHeader(h), cp, tileIndex, mode)
	if err != nil {
		return nil, err
	}
	return NewPacketIterator(arr), nil
}
