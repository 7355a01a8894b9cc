package tcd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietpixel/jpeg2000/internal/codestream"
)

func testHeader() *codestream.Header {
	return &codestream.Header{
		ImageWidth: 64, ImageHeight: 64,
		TileWidth: 64, TileHeight: 64,
		NumComponents: 2,
		NumTilesX:     1, NumTilesY: 1,
		ComponentInfo: []codestream.ComponentInfo{
			{BitDepth: 7, SubsamplingX: 1, SubsamplingY: 1},
			{BitDepth: 7, SubsamplingX: 1, SubsamplingY: 1},
		},
		CodingStyle: codestream.CodingStyleDefault{
			NumDecompositions: 2,
			NumLayers:         2,
			ProgressionOrder:  uint8(codestream.LRCP),
		},
	}
}

func TestBuildDecodeIteratorDrainsEveryPacketOnce(t *testing.T) {
	h := testHeader()
	it, err := BuildDecodeIterator(h, nil, 0)
	require.NoError(t, err)
	defer it.Close()

	seen := map[Packet]bool{}
	count := 0
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		assert.False(t, seen[p], "packet %+v emitted twice", p)
		seen[p] = true
		count++
	}
	// 2 layers * 3 resolutions * 2 components * 1 precinct each.
	assert.Equal(t, 12, count)
}

func TestBuildDecodeIteratorRejectsOutOfRangeTile(t *testing.T) {
	h := testHeader()
	_, err := BuildDecodeIterator(h, nil, 5)
	assert.Error(t, err)
}

func TestBuildEncodeIteratorHonorsTilePartOverride(t *testing.T) {
	h := testHeader()
	tph := &codestream.TilePartHeader{
		NumTileParts: 2,
		ProgressionOrderChanges: []codestream.ProgressionOrderChange{
			{ResolutionStart: 0, ResolutionEnd: 3, ComponentStart: 0, ComponentEnd: 1, LayerEnd: 1, ProgressionOrder: uint8(codestream.RPCL)},
		},
	}
	it, err := BuildEncodeIterator(h, tph, 0, 1)
	require.NoError(t, err)
	defer it.Close()

	_, ok := it.Next()
	assert.True(t, ok, "expected at least one packet from the narrowed POC segment")
}
