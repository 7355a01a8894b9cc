package pi

import (
	"iter"

	"github.com/quietpixel/jpeg2000/internal/codestream"
)

// POCBox is the packet-space box a single iterator walks: an
// inclusive-lower, exclusive-upper range on each of the four packet
// coordinates, a spatial window used by the position-driven orders, and
// the progression order that determines the walk.
type POCBox struct {
	Layno0, Layno1   int
	Resno0, Resno1   int
	Compno0, Compno1 int
	Precno0, Precno1 int
	Tx0, Ty0, Tx1, Ty1 int
	Prg codestream.ProgressionOrder
}

// Iterator walks one POC segment's packet space in its declared
// progression order. Several Iterators from the same Array share one
// "seen" bitmap so that a packet already emitted by an earlier segment
// is never repeated by a later one.
type Iterator struct {
	POC POCBox

	Comps    []Component
	NumComps int

	Tx0, Ty0, Tx1, Ty1 int
	// Dx, Dy is the coarsest precinct alignment grid across every
	// component and resolution; RPCL and PCRL step their spatial loops
	// by it. It also doubles as the tile-part slicing step for the
	// position axis.
	Dx, Dy int

	// Cursor, valid after a successful Next.
	Layno, Resno, Compno, Precno int
	X, Y                         int

	StepP, StepC, StepR, StepL int
	Include                    []byte

	TPOn bool

	// Encode-only: the full range each axis may ever take across every
	// tile-part of this POC segment, and the tail cursors carried
	// between successive CreateEncodeForTilePart calls.
	CompS, CompE       int
	ResS, ResE         int
	LayS, LayE         int
	PrcS, PrcE         int
	TxS, TyS, TxE, TyE int
	compT, resT, layT, prcT int
	tx0T, ty0T               int

	pull func() (Packet, bool)
	stop func()
}

// Array is the set of iterators allocated for one tile: one per POC
// segment, or a single synthetic segment spanning the whole tile when
// no POC marker applies.
type Array struct {
	Iterators []*Iterator
	MaxRes    int
	MaxPrec   int
	NumComps  int
}

// Close stops it's underlying generator, releasing the goroutine
// iter.Pull parks while waiting for the next packet. It is safe to call
// more than once.
func (it *Iterator) Close() {
	if it.stop != nil {
		it.stop()
		it.stop = nil
		it.pull = nil
	}
}

// Destroy releases every iterator in the array. The shared Include
// bitmap and per-component geometry are ordinary Go slices collected by
// the garbage collector once the last iterator referencing them is gone;
// Destroy's real job is stopping the iter.Pull goroutines.
func (a *Array) Destroy() {
	if a == nil {
		return
	}
	for _, it := range a.Iterators {
		it.Close()
		it.Include = nil
	}
}

func stepConstants(numComps, maxRes, maxPrec int) (stepP, stepC, stepR, stepL int) {
	stepP = 1
	stepC = maxPrec * stepP
	stepR = numComps * stepC
	stepL = maxRes * stepR
	return
}

// CreateDecode allocates one iterator per POC segment declared for the
// tile (or a single iterator spanning the whole packet space, when none
// is declared), ready to walk packets in decode order.
func CreateDecode(image *Image, cp *CodingParams, tileIndex int) (*Array, error) {
	geo, err := ComputeTileGeometry(image, cp, tileIndex)
	if err != nil {
		return nil, err
	}
	tile := cp.Tiles[tileIndex]

	numSegments := 1
	if len(tile.POCs) > 0 {
		numSegments = len(tile.POCs)
	}

	stepP, stepC, stepR, stepL := stepConstants(len(image.Components), geo.MaxRes, geo.MaxPrec)
	include := make([]byte, (tile.NumLayers+1)*stepL)
	dx, dy := globalSpatialStep(geo.Comps)

	arr := &Array{
		Iterators: make([]*Iterator, numSegments),
		MaxRes:    geo.MaxRes,
		MaxPrec:   geo.MaxPrec,
		NumComps:  len(image.Components),
	}
	for i := 0; i < numSegments; i++ {
		arr.Iterators[i] = &Iterator{
			Comps:    geo.Comps,
			NumComps: len(image.Components),
			Tx0:      geo.Tx0, Ty0: geo.Ty0, Tx1: geo.Tx1, Ty1: geo.Ty1,
			Dx: dx, Dy: dy,
			StepP: stepP, StepC: stepC, StepR: stepR, StepL: stepL,
			Include: include,
			TPOn:    tile.TPOn,
		}
	}

	if len(tile.POCs) > 0 {
		for i, seg := range tile.POCs {
			arr.Iterators[i].POC = POCBox{
				Layno0: 0, Layno1: seg.Layno1,
				Resno0: seg.Resno0, Resno1: seg.Resno1,
				Compno0: seg.Compno0, Compno1: seg.Compno1,
				Precno0: 0, Precno1: geo.MaxPrec,
				Tx0: geo.Tx0, Ty0: geo.Ty0, Tx1: geo.Tx1, Ty1: geo.Ty1,
				Prg: seg.Prg,
			}
		}
	} else {
		arr.Iterators[0].POC = POCBox{
			Layno0: 0, Layno1: tile.NumLayers,
			Resno0: 0, Resno1: geo.MaxRes,
			Compno0: 0, Compno1: len(image.Components),
			Precno0: 0, Precno1: geo.MaxPrec,
			Tx0: geo.Tx0, Ty0: geo.Ty0, Tx1: geo.Tx1, Ty1: geo.Ty1,
			Prg: tile.DefaultProg,
		}
	}
	return arr, nil
}

// CreateEncode allocates one iterator per POC segment ready to generate
// packets for encoding. It additionally records, on every iterator, the
// full packet-space range the segment may ever cover across all of its
// tile-parts (CompS/CompE and friends); CreateEncodeForTilePart narrows
// POC down from that range for one tile-part at a time.
func CreateEncode(image *Image, cp *CodingParams, tileIndex int, mode Mode) (*Array, error) {
	geo, err := ComputeTileGeometry(image, cp, tileIndex)
	if err != nil {
		return nil, err
	}
	tile := cp.Tiles[tileIndex]

	numSegments := 1
	if len(tile.POCs) > 0 {
		numSegments = len(tile.POCs)
	}

	stepP, stepC, stepR, stepL := stepConstants(len(image.Components), geo.MaxRes, geo.MaxPrec)
	include := make([]byte, maxInt(tile.NumLayers, 1)*stepL)
	dx, dy := globalSpatialStep(geo.Comps)

	arr := &Array{
		Iterators: make([]*Iterator, numSegments),
		MaxRes:    geo.MaxRes,
		MaxPrec:   geo.MaxPrec,
		NumComps:  len(image.Components),
	}

	applyPOC := len(tile.POCs) > 0 && (tile.Cinema || mode == FinalPass)

	prevLayE := 0
	for i := 0; i < numSegments; i++ {
		it := &Iterator{
			Comps:    geo.Comps,
			NumComps: len(image.Components),
			Tx0:      geo.Tx0, Ty0: geo.Ty0, Tx1: geo.Tx1, Ty1: geo.Ty1,
			Dx: dx, Dy: dy,
			StepP: stepP, StepC: stepC, StepR: stepR, StepL: stepL,
			Include: include,
			TPOn:    tile.TPOn,
		}

		if applyPOC {
			seg := tile.POCs[i]
			it.CompS, it.CompE = seg.Compno0, seg.Compno1
			it.ResS, it.ResE = seg.Resno0, seg.Resno1
			it.LayE = seg.Layno1
			if seg.Layno1 > prevLayE {
				it.LayS = prevLayE
			} else {
				it.LayS = 0
			}
			prevLayE = it.LayE
			it.POC.Prg = seg.Prg
		} else {
			it.CompS, it.CompE = 0, len(image.Components)
			it.ResS, it.ResE = 0, geo.MaxRes
			it.LayS, it.LayE = 0, tile.NumLayers
			it.POC.Prg = tile.DefaultProg
		}
		it.PrcS, it.PrcE = 0, geo.MaxPrec
		it.TxS, it.TyS, it.TxE, it.TyE = geo.Tx0, geo.Ty0, geo.Tx1, geo.Ty1

		it.POC = POCBox{
			Layno0: it.LayS, Layno1: it.LayE,
			Resno0: it.ResS, Resno1: it.ResE,
			Compno0: it.CompS, Compno1: it.CompE,
			Precno0: it.PrcS, Precno1: it.PrcE,
			Tx0: it.TxS, Ty0: it.TyS, Tx1: it.TxE, Ty1: it.TyE,
			Prg: it.POC.Prg,
		}

		arr.Iterators[i] = it
	}
	return arr, nil
}

func (it *Iterator) sequence() iter.Seq[Packet] {
	switch it.POC.Prg {
	case codestream.LRCP:
		return it.lrcpSeq
	case codestream.RLCP:
		return it.rlcpSeq
	case codestream.RPCL:
		return it.rpclSeq
	case codestream.PCRL:
		return it.pcrlSeq
	case codestream.CPRL:
		return it.cprlSeq
	default:
		return func(yield func(Packet) bool) {}
	}
}

// Next advances the iterator to the next unseen packet in its
// progression order, recording its coordinates in Layno/Resno/Compno/
// Precno (and X/Y for the position-driven orders). It returns false once
// the segment's packet space is exhausted.
func (it *Iterator) Next() bool {
	if it.pull == nil {
		next, stop := iter.Pull(it.sequence())
		it.pull, it.stop = next, stop
	}
	p, ok := it.pull()
	if !ok {
		return false
	}
	it.Layno, it.Resno, it.Compno, it.Precno = p.Layno, p.Resno, p.Compno, p.Precno
	return true
}

func (it *Iterator) mark(p Packet) bool {
	idx := p.Layno*it.StepL + p.Resno*it.StepR + p.Compno*it.StepC + p.Precno*it.StepP
	if idx < 0 || idx >= len(it.Include) || it.Include[idx] != 0 {
		return false
	}
	it.Include[idx] = 1
	return true
}
