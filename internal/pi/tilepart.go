package pi

import "github.com/quietpixel/jpeg2000/internal/codestream"

func progressionLetters(p codestream.ProgressionOrder) string {
	switch p {
	case codestream.LRCP:
		return "LRCP"
	case codestream.RLCP:
		return "RLCP"
	case codestream.RPCL:
		return "RPCL"
	case codestream.PCRL:
		return "PCRL"
	case codestream.CPRL:
		return "CPRL"
	default:
		return ""
	}
}

// CreateEncodeForTilePart narrows the pino'th iterator's POC down to the
// packet range that belongs to tile-part tpnum (out of curTotNumTp total
// tile-parts, split along the axis at string position tppos within the
// segment's four-letter progression order).
//
// It reports whether iteration should proceed; the only case it reports
// false is an unrecognized progression order, for which there is no
// letter string to split on.
//
// Each axis carries a "tail cursor" (compT, resT, layT, prcT, or the
// spatial tx0T/ty0T pair) on the iterator between calls: the position
// one past where the previous tile-part's slice of that axis ended. The
// first tile-part (tpnum == 0) seeds the cursor from the segment's full
// range; later ones either advance it by one unit or hold it while an
// axis to its right in the progression string (an inner axis) takes the
// increment, mirroring the way a multi-digit counter rolls over.
func CreateEncodeForTilePart(arr *Array, pino, tpnum, tppos int, mode Mode, curTotNumTp int) bool {
	it := arr.Iterators[pino]
	letters := progressionLetters(it.POC.Prg)
	if letters == "" {
		return false
	}

	// The POC box below is about to be narrowed to this tile-part's slice;
	// drop any generator parked against the previous tile-part's box so
	// the next Next() rebuilds one against the new range instead of
	// resuming an already-exhausted pull.
	it.Close()

	narrow := it.TPOn
	if !narrow {
		it.POC.Resno0, it.POC.Resno1 = it.ResS, it.ResE
		it.POC.Compno0, it.POC.Compno1 = it.CompS, it.CompE
		it.POC.Layno0, it.POC.Layno1 = it.LayS, it.LayE
		it.POC.Precno0, it.POC.Precno1 = it.PrcS, it.PrcE
		it.POC.Tx0, it.POC.Ty0, it.POC.Tx1, it.POC.Ty1 = it.TxS, it.TyS, it.TxE, it.TyE
		return true
	}
	if tpnum >= curTotNumTp {
		return true
	}

	incrTop := true
	for i := 3; i >= 0; i-- {
		switch letters[i] {
		case 'C':
			narrowAxis(i > tppos, tpnum, &incrTop, &it.compT, it.CompS, it.CompE, &it.POC.Compno0, &it.POC.Compno1)
		case 'R':
			narrowAxis(i > tppos, tpnum, &incrTop, &it.resT, it.ResS, it.ResE, &it.POC.Resno0, &it.POC.Resno1)
		case 'L':
			narrowAxis(i > tppos, tpnum, &incrTop, &it.layT, it.LayS, it.LayE, &it.POC.Layno0, &it.POC.Layno1)
		case 'P':
			switch it.POC.Prg {
			case codestream.LRCP, codestream.RLCP:
				narrowAxis(i > tppos, tpnum, &incrTop, &it.prcT, it.PrcS, it.PrcE, &it.POC.Precno0, &it.POC.Precno1)
			default:
				narrowSpatial(i > tppos, tpnum, &incrTop, it)
			}
		}
	}
	return true
}

// narrowAxis applies the tail-cursor rule to one integer packet-space
// axis. full leaves the axis at its whole range (this tile-part doesn't
// slice along it); otherwise it yields the single-unit slice [t, t+1)
// and advances the carried cursor, consulting and updating incrTop the
// way a ripple-carry counter does: the first axis processed (rightmost
// letter) always increments, and each subsequent axis only increments
// when the previous one wrapped back to its start.
func narrowAxis(full bool, tpnum int, incrTop *bool, cursor *int, start, end int, lo, hi *int) {
	if full {
		*lo, *hi = start, end
		return
	}
	switch {
	case tpnum == 0:
		*cursor = start
		*lo, *hi = *cursor, *cursor+1
		*cursor++
	case *incrTop:
		if *cursor == end {
			*cursor = start
			*lo, *hi = *cursor, *cursor+1
			*cursor++
			*incrTop = true
		} else {
			*lo, *hi = *cursor, *cursor+1
			*cursor++
			*incrTop = false
		}
	default:
		*lo, *hi = *cursor-1, *cursor
	}
}

// narrowSpatial is narrowAxis specialized to the (tx0,ty0,tx1,ty1) window
// RPCL/PCRL/CPRL slice along, which steps by (Dx,Dy) instead of 1 and
// carries a two-dimensional cursor.
func narrowSpatial(full bool, tpnum int, incrTop *bool, it *Iterator) {
	if full {
		it.POC.Tx0, it.POC.Ty0, it.POC.Tx1, it.POC.Ty1 = it.TxS, it.TyS, it.TxE, it.TyE
		return
	}
	switch {
	case tpnum == 0:
		it.tx0T, it.ty0T = it.TxS, it.TyS
		it.POC.Tx0 = it.tx0T
		it.POC.Tx1 = it.tx0T + it.Dx - (it.tx0T % it.Dx)
		it.POC.Ty0 = it.ty0T
		it.POC.Ty1 = it.ty0T + it.Dy - (it.ty0T % it.Dy)
		it.tx0T = it.POC.Tx1
		it.ty0T = it.POC.Ty1
	case *incrTop:
		resetX := false
		if it.tx0T >= it.TxE {
			if it.ty0T >= it.TyE {
				it.ty0T = it.TyS
				it.POC.Ty0 = it.ty0T
				it.POC.Ty1 = it.ty0T + it.Dy - (it.ty0T % it.Dy)
				it.ty0T = it.POC.Ty1
				*incrTop = true
			} else {
				it.POC.Ty0 = it.ty0T
				it.POC.Ty1 = it.ty0T + it.Dy - (it.ty0T % it.Dy)
				it.ty0T = it.POC.Ty1
				*incrTop = false
			}
			resetX = true
		} else {
			it.POC.Tx0 = it.tx0T
			it.POC.Tx1 = it.tx0T + it.Dx - (it.tx0T % it.Dx)
			it.tx0T = it.POC.Tx1
			it.POC.Ty0 = it.ty0T - it.Dy - (it.ty0T % it.Dy)
			it.POC.Ty1 = it.ty0T
			*incrTop = false
		}
		if resetX {
			it.tx0T = it.TxS
			it.POC.Tx0 = it.tx0T
			it.POC.Tx1 = it.tx0T + it.Dx - (it.tx0T % it.Dx)
			it.tx0T = it.POC.Tx1
		}
	default:
		it.POC.Tx0 = it.tx0T - it.Dx - (it.tx0T % it.Dx)
		it.POC.Tx1 = it.tx0T
		it.POC.Ty0 = it.ty0T - it.Dy - (it.ty0T % it.Dy)
		it.POC.Ty1 = it.ty0T
	}
}
