package pi

// precinctAt computes the packed precinct index covering canvas point
// (x, y) at comp's resolution level resno, or ok=false when that
// resolution has no precincts there or (x, y) does not sit on this
// resolution's precinct grid (the "alignment gate" every position-driven
// progression order must pass before it can emit a packet).
func (it *Iterator) precinctAt(comp Component, res Resolution, resno, x, y int) (precno int, ok bool) {
	if res.Pw == 0 || res.Ph == 0 {
		return 0, false
	}
	levelno := comp.NumResolutions - 1 - resno

	trx0 := CeilDiv(it.Tx0, comp.Dx<<uint(levelno))
	try0 := CeilDiv(it.Ty0, comp.Dy<<uint(levelno))
	trx1 := CeilDiv(it.Tx1, comp.Dx<<uint(levelno))
	try1 := CeilDiv(it.Ty1, comp.Dy<<uint(levelno))
	if trx0 == trx1 || try0 == try1 {
		return 0, false
	}

	rpx := res.Pdx + levelno
	rpy := res.Pdy + levelno

	xOK := x%(comp.Dx<<uint(rpx)) == 0 ||
		(x == it.Tx0 && (trx0<<uint(levelno))%(1<<uint(rpx)) != 0)
	if !xOK {
		return 0, false
	}
	yOK := y%(comp.Dy<<uint(rpy)) == 0 ||
		(y == it.Ty0 && (try0<<uint(levelno))%(1<<uint(rpy)) != 0)
	if !yOK {
		return 0, false
	}

	prci := FloorDivPow2(CeilDiv(x, comp.Dx<<uint(levelno)), res.Pdx) - FloorDivPow2(trx0, res.Pdx)
	prcj := FloorDivPow2(CeilDiv(y, comp.Dy<<uint(levelno)), res.Pdy) - FloorDivPow2(try0, res.Pdy)
	return prci + prcj*res.Pw, true
}
