package pi

// rpclSeq walks resolution, then canvas position, then component, then
// layer. The position loop steps by the coarsest precinct alignment
// across every component, so not every (x, y) it visits lands on a
// precinct boundary for every component at every resolution; precinctAt
// gates each candidate before a packet is emitted.
func (it *Iterator) rpclSeq(yield func(Packet) bool) {
	poc := it.POC
	tx0, ty0, tx1, ty1 := poc.Tx0, poc.Ty0, poc.Tx1, poc.Ty1
	if !it.TPOn {
		tx0, ty0, tx1, ty1 = it.Tx0, it.Ty0, it.Tx1, it.Ty1
	}
	dx, dy := it.Dx, it.Dy

	for resno := poc.Resno0; resno < poc.Resno1; resno++ {
		for y := ty0; y < ty1; y += dy - (y % dy) {
			for x := tx0; x < tx1; x += dx - (x % dx) {
				for compno := poc.Compno0; compno < poc.Compno1; compno++ {
					comp := it.Comps[compno]
					if resno >= comp.NumResolutions {
						continue
					}
					res := comp.Resolutions[resno]
					precno, ok := it.precinctAt(comp, res, resno, x, y)
					if !ok {
						continue
					}
					for layno := poc.Layno0; layno < poc.Layno1; layno++ {
						p := Packet{Layno: layno, Resno: resno, Compno: compno, Precno: precno}
						if it.mark(p) {
							it.X, it.Y = x, y
							if !yield(p) {
								return
							}
						}
					}
				}
			}
		}
	}
}
