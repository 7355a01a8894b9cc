package pi

// cprlSeq walks component, then canvas position, then resolution, then
// layer. Unlike RPCL and PCRL, the spatial step is recomputed per
// component from that component's own resolutions rather than taken
// from the global minimum.
func (it *Iterator) cprlSeq(yield func(Packet) bool) {
	poc := it.POC

	for compno := poc.Compno0; compno < poc.Compno1; compno++ {
		comp := it.Comps[compno]
		dx, dy := componentSpatialStep(comp)

		tx0, ty0, tx1, ty1 := poc.Tx0, poc.Ty0, poc.Tx1, poc.Ty1
		if !it.TPOn {
			tx0, ty0, tx1, ty1 = it.Tx0, it.Ty0, it.Tx1, it.Ty1
		}

		resno1 := minInt(poc.Resno1, comp.NumResolutions)

		for y := ty0; y < ty1; y += dy - (y % dy) {
			for x := tx0; x < tx1; x += dx - (x % dx) {
				for resno := poc.Resno0; resno < resno1; resno++ {
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
