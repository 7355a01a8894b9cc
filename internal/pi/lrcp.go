package pi

// lrcpSeq walks layer, then resolution, then component, then precinct.
func (it *Iterator) lrcpSeq(yield func(Packet) bool) {
	poc := it.POC
	for layno := poc.Layno0; layno < poc.Layno1; layno++ {
		for resno := poc.Resno0; resno < poc.Resno1; resno++ {
			for compno := poc.Compno0; compno < poc.Compno1; compno++ {
				comp := it.Comps[compno]
				if resno >= comp.NumResolutions {
					continue
				}
				res := comp.Resolutions[resno]
				precno1 := poc.Precno1
				if !it.TPOn {
					precno1 = res.Pw * res.Ph
				}
				for precno := poc.Precno0; precno < precno1; precno++ {
					p := Packet{Layno: layno, Resno: resno, Compno: compno, Precno: precno}
					if it.mark(p) && !yield(p) {
						return
					}
				}
			}
		}
	}
}

// rlcpSeq walks resolution, then layer, then component, then precinct.
func (it *Iterator) rlcpSeq(yield func(Packet) bool) {
	poc := it.POC
	for resno := poc.Resno0; resno < poc.Resno1; resno++ {
		for layno := poc.Layno0; layno < poc.Layno1; layno++ {
			for compno := poc.Compno0; compno < poc.Compno1; compno++ {
				comp := it.Comps[compno]
				if resno >= comp.NumResolutions {
					continue
				}
				res := comp.Resolutions[resno]
				precno1 := poc.Precno1
				if !it.TPOn {
					precno1 = res.Pw * res.Ph
				}
				for precno := poc.Precno0; precno < precno1; precno++ {
					p := Packet{Layno: layno, Resno: resno, Compno: compno, Precno: precno}
					if it.mark(p) && !yield(p) {
						return
					}
				}
			}
		}
	}
}
