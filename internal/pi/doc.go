// Package pi implements the JPEG 2000 packet iterator: the engine that
// walks a tile's (layer, resolution, component, precinct) packet space in
// one of the five progression orders defined by the codestream (LRCP,
// RLCP, RPCL, PCRL, CPRL), honoring any POC (progression order change)
// segments declared for the tile.
//
// The package owns three concerns: building the per-component,
// per-resolution precinct geometry for a tile, allocating one iterator
// per POC segment sharing a single packet-seen bitmap, and walking each
// iterator's packet space to completion without emitting a duplicate.
// It does not parse marker segments, assign rate-distortion layers, or
// build packet payloads; those live upstream and downstream of the
// iterator.
package pi
