// Package engine implements the falling-glyph column engine.
//
// The engine owns one pixel buffer per column and a small state machine per
// column that decides, glyph row by glyph row, where strings, gaps and speed
// changes fall:
//
//   - [Engine]: column layout, lifecycle and the per-frame scroll
//   - [Column]: one independently scrolling glyph stream
//   - [Surface]: the drawing primitives a host must provide
//   - [Options]: density, speed and buffer sizing policy
//
// # Frame Loop
//
//	eng, _ := engine.New(surf, rng, engine.DefaultOptions())
//	_ = eng.Retile(w, h, glyphs)
//	for {
//		eng.AdvanceFrame()
//	}
//
// Each frame shifts every column strip down by the column speed with a single
// intra-surface copy and fills only the newly exposed rows from the column
// buffer. When a buffer runs out mid-frame the fill is split at the
// exhaustion point around the regeneration of that buffer.
//
// # Thread Safety
//
// An Engine is NOT safe for concurrent use. Hosts drive it from a single
// event loop, one operation at a time.
package engine
