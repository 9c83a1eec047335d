// Package viz is the terminal host for the column engine.
//
// The engine draws into an in-memory framebuffer; the host downsamples it
// onto a braille canvas, two by four dots per terminal cell, and colours each
// cell with lipgloss:
//
//   - [Model]: Bubble Tea model driving the engine from a frame tick
//   - [Canvas]: colour braille canvas with framebuffer downsampling
//   - [NewPicker]: preset menu in front of the live model
//   - Theme selection with 5 built-in glyph palettes
//
// # Key Bindings
//
//	Space - Pause/Resume
//	r     - Redraw from the column buffers
//	R     - Full reset
//	m     - Toggle regenerate/static mode
//	t     - Cycle themes
//	s     - Toggle statistics
//	g     - Toggle recording
//	p     - SVG snapshot
//	?     - Show help overlay
//
// # Recording
//
// With a storage.Store configured, g records frames and statistics and saves
// them as a recording (GIF, CSV, metadata) when recording stops.
package viz
