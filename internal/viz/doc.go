// Package viz draws the arm.
//
// Drawing is split in two. [BuildScene] projects a simulation snapshot
// through the orbit camera into a flat, depth-sorted list of 2D primitives
// in viewport pixels. Backends consume that list: the terminal [Canvas]
// rasterizes it into Braille cells, and the export package writes SVG, PNG
// and WebP.
//
// [Model] is the interactive Bubble Tea viewport built on top.
//
// # Key Bindings
//
//	Space     - toggle animate mode
//	R         - reset to the rest pose
//	Tab/↑/↓   - select a joint and move its target
//	←/→ w/s   - orbit the camera
//	+/-       - zoom
//	p/P       - change payload
//	1-9       - apply a pose preset
//	E         - export a JSON snapshot
//	A         - request an analysis of the current state
//	?         - help overlay
package viz
