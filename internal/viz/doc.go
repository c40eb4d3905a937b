// Package viz renders orbits in the terminal.
//
//   - [Canvas]: braille pixel buffer with per-cell layer ownership
//   - [Camera]: orthographic view with spin, tilt and zoom
//   - [Scene]: several tracks drawn together with a legend
//   - [Model]: Bubble Tea live view driving Body.Propagate on a shared clock
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from periapsis
//	Tab   - Select next body
//	F/S   - Faster/slower clock
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
