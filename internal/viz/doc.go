// Package viz draws a running particle system in the terminal.
//
// The live viewer is a Bubble Tea program:
//
//   - [Model]: steps the system on every tick and plots it on a braille [Canvas]
//   - [OrbitCamera]: perspective camera circling the box, eased by springs
//   - [RunInteractive]: preset launcher that opens a [Model]
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	S      - Single step while paused
//	R      - Scatter the particles again
//	Arrows - Orbit the camera
//	+/-    - Zoom
//	T      - Cycle color themes
//	G      - Toggle GIF recording
//	?      - Toggle help
//	Q      - Quit
package viz
