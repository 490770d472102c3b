// Package viz draws a soft body in the terminal.
//
// [Canvas] is a braille grid with 2x4 dots per cell; [Projection] maps world
// units onto those dots. [Model] is a Bubble Tea program that advances the
// body once per frame, turns left-button drags into the pull signal and
// terminal resizes into the collision box.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Rebuild the body
//	T     - Cycle panel themes
//	Q     - Quit
package viz
