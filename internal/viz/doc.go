// Package viz is the terminal front-end for the MapReduce animation.
//
// [Player] is a Bubble Tea model that owns a sequencer, its event loop and a
// [Board]. Each frame tick advances the loop by the wall-clock time since the
// previous tick, so chips appear with the same pacing as in the browser.
//
// # Key Bindings
//
//	Enter/R - Run the animation
//	X       - Reset
//	E       - Edit the input text (Enter to commit, Esc to cancel)
//	T       - Cycle color themes
//	?       - Show help overlay
//	Q       - Quit
package viz
