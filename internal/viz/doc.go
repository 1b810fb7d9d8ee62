// Package viz is an interactive terminal viewer for converted frame sets,
// built on Bubble Tea.
//
// The viewer plays one width at a time and can switch between the widths of
// a conversion without leaving the program. A side panel shows the coverage
// sparkline and churn plot for the width on screen.
//
// # Key Bindings
//
//	Space - Play/pause
//	←/→   - Step one frame (pauses playback)
//	W     - Cycle widths
//	+/-   - Faster/slower
//	T     - Cycle color themes
//	S     - Toggle the metrics panel
//	?     - Show help
package viz
