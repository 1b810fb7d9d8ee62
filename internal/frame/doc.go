// Package frame defines the shared data types of the conversion pipeline
// and the playback renderer.
//
// The package provides:
//
//   - [Raster]: decoded 8-bit pixel grid with one or three channels
//   - [Gradient]: light-to-dark glyph ramp used for luminance quantization
//   - [Preset]: registry of named gradients with a literal fallback
//   - [Frame]: one ASCII-art frame, rows joined by newlines
//   - [FrameSet]: ordered frames sharing one target width
//
// # Errors
//
// Failures are reported through the sentinels [ErrDecode], [ErrFrameIndex],
// [ErrDimension] and [ErrConfig]. The typed wrappers ([DecodeError],
// [FrameIndexError], [DimensionError], [ConfigError]) carry context and match
// their sentinel under errors.Is.
//
// # Immutability
//
// Rasters, frames and frame sets are never modified after construction.
// Every transform returns a new value, so they may be shared freely between
// pipeline stages and renderer ticks.
package frame
