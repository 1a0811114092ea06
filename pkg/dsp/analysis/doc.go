// Package analysis turns stereo sample blocks into vectorscope display state.
//
// Stereo Field Analysis:
//   - Correlation of a block, clamped to [-1, 1] and 0 for silent channels
//   - Phase status classification of a correlation value
//   - Exponential smoothing of the correlation at the display tick rate
//
// Phase Visualization:
//   - Goniometer projection of L/R samples into display coordinates
//   - Rotation control tilting the view back toward an XY Lissajous display
//   - Width control scaling the side component
//
// Metering:
//   - Two six-cell LED banks driven by the smoothed correlation
//
// Everything here is allocation-free per sample and holds no locks. The
// smoother and the projector are owned by the render thread; Correlation may
// run on either thread.
//
// Example usage:
//
//	smoother := analysis.NewCorrelationSmoother(analysis.DefaultCorrelationTime, analysis.DefaultTickRate)
//	displayed := smoother.Tick(analysis.Correlation(left, right))
//	leds := analysis.MapLEDs(displayed)
//
//	proj := analysis.NewProjector(analysis.GeometryFor(300, 300), analysis.DefaultControls())
//	for pt := range proj.Points(left, right) {
//	    draw(pt.X, pt.Y)
//	}
package analysis
