// Package analysis turns recorded runs into summaries of how a body moved.
//
//   - [PowerSpectrum] and [DominantFrequency]: wobble frequency of the
//     centroid height, via go-dsp
//   - [NewPhasePortrait]: centroid height against vertical speed
//   - [Sweep]: settled heights across a range of one body parameter
//
// A body that bounces and comes to rest shows a single dominant bin near its
// bounce rate; a settled body sweeps to a single value per parameter.
package analysis
