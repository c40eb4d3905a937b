// Package analysis inspects propagated trajectories.
//
// The package works on plain sample series so it can read stored tracks as
// well as live bodies:
//
//   - [PowerSpectrum]: magnitude spectrum of a real series
//   - [DominantPeriod]: period of the strongest non-zero frequency
//   - [RadialPortrait]: (r, ṙ) phase portrait of a trajectory
//   - [NodeCrossings]: ascending-node passages through the reference plane
//
// # Period Check
//
// For a Kepler orbit the radius repeats once per revolution, so the dominant
// period of |r| over whole orbits recovers the orbital period:
//
//	period, _ := analysis.DominantPeriod(track.Radii()[1:], meta.Step)
package analysis
