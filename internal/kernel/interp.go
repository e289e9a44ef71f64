// Package kernel implements the raw noise functions sampled by basis and
// cellular modules: lattice value and gradient noise, simplex noise, white
// noise and a Worley cellular function, each at 2, 3, 4 and 6 dimensions.
package kernel

// InterpFunc maps a lattice-cell fraction in [0, 1] to a blend weight.
type InterpFunc func(t float64) float64

// NoInterp snaps every point to its cell origin.
func NoInterp(float64) float64 { return 0 }

func LinearInterp(t float64) float64 { return t }

// HermiteInterp is the cubic smoothstep 3t^2 - 2t^3.
func HermiteInterp(t float64) float64 { return t * t * (3 - 2*t) }

// QuinticInterp is 6t^5 - 15t^4 + 10t^3.
func QuinticInterp(t float64) float64 { return t * t * t * (t*(t*6-15) + 10) }
