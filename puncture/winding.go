package puncture

import (
	"math"
)

// Threshold is the winding magnitude above which an element is punctured
const Threshold = 0.5

// Mod2Pi reduces x into (-pi, pi]
func Mod2Pi(x float64) float64 {
	y := math.Mod(x+math.Pi, 2*math.Pi)
	if y <= 0 {
		y += 2 * math.Pi
	}
	return y - math.Pi
}

// Phases returns the modulus and argument of each sample
func Phases(samples []Sample) (rho, phi []float64) {
	rho = make([]float64, len(samples))
	phi = make([]float64, len(samples))
	for i, s := range samples {
		rho[i] = math.Hypot(s.Re, s.Im)
		phi[i] = math.Atan2(s.Im, s.Re)
	}
	return rho, phi
}

// Winding sums the corrected phase steps around the closed loop phi and
// returns the number of turns together with the corrected steps. li holds the
// gauge line integral of each step and is only applied when gauge is set; qp
// is the periodic wrap correction. Either may be nil.
func Winding(phi, li, qp []float64, gauge bool) (w float64, delta []float64) {
	n := len(phi)
	delta = make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		d := phi[(i+1)%n] - phi[i]
		if gauge && li != nil {
			d -= li[i]
		}
		if qp != nil {
			d += qp[i]
		}
		delta[i] = Mod2Pi(d)
		sum += delta[i]
	}
	return sum / (2 * math.Pi), delta
}

// Chirality maps a winding estimate to +1, -1, or 0 when not punctured
func Chirality(w float64) int8 {
	switch {
	case w > Threshold:
		return 1
	case w < -Threshold:
		return -1
	}
	return 0
}

// Regauge rebuilds the samples from the corrected phase steps so that the
// zero locator sees the gauge free field
func Regauge(rho, phi, delta []float64, re, im []float64) {
	for i := 1; i < len(phi); i++ {
		phi[i] = phi[i-1] + delta[i-1]
		re[i] = rho[i] * math.Cos(phi[i])
		im[i] = rho[i] * math.Sin(phi[i])
	}
}
