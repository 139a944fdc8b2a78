// Package signals extracts objective, deterministic signals from answers:
// lexical features from the transcript text, prosodic scores from audio
// features, and engagement scores from video features.
package signals

import "math"

// Sigmoid maps a value onto 0..1 with a logistic curve centered at center.
func Sigmoid(value, center, steepness float64) float64 {
	exponent := -steepness * (value - center)
	if exponent > 500 {
		exponent = 500
	} else if exponent < -500 {
		exponent = -500
	}
	return 1.0 / (1.0 + math.Exp(exponent))
}

// Gaussian scores how close a value is to an optimum, on 0..1. Tolerance
// is the standard deviation of the bell curve.
func Gaussian(value, optimal, tolerance float64) float64 {
	if tolerance <= 0 {
		if value == optimal {
			return 1.0
		}
		return 0.0
	}
	exponent := -0.5 * math.Pow((value-optimal)/tolerance, 2)
	if exponent < -500 {
		exponent = -500
	}
	return math.Exp(exponent)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
