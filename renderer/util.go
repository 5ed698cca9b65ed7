package renderer

import "math"

func speedOf(u, v float32) float32 {
	return float32(math.Sqrt(float64(u*u + v*v)))
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
