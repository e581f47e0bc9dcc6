// Package calc holds the Japanese real-estate tax and investment
// calculators. Every function is pure; negative inputs are treated as zero.
package calc

// MaxYen bounds every yen input (¥10 trillion). Products with the rate
// tables stay well inside int64 below it.
const MaxYen int64 = 10_000_000_000_000

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	if v > MaxYen {
		return MaxYen
	}
	return v
}

func clampf(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// floorTo truncates v to a multiple of unit (tax bases to ¥1,000, tax
// amounts to ¥100).
func floorTo(v, unit int64) int64 {
	if v <= 0 {
		return 0
	}
	return v / unit * unit
}

// perMille returns v × rate/1000 truncated to whole yen.
func perMille(v, rate int64) int64 {
	return v * rate / 1000
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
