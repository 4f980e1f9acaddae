package wiring

// MapResolution converts a sample between bit widths. Narrowing drops low bits, widening pads them with
// zeros; nothing is rounded or interpolated.
func MapResolution(value, from, to uint32) uint32 {
	if from == to {
		return value
	}
	if from > to {
		return value >> (from - to)
	}
	return value << (to - from)
}

// Map re-maps a number from one range to another, the same as the Arduino map() function. Integer math is
// used, so fractions are truncated.
func Map(x, inMin, inMax, outMin, outMax int) int {
	if inMax == inMin {
		return outMin
	}
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}
