package angle

// MinuteToCentidegrees maps an arc-minute to the smallest centidegree
// remainder (0..99) that CentidegreesToMinute rounds back to the same minute.
var MinuteToCentidegrees = [60]uint8{
	0, 1, 3, 5, 6, 8, 10, 11, 13, 15,
	16, 18, 20, 21, 23, 25, 26, 28, 30, 31,
	33, 35, 36, 38, 40, 41, 43, 45, 46, 48,
	50, 51, 53, 55, 56, 58, 60, 61, 63, 65,
	66, 68, 70, 71, 73, 75, 76, 78, 80, 81,
	83, 85, 86, 88, 90, 91, 93, 95, 96, 98,
}

// CentidegreesToMinute rounds a centidegree remainder (0..99) to the nearest
// arc-minute, clamped to 59.
func CentidegreesToMinute(c uint8) uint8 {
	m := (uint16(c)*60 + 50) / 100
	if m > 59 {
		m = 59
	}
	return uint8(m)
}

// SplitMinutes splits an angle into whole degrees and rounded arc-minutes.
func SplitMinutes(v uint16) (deg uint16, min uint8) {
	v = Wrap(int32(v))
	return v / 100, CentidegreesToMinute(uint8(v % 100))
}

// JoinMinutes rebuilds an angle from whole degrees and arc-minutes.
// Degrees wrap at 360 and minutes above 59 clamp to 59.
func JoinMinutes(deg uint16, min uint8) uint16 {
	if min > 59 {
		min = 59
	}
	return Wrap(int32(deg%360)*100 + int32(MinuteToCentidegrees[min]))
}
