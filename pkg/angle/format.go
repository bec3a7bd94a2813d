package angle

// DegreeGlyph is the degree sign in the HD44780 A00 character ROM.
const DegreeGlyph = 0xDF

// FormatWidth is the length of a formatted angle, e.g. "  5\xDF03'".
const FormatWidth = 7

// Format renders v as degrees and arc-minutes, "%3d°%02d'", using the
// character-LCD degree glyph.
func Format(v uint16) string {
	var buf [FormatWidth]byte
	return string(AppendFormat(buf[:0], v))
}

// AppendFormat appends the formatted angle to dst without allocating when
// dst has room.
func AppendFormat(dst []byte, v uint16) []byte {
	deg, min := SplitMinutes(v)

	switch {
	case deg >= 100:
		dst = append(dst, byte('0'+deg/100))
	default:
		dst = append(dst, ' ')
	}
	switch {
	case deg >= 10:
		dst = append(dst, byte('0'+deg/10%10))
	default:
		dst = append(dst, ' ')
	}
	dst = append(dst, byte('0'+deg%10), DegreeGlyph)
	dst = append(dst, byte('0'+min/10), byte('0'+min%10), '\'')
	return dst
}
