package forth

// parseNumber implements §4.F's number syntax: an optional leading sign,
// then digits in the machine's current Base, or one of the `$`/`#`/`%`
// prefixes forcing hex/decimal/binary regardless of Base (§8 Property 4).
// ok is false when token isn't a valid number in any of those forms, in
// which case the caller treats it as a dictionary lookup instead.
func parseNumber(token string, base int) (Cell, bool) {
	if token == "" {
		return 0, false
	}

	radix := base
	s := token
	switch s[0] {
	case '$':
		radix = 16
		s = s[1:]
	case '#':
		radix = 10
		s = s[1:]
	case '%':
		radix = 2
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}

	var v int64
	for i := 0; i < len(s); i++ {
		d, ok := digitValue(s[i])
		if !ok || d >= radix {
			return 0, false
		}
		v = v*int64(radix) + int64(d)
	}
	if neg {
		v = -v
	}
	return Cell(v), true
}

func digitValue(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'z':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'Z':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}

// formatNumber renders v in the given base, matching `.`'s output: a
// leading `-` for negatives, lowercase digits, no other decoration.
func formatNumber(v Cell, base int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	u := uint64(v)
	if neg {
		u = uint64(-v)
	}
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	var buf []byte
	for u > 0 {
		buf = append([]byte{digits[u%uint64(base)]}, buf...)
		u /= uint64(base)
	}
	s := string(buf)
	if neg {
		s = "-" + s
	}
	return s
}
