// Package conv appends numbers to byte slices without fmt or strconv,
// for log lines built on the MCU.
package conv

const hexDigits = "0123456789ABCDEF"

// AppendUint appends the decimal form of v.
func AppendUint(dst []byte, v uint64) []byte {
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
		if v == 0 {
			break
		}
	}
	return append(dst, tmp[i:]...)
}

// AppendInt appends the decimal form of v with a leading '-' when negative.
func AppendInt(dst []byte, v int64) []byte {
	if v < 0 {
		// -MinInt64 overflows back to itself; uint64 of it is still right.
		return AppendUint(append(dst, '-'), uint64(-v))
	}
	return AppendUint(dst, uint64(v))
}

// AppendHex32 appends v as eight zero-padded uppercase hex digits, no prefix.
func AppendHex32(dst []byte, v uint32) []byte {
	for shift := 28; shift >= 0; shift -= 4 {
		dst = append(dst, hexDigits[v>>uint(shift)&0xF])
	}
	return dst
}
