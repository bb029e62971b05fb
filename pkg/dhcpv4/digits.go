package dhcpv4

const (
	hexLower = "0123456789abcdef"
	hexUpper = "0123456789ABCDEF"
)

// AppendBase10 appends the decimal digits of v to dst.
func AppendBase10(dst []byte, v uint32) []byte {
	return AppendBase10Padded(dst, v, 1)
}

// AppendBase10Padded appends the decimal digits of v to dst, left-padded
// with zeros to at least width digits.
func AppendBase10Padded(dst []byte, v uint32, width int) []byte {
	var digits [10]byte
	i := len(digits)
	for {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
		if v == 0 {
			break
		}
	}
	for pad := width - (len(digits) - i); pad > 0; pad-- {
		dst = append(dst, '0')
	}
	return append(dst, digits[i:]...)
}

// AppendHex appends v as exactly two lower-case hexadecimal digits.
func AppendHex(dst []byte, v byte) []byte {
	return append(dst, hexLower[v>>4], hexLower[v&0x0f])
}

// AppendHexUpper appends v as exactly two upper-case hexadecimal digits.
func AppendHexUpper(dst []byte, v byte) []byte {
	return append(dst, hexUpper[v>>4], hexUpper[v&0x0f])
}

// AppendHexBytes appends every byte of b as two hex digits, separated by sep
// when sep is non-zero.
func AppendHexBytes(dst []byte, b []byte, sep byte) []byte {
	for i, v := range b {
		if i > 0 && sep != 0 {
			dst = append(dst, sep)
		}
		dst = AppendHex(dst, v)
	}
	return dst
}
