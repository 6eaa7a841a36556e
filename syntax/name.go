package syntax

import "strings"

// MaxPackedName is the number of leading characters of a name that fit in a
// 60-bit word at 6 bits per character.
const MaxPackedName = 10

const nameAlphabet = ".0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_"

// EncodeName packs the first MaxPackedName characters of name into a u60.
// Characters outside the alphabet pack as '_'.
func EncodeName(name string) uint64 {
	var num uint64
	n := 0
	for _, r := range name {
		if n == MaxPackedName {
			break
		}
		num = num<<6 | nameCode(r)
		n++
	}
	return num
}

func nameCode(r rune) uint64 {
	switch {
	case r == '.':
		return 0
	case r >= '0' && r <= '9':
		return 1 + uint64(r-'0')
	case r >= 'A' && r <= 'Z':
		return 11 + uint64(r-'A')
	case r >= 'a' && r <= 'z':
		return 37 + uint64(r-'a')
	default:
		return 63
	}
}

// DecodeName unpacks a name produced by EncodeName. Leading dots are not
// recoverable since '.' packs as zero.
func DecodeName(num uint64) string {
	var chars []byte
	for num > 0 {
		chars = append(chars, nameAlphabet[num&63])
		num >>= 6
	}
	s := strings.Builder{}
	for i := len(chars) - 1; i >= 0; i-- {
		s.WriteByte(chars[i])
	}
	return s.String()
}
