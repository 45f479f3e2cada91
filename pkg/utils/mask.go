package utils

import "strings"

// MaskString masks everything but the first start and last end runes
func MaskString(str string, start, end int, mask rune) string {
	if len(str) <= start+end {
		return strings.Repeat(string(mask), len(str))
	}

	runes := []rune(str)
	for i := start; i < len(runes)-end; i++ {
		runes[i] = mask
	}
	return string(runes)
}

// MaskPhone masks the middle of a 10-digit contact number for log output
func MaskPhone(phone string) string {
	if len(phone) != 10 {
		return MaskString(phone, 0, 0, '*')
	}
	return MaskString(phone, 2, 2, '*')
}
