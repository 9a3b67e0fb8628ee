package registry

import (
	"math/rand/v2"
	"strings"
)

// Group codes are short uppercase alphanumeric tokens meant to be read
// aloud or typed from another phone.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NormalizeCode uppercases and trims a caller-supplied group code. Codes
// are case-insensitive on input.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func randomCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}
