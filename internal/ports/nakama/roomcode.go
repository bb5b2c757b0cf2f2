package nakama

import (
	"math/rand"
	"strings"
)

// Room code alphabet without the easily confused 0/O/1/I pairs.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the length of a shareable room code.
const CodeLength = 6

// GenerateCode returns a new random room code.
func GenerateCode(rng *rand.Rand) string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(codeAlphabet[rng.Intn(len(codeAlphabet))])
	}
	return b.String()
}

// NormalizeCode uppercases a user-typed code and checks it against the
// alphabet and length.
func NormalizeCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != CodeLength {
		return "", false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(codeAlphabet, rune(code[i])) {
			return "", false
		}
	}
	return code, true
}
