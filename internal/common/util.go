package common

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Passwords and PIN codes read from the terminal are wiped after use.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// MaskToken returns a printable hint of a credential: its first and last four
// characters. Short values are fully masked.
func MaskToken(token string) string {
	if token == "" {
		return "<none>"
	}
	if len(token) <= 12 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
