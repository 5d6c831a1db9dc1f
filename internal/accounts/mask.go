package accounts

import "strings"

// Mask redacts an account identifier for display and logging. For email
// addresses only the local part is masked; the domain stays readable so the
// operator can still tell accounts apart.
func Mask(identifier string) string {
	s := strings.TrimSpace(identifier)
	if local, dom, ok := strings.Cut(s, "@"); ok {
		return maskToken(local) + "@" + dom
	}
	return maskToken(s)
}

func maskToken(s string) string {
	runes := []rune(s)
	if len(runes) <= 2 {
		if len(runes) == 0 {
			return "*"
		}
		return string(runes[0]) + "*"
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1])
}
