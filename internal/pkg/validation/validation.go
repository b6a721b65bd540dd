package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// Addresses are opaque account identifiers: hex wallets (0x...), or names like "brickblock:custody".
var addressRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9:_.\-]{2,127}$`)

func IsValidAddress(address string) bool {
	return addressRe.MatchString(address)
}

// IsValidPassword requires at least 8 characters with a letter, a number and a symbol.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

// ParseSchemes splits a comma separated prefix list ("https://,ipfs://").
func ParseSchemes(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(strings.ToLower(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsValidMetadataURI reports whether uri starts with one of schemes and carries a host or path.
func IsValidMetadataURI(uri string, schemes []string) bool {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return false
	}
	lower := strings.ToLower(uri)
	matched := false
	for _, s := range schemes {
		if strings.HasPrefix(lower, s) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	u, err := url.Parse(uri)
	if err != nil {
		return false
	}
	return u.Host != "" || strings.Trim(u.Path, "/") != "" || u.Opaque != ""
}
