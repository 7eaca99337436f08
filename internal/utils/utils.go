package utils

import "strings"

// NormalizeIdentifier turns a node or graph name into one usable in graph dumps: characters other than
// ASCII letters, digits and underscores become underscores, and a leading digit is prefixed with one.
func NormalizeIdentifier(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, name)
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}
